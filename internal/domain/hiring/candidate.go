package hiring

import (
	"context"
	"fmt"
	"strings"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/lock"
)

// CreateCandidateProfile links a new candidate profile to the acting
// CANDIDATE user. Name and email default to the user's own
func (s *Service) CreateCandidateProfile(ctx context.Context, actorID string, profile domain.Candidate) (domain.Candidate, error) {
	var cand domain.Candidate
	err := s.run(ctx, "create_candidate_profile", func(ctx context.Context) error {
		actor, err := s.dir.User(ctx, actorID)
		if err != nil {
			return err
		}
		if actor.Role != domain.RoleCandidate {
			return domain.Unauthorized("user %s is not a candidate", actorID)
		}

		return s.locks.WithLock(ctx, lock.Key("candidate-profile", actorID), func(ctx context.Context) error {
			_, exists, err := s.repos.Candidates.Find(ctx, func(c domain.Candidate) bool { return c.UserID == actorID })
			if err != nil {
				return fmt.Errorf("hiring: find candidate: %w", err)
			}
			if exists {
				return domain.InvalidState("user %s already has a candidate profile", actorID)
			}

			cand = profile
			cand.ID = s.newID()
			cand.UserID = actor.ID
			if strings.TrimSpace(cand.Name) == "" {
				cand.Name = actor.Name
			}
			if strings.TrimSpace(cand.Email) == "" {
				cand.Email = actor.Email
			}
			if err := s.repos.Candidates.Create(ctx, cand); err != nil {
				return fmt.Errorf("hiring: create candidate: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return domain.Candidate{}, err
	}

	s.logger.Info("candidate profile created", "candidate_id", cand.ID, "user_id", actorID)
	return cand, nil
}
