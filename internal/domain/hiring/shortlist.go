package hiring

import (
	"context"
	"fmt"
	"strings"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/lock"
)

// CreateShortlistRequest files a Pending request for the actor's organization
func (s *Service) CreateShortlistRequest(ctx context.Context, actorID string, details domain.ProjectDetails, team []domain.TeamMember) (domain.ShortlistRequest, error) {
	if strings.TrimSpace(details.Goal) == "" {
		return domain.ShortlistRequest{}, domain.Invalid("project goal is required")
	}
	if !details.Category.Valid() {
		return domain.ShortlistRequest{}, domain.Invalid("unknown project category %q", details.Category)
	}
	if len(team) == 0 {
		return domain.ShortlistRequest{}, domain.Invalid("requested team is empty")
	}
	for _, m := range team {
		if m.RoleID == "" || m.Count <= 0 {
			return domain.ShortlistRequest{}, domain.Invalid("team member %q needs a role and a positive count", m.RoleName)
		}
	}

	var req domain.ShortlistRequest
	err := s.run(ctx, "create_shortlist_request", func(ctx context.Context) error {
		actor, err := s.dir.User(ctx, actorID)
		if err != nil {
			return err
		}
		if !actor.Role.IsClient() {
			return domain.Unauthorized("user %s is not a client", actorID)
		}
		org, err := s.dir.Organization(ctx, actor.OrganizationID)
		if err != nil {
			return err
		}

		req = domain.ShortlistRequest{
			ID:               s.newID(),
			OrganizationID:   org.ID,
			OrganizationName: org.Name,
			ProjectDetails:   details,
			RequestedTeam:    append([]domain.TeamMember(nil), team...),
			Status:           domain.ShortlistPending,
			RequestedDate:    s.now(),
		}
		if err := s.repos.Shortlists.Create(ctx, req); err != nil {
			return fmt.Errorf("hiring: create shortlist request: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.ShortlistRequest{}, err
	}

	s.recorder.Transition("shortlist", string(req.Status))
	s.logger.Info("shortlist requested", "request_id", req.ID, "organization_id", req.OrganizationID)
	return req, nil
}

// AssignCandidatesToRequest fulfills a Pending request with candidateIDs
func (s *Service) AssignCandidatesToRequest(ctx context.Context, actorID, requestID string, candidateIDs []string) (domain.ShortlistRequest, error) {
	if len(candidateIDs) == 0 {
		return domain.ShortlistRequest{}, domain.Invalid("at least one candidate is required")
	}

	var req domain.ShortlistRequest
	err := s.run(ctx, "assign_shortlist_candidates", func(ctx context.Context) error {
		if _, err := s.dir.RequireAdmin(ctx, actorID); err != nil {
			return err
		}

		assigned := make([]domain.Candidate, 0, len(candidateIDs))
		seen := make(map[string]struct{}, len(candidateIDs))
		for _, id := range candidateIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			cand, err := load(ctx, s.repos.Candidates, "candidate", id)
			if err != nil {
				return err
			}
			assigned = append(assigned, cand)
		}

		return s.locks.WithLock(ctx, lock.Key("shortlist", requestID), func(ctx context.Context) error {
			var err error
			req, err = save(ctx, s.repos.Shortlists, "shortlist request", requestID, func(r *domain.ShortlistRequest) error {
				if r.Status != domain.ShortlistPending {
					return domain.InvalidState("shortlist request %s is already %s", requestID, r.Status)
				}
				r.Status = domain.ShortlistFulfilled
				r.AssignedCandidates = assigned
				return nil
			})
			return err
		})
	})
	if err != nil {
		return domain.ShortlistRequest{}, err
	}

	s.recorder.Transition("shortlist", string(req.Status))
	s.logger.Info("shortlist fulfilled", "request_id", requestID, "candidates", len(req.AssignedCandidates))
	s.notifyClientAdmins(ctx, req.OrganizationID, domain.NotificationShortlistFulfilled,
		fmt.Sprintf("Your shortlist for \"%s\" is ready.", req.ProjectDetails.Goal),
		"/client/shortlists")
	return req, nil
}
