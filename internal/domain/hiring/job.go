package hiring

import (
	"context"
	"fmt"
	"strings"

	"github.com/honeycarbs/plugplayers/internal/domain"
)

// JobPosting is what a client fills in to publish a job
type JobPosting struct {
	Title       string `json:"title"`
	Location    string `json:"location"`
	SalaryRange string `json:"salaryRange"`
	Description string `json:"description"`
}

// CreateJob publishes an Open job for orgID. actorID must be a client of
// orgID or an admin
func (s *Service) CreateJob(ctx context.Context, actorID, orgID string, posting JobPosting) (domain.Job, error) {
	if strings.TrimSpace(posting.Title) == "" {
		return domain.Job{}, domain.Invalid("job title is required")
	}
	if strings.TrimSpace(posting.Description) == "" {
		return domain.Job{}, domain.Invalid("job description is required")
	}

	var job domain.Job
	err := s.run(ctx, "create_job", func(ctx context.Context) error {
		if _, err := s.dir.RequireOrgAccess(ctx, actorID, orgID); err != nil {
			return err
		}
		org, err := s.dir.Organization(ctx, orgID)
		if err != nil {
			return err
		}

		job = domain.Job{
			ID:               s.newID(),
			Title:            strings.TrimSpace(posting.Title),
			OrganizationID:   org.ID,
			OrganizationName: org.Name,
			Location:         posting.Location,
			SalaryRange:      posting.SalaryRange,
			Description:      posting.Description,
			Status:           domain.JobOpen,
		}
		if err := s.repos.Jobs.Create(ctx, job); err != nil {
			return fmt.Errorf("hiring: create job: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Job{}, err
	}

	s.recorder.Transition("job", string(job.Status))
	s.logger.Info("job created", "job_id", job.ID, "organization_id", job.OrganizationID, "actor_id", actorID)
	return job, nil
}
