package hiring

import (
	"context"
	"errors"
	"fmt"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/domain/identity"
	"github.com/honeycarbs/plugplayers/internal/lock"
)

// ErrContractGeneration marks a Hire Sequence whose Application was saved as
// Hired but whose contract could not be created. GenerateContract retries it
var ErrContractGeneration = errors.New("contract generation failed")

// ApplyForJob submits candidateID for jobID. A repeat call returns the
// existing application and sends no notification
func (s *Service) ApplyForJob(ctx context.Context, candidateID, jobID string) (domain.Application, error) {
	var (
		app     domain.Application
		created bool
		cand    domain.Candidate
		job     domain.Job
	)

	err := s.run(ctx, "apply_for_job", func(ctx context.Context) error {
		return s.locks.WithLock(ctx, lock.Key("apply", candidateID+"/"+jobID), func(ctx context.Context) error {
			var err error
			if cand, err = load(ctx, s.repos.Candidates, "candidate", candidateID); err != nil {
				return err
			}
			if job, err = load(ctx, s.repos.Jobs, "job", jobID); err != nil {
				return err
			}

			existing, ok, err := s.repos.Applications.Find(ctx, func(a domain.Application) bool {
				return a.CandidateID == candidateID && a.JobID == jobID
			})
			if err != nil {
				return fmt.Errorf("hiring: find application: %w", err)
			}
			if ok {
				app = existing
				// repairs a count left behind by an apply that failed after the create
				job, err = s.syncApplicationsCount(ctx, jobID)
				return err
			}
			if job.Status != domain.JobOpen {
				return domain.InvalidState("job %s is %s, not Open", jobID, job.Status)
			}

			app = domain.Application{
				ID:          s.newID(),
				CandidateID: candidateID,
				JobID:       jobID,
				Status:      domain.ApplicationSubmitted,
				AppliedDate: s.now(),
			}
			if err := s.repos.Applications.Create(ctx, app); err != nil {
				return fmt.Errorf("hiring: create application: %w", err)
			}
			created = true

			job, err = s.syncApplicationsCount(ctx, jobID)
			return err
		})
	})
	if err != nil {
		return domain.Application{}, err
	}
	if !created {
		s.logger.Debug("application already exists", "application_id", app.ID, "candidate_id", candidateID, "job_id", jobID)
		return app, nil
	}

	s.recorder.Transition("application", string(app.Status))
	s.logger.Info("application submitted", "application_id", app.ID, "candidate_id", candidateID, "job_id", jobID)
	s.notifyClientAdmins(ctx, job.OrganizationID, domain.NotificationNewApplication,
		fmt.Sprintf("%s applied for %s.", cand.Name, job.Title),
		fmt.Sprintf("/client/jobs/%s", job.ID))
	return app, nil
}

// syncApplicationsCount sets the job's ApplicationsCount to the number of
// stored applications for it
func (s *Service) syncApplicationsCount(ctx context.Context, jobID string) (domain.Job, error) {
	var job domain.Job
	err := s.locks.WithLock(ctx, lock.Key("job", jobID), func(ctx context.Context) error {
		apps, err := s.repos.Applications.List(ctx, func(a domain.Application) bool { return a.JobID == jobID })
		if err != nil {
			return fmt.Errorf("hiring: count applications: %w", err)
		}
		if job, err = load(ctx, s.repos.Jobs, "job", jobID); err != nil {
			return err
		}
		if job.ApplicationsCount == len(apps) {
			return nil
		}
		job, err = save(ctx, s.repos.Jobs, "job", jobID, func(j *domain.Job) error {
			j.ApplicationsCount = len(apps)
			return nil
		})
		return err
	})
	return job, err
}

// UpdateApplicationStatus moves an application to status. Moving to Hired
// runs the Hire Sequence: the status is saved first, then the contract is
// generated. When generation fails the returned application is Hired and the
// error wraps ErrContractGeneration
func (s *Service) UpdateApplicationStatus(ctx context.Context, actorID, applicationID string, status domain.ApplicationStatus) (domain.Application, error) {
	if !status.Valid() {
		return domain.Application{}, domain.Invalid("unknown application status %q", status)
	}

	var (
		app     domain.Application
		job     domain.Job
		cand    domain.Candidate
		changed bool
		genErr  error
	)

	err := s.run(ctx, "update_application_status", func(ctx context.Context) error {
		actor, err := s.dir.User(ctx, actorID)
		if err != nil {
			return err
		}

		return s.locks.WithLock(ctx, lock.Key("application", applicationID), func(ctx context.Context) error {
			if app, err = load(ctx, s.repos.Applications, "application", applicationID); err != nil {
				return err
			}
			if job, err = load(ctx, s.repos.Jobs, "job", app.JobID); err != nil {
				return err
			}
			if !identity.CanActForOrg(actor, job.OrganizationID) {
				return domain.Unauthorized("user %s cannot manage applications of organization %s", actorID, job.OrganizationID)
			}

			if app.Status == status {
				return nil
			}
			if app.Status == domain.ApplicationHired {
				return domain.InvalidState("application %s is already Hired", applicationID)
			}
			if status == domain.ApplicationHired && app.Status == domain.ApplicationRejected {
				return domain.InvalidState("application %s was Rejected and cannot be Hired", applicationID)
			}

			if cand, err = load(ctx, s.repos.Candidates, "candidate", app.CandidateID); err != nil {
				return err
			}

			app, err = save(ctx, s.repos.Applications, "application", applicationID, func(a *domain.Application) error {
				a.Status = status
				return nil
			})
			if err != nil {
				return err
			}
			changed = true

			if status == domain.ApplicationHired {
				_, genErr = s.generateContract(ctx, app, job, cand)
			}
			return nil
		})
	})
	if err != nil {
		return domain.Application{}, err
	}
	if !changed {
		return app, nil
	}

	s.recorder.Transition("application", string(status))
	s.logger.Info("application status updated", "application_id", app.ID, "status", status, "actor_id", actorID)
	s.notifyCandidate(ctx, cand, domain.NotificationContractAction,
		fmt.Sprintf("Your application status for %s was updated to %s.", job.Title, status),
		"/candidate/applications")

	if genErr != nil {
		s.logger.Error("hired application has no contract", "application_id", app.ID, "err", genErr)
		return app, fmt.Errorf("hiring: application %s is Hired: %w: %w", app.ID, ErrContractGeneration, genErr)
	}
	return app, nil
}

// GenerateContract creates the contract of a Hired application that has
// none. It retries a Hire Sequence interrupted after the status change.
// actorID must be a client of the job's organization or an admin
func (s *Service) GenerateContract(ctx context.Context, actorID, applicationID string) (domain.Contract, error) {
	var contract domain.Contract

	err := s.run(ctx, "generate_contract", func(ctx context.Context) error {
		actor, err := s.dir.User(ctx, actorID)
		if err != nil {
			return err
		}

		return s.locks.WithLock(ctx, lock.Key("application", applicationID), func(ctx context.Context) error {
			app, err := load(ctx, s.repos.Applications, "application", applicationID)
			if err != nil {
				return err
			}
			job, err := load(ctx, s.repos.Jobs, "job", app.JobID)
			if err != nil {
				return err
			}
			if !identity.CanActForOrg(actor, job.OrganizationID) {
				return domain.Unauthorized("user %s cannot generate contracts for organization %s", actorID, job.OrganizationID)
			}
			if app.Status != domain.ApplicationHired {
				return domain.InvalidState("application %s is %s, not Hired", applicationID, app.Status)
			}
			cand, err := load(ctx, s.repos.Candidates, "candidate", app.CandidateID)
			if err != nil {
				return err
			}
			contract, err = s.generateContract(ctx, app, job, cand)
			return err
		})
	})
	if err != nil {
		return domain.Contract{}, err
	}
	return contract, nil
}

// generateContract must run under the application lock
func (s *Service) generateContract(ctx context.Context, app domain.Application, job domain.Job, cand domain.Candidate) (domain.Contract, error) {
	_, exists, err := s.repos.Contracts.Find(ctx, func(c domain.Contract) bool { return c.ApplicationID == app.ID })
	if err != nil {
		return domain.Contract{}, fmt.Errorf("hiring: find contract: %w", err)
	}
	if exists {
		return domain.Contract{}, domain.InvalidState("application %s already has a contract", app.ID)
	}

	org, err := s.dir.Organization(ctx, job.OrganizationID)
	if err != nil {
		return domain.Contract{}, err
	}
	content, err := s.writeContract(job, cand, org)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("hiring: write contract: %w", err)
	}

	contract := domain.Contract{
		ID:              s.newID(),
		ApplicationID:   app.ID,
		OrganizationID:  org.ID,
		CandidateID:     cand.ID,
		CandidateUserID: cand.UserID,
		JobTitle:        job.Title,
		ClientName:      org.Name,
		CandidateName:   cand.Name,
		Content:         content,
		Status:          domain.ContractPendingClient,
		GeneratedDate:   s.now(),
	}
	if err := s.repos.Contracts.Create(ctx, contract); err != nil {
		return domain.Contract{}, fmt.Errorf("hiring: create contract: %w", err)
	}

	s.recorder.Transition("contract", string(contract.Status))
	s.logger.Info("contract generated", "contract_id", contract.ID, "application_id", app.ID)
	return contract, nil
}
