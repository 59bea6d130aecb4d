package hiring

import (
	"context"
	"fmt"
	"sort"

	"github.com/honeycarbs/plugplayers/internal/domain"
)

// ApplicationView is an application with its candidate and interviews
type ApplicationView struct {
	Application domain.Application `json:"application"`
	Candidate   domain.Candidate   `json:"candidate"`
	Interviews  []domain.Interview `json:"interviews"`
}

// Application returns one application
func (s *Service) Application(ctx context.Context, id string) (domain.Application, error) {
	return load(ctx, s.repos.Applications, "application", id)
}

// Job returns one job
func (s *Service) Job(ctx context.Context, id string) (domain.Job, error) {
	return load(ctx, s.repos.Jobs, "job", id)
}

// Contract returns one contract
func (s *Service) Contract(ctx context.Context, id string) (domain.Contract, error) {
	return load(ctx, s.repos.Contracts, "contract", id)
}

// Payment returns one payment
func (s *Service) Payment(ctx context.Context, id string) (domain.Payment, error) {
	return load(ctx, s.repos.Payments, "payment", id)
}

// OpenJobs lists every Open job ordered by title
func (s *Service) OpenJobs(ctx context.Context) ([]domain.Job, error) {
	return s.jobs(ctx, func(j domain.Job) bool { return j.Status == domain.JobOpen })
}

// JobsForOrganization lists an organization's jobs in any status ordered by title
func (s *Service) JobsForOrganization(ctx context.Context, orgID string) ([]domain.Job, error) {
	return s.jobs(ctx, func(j domain.Job) bool { return j.OrganizationID == orgID })
}

func (s *Service) jobs(ctx context.Context, keep func(domain.Job) bool) ([]domain.Job, error) {
	items, err := s.repos.Jobs.List(ctx, keep)
	if err != nil {
		return nil, fmt.Errorf("hiring: list jobs: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Title != items[j].Title {
			return items[i].Title < items[j].Title
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

// ApplicationsForJob lists a job's applications, each with interviews newest first
func (s *Service) ApplicationsForJob(ctx context.Context, jobID string) ([]ApplicationView, error) {
	apps, err := s.repos.Applications.List(ctx, func(a domain.Application) bool { return a.JobID == jobID })
	if err != nil {
		return nil, fmt.Errorf("hiring: list applications: %w", err)
	}
	sortApplications(apps)

	views := make([]ApplicationView, 0, len(apps))
	for _, app := range apps {
		cand, err := load(ctx, s.repos.Candidates, "candidate", app.CandidateID)
		if err != nil {
			return nil, err
		}
		interviews, err := s.interviewsFor(ctx, func(iv domain.Interview) bool { return iv.ApplicationID == app.ID })
		if err != nil {
			return nil, err
		}
		views = append(views, ApplicationView{Application: app, Candidate: cand, Interviews: interviews})
	}
	return views, nil
}

// ApplicationsForCandidate lists a candidate's applications newest first
func (s *Service) ApplicationsForCandidate(ctx context.Context, candidateID string) ([]domain.Application, error) {
	apps, err := s.repos.Applications.List(ctx, func(a domain.Application) bool { return a.CandidateID == candidateID })
	if err != nil {
		return nil, fmt.Errorf("hiring: list applications: %w", err)
	}
	sortApplications(apps)
	return apps, nil
}

// InterviewsForCandidate lists interviews across a candidate's applications
func (s *Service) InterviewsForCandidate(ctx context.Context, candidateID string) ([]domain.Interview, error) {
	apps, err := s.ApplicationsForCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	mine := make(map[string]struct{}, len(apps))
	for _, a := range apps {
		mine[a.ID] = struct{}{}
	}
	return s.interviewsFor(ctx, func(iv domain.Interview) bool {
		_, ok := mine[iv.ApplicationID]
		return ok
	})
}

// LatestInterview returns the interview that governs actions on an
// application: the one with the latest date and time
func (s *Service) LatestInterview(ctx context.Context, applicationID string) (domain.Interview, error) {
	interviews, err := s.interviewsFor(ctx, func(iv domain.Interview) bool { return iv.ApplicationID == applicationID })
	if err != nil {
		return domain.Interview{}, err
	}
	if len(interviews) == 0 {
		return domain.Interview{}, domain.NotFound("interview for application", applicationID)
	}
	return interviews[0], nil
}

func (s *Service) interviewsFor(ctx context.Context, keep func(domain.Interview) bool) ([]domain.Interview, error) {
	interviews, err := s.repos.Interviews.List(ctx, keep)
	if err != nil {
		return nil, fmt.Errorf("hiring: list interviews: %w", err)
	}
	sort.SliceStable(interviews, func(i, j int) bool {
		return interviews[i].DateTime.After(interviews[j].DateTime)
	})
	return interviews, nil
}

// ContractsForOrganization lists an organization's contracts newest first
func (s *Service) ContractsForOrganization(ctx context.Context, orgID string) ([]domain.Contract, error) {
	return s.contracts(ctx, func(c domain.Contract) bool { return c.OrganizationID == orgID })
}

// ContractsForCandidate lists a candidate's contracts newest first
func (s *Service) ContractsForCandidate(ctx context.Context, candidateID string) ([]domain.Contract, error) {
	return s.contracts(ctx, func(c domain.Contract) bool { return c.CandidateID == candidateID })
}

// ContractForApplication returns the contract generated for a hired application
func (s *Service) ContractForApplication(ctx context.Context, applicationID string) (domain.Contract, error) {
	c, ok, err := s.repos.Contracts.Find(ctx, func(c domain.Contract) bool { return c.ApplicationID == applicationID })
	if err != nil {
		return domain.Contract{}, fmt.Errorf("hiring: find contract: %w", err)
	}
	if !ok {
		return domain.Contract{}, domain.NotFound("contract for application", applicationID)
	}
	return c, nil
}

// AllContracts lists every contract newest first
func (s *Service) AllContracts(ctx context.Context) ([]domain.Contract, error) {
	return s.contracts(ctx, nil)
}

func (s *Service) contracts(ctx context.Context, keep func(domain.Contract) bool) ([]domain.Contract, error) {
	items, err := s.repos.Contracts.List(ctx, keep)
	if err != nil {
		return nil, fmt.Errorf("hiring: list contracts: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].GeneratedDate.After(items[j].GeneratedDate)
	})
	return items, nil
}

// PaymentsForOrganization lists an organization's payments newest first
func (s *Service) PaymentsForOrganization(ctx context.Context, orgID string) ([]domain.Payment, error) {
	return s.payments(ctx, func(p domain.Payment) bool { return p.OrganizationID == orgID })
}

// PaymentsForCandidate lists the disbursed payments of a candidate
func (s *Service) PaymentsForCandidate(ctx context.Context, candidateID string) ([]domain.Payment, error) {
	return s.payments(ctx, func(p domain.Payment) bool {
		return p.CandidateID == candidateID && p.Status == domain.PaymentDisbursed
	})
}

// AllPayments lists every payment newest first
func (s *Service) AllPayments(ctx context.Context) ([]domain.Payment, error) {
	return s.payments(ctx, nil)
}

func (s *Service) payments(ctx context.Context, keep func(domain.Payment) bool) ([]domain.Payment, error) {
	items, err := s.repos.Payments.List(ctx, keep)
	if err != nil {
		return nil, fmt.Errorf("hiring: list payments: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PaymentDate.After(items[j].PaymentDate)
	})
	return items, nil
}

// ShortlistRequestsForOrganization lists an organization's requests newest first
func (s *Service) ShortlistRequestsForOrganization(ctx context.Context, orgID string) ([]domain.ShortlistRequest, error) {
	return s.shortlists(ctx, func(r domain.ShortlistRequest) bool { return r.OrganizationID == orgID })
}

// AllShortlistRequests lists every request newest first
func (s *Service) AllShortlistRequests(ctx context.Context) ([]domain.ShortlistRequest, error) {
	return s.shortlists(ctx, nil)
}

func (s *Service) shortlists(ctx context.Context, keep func(domain.ShortlistRequest) bool) ([]domain.ShortlistRequest, error) {
	items, err := s.repos.Shortlists.List(ctx, keep)
	if err != nil {
		return nil, fmt.Errorf("hiring: list shortlist requests: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].RequestedDate.After(items[j].RequestedDate)
	})
	return items, nil
}

func sortApplications(apps []domain.Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].AppliedDate.After(apps[j].AppliedDate)
	})
}
