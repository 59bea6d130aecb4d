// Package dashboard aggregates marketplace counters for the admin and client home pages
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/repository"
)

const recentActivityLimit = 5

// AdminStats summarizes the whole marketplace
type AdminStats struct {
	ActiveOrganizations   int `json:"activeOrgs"`
	TrialingOrganizations int `json:"trialingOrgs"`
	CandidatePoolSize     int `json:"candidatePoolSize"`
	OpenJobs              int `json:"openJobs"`
}

// ClientStats summarizes one organization
type ClientStats struct {
	OpenJobs          int `json:"openJobs"`
	TotalApplications int `json:"totalApplications"`
	ActiveHires       int `json:"activeHires"`
	PendingShortlists int `json:"pendingShortlists"`
}

// Activity is a recent application with its candidate and job
type Activity struct {
	domain.Application
	Candidate *domain.Candidate `json:"candidate,omitempty"`
	Job       *domain.Job       `json:"job,omitempty"`
}

// Service reads counters straight from the repositories
type Service struct {
	repos *repository.Repositories
}

// NewService creates a dashboard service
func NewService(repos *repository.Repositories) *Service {
	return &Service{repos: repos}
}

// AdminStats counts organizations by subscription, candidates and open jobs
func (s *Service) AdminStats(ctx context.Context) (AdminStats, error) {
	orgs, err := s.repos.Organizations.List(ctx, nil)
	if err != nil {
		return AdminStats{}, fmt.Errorf("dashboard: list organizations: %w", err)
	}
	candidates, err := s.repos.Candidates.List(ctx, nil)
	if err != nil {
		return AdminStats{}, fmt.Errorf("dashboard: list candidates: %w", err)
	}
	open, err := s.repos.Jobs.List(ctx, func(j domain.Job) bool { return j.Status == domain.JobOpen })
	if err != nil {
		return AdminStats{}, fmt.Errorf("dashboard: list jobs: %w", err)
	}

	stats := AdminStats{CandidatePoolSize: len(candidates), OpenJobs: len(open)}
	for _, o := range orgs {
		switch o.SubscriptionStatus {
		case domain.SubscriptionActive:
			stats.ActiveOrganizations++
		case domain.SubscriptionTrialing:
			stats.TrialingOrganizations++
		}
	}
	return stats, nil
}

// ClientStats counts an organization's open jobs, applications, signed
// contracts and pending shortlist requests
func (s *Service) ClientStats(ctx context.Context, orgID string) (ClientStats, error) {
	jobs, err := s.orgJobs(ctx, orgID)
	if err != nil {
		return ClientStats{}, err
	}

	var stats ClientStats
	for _, j := range jobs {
		if j.Status == domain.JobOpen {
			stats.OpenJobs++
		}
	}

	apps, err := s.repos.Applications.List(ctx, func(a domain.Application) bool {
		_, ok := jobs[a.JobID]
		return ok
	})
	if err != nil {
		return ClientStats{}, fmt.Errorf("dashboard: list applications: %w", err)
	}
	stats.TotalApplications = len(apps)

	hires, err := s.repos.Contracts.List(ctx, func(c domain.Contract) bool {
		return c.OrganizationID == orgID && c.Status == domain.ContractSigned
	})
	if err != nil {
		return ClientStats{}, fmt.Errorf("dashboard: list contracts: %w", err)
	}
	stats.ActiveHires = len(hires)

	pending, err := s.repos.Shortlists.List(ctx, func(r domain.ShortlistRequest) bool {
		return r.OrganizationID == orgID && r.Status == domain.ShortlistPending
	})
	if err != nil {
		return ClientStats{}, fmt.Errorf("dashboard: list shortlist requests: %w", err)
	}
	stats.PendingShortlists = len(pending)

	return stats, nil
}

// RecentActivity returns the organization's five newest applications
func (s *Service) RecentActivity(ctx context.Context, orgID string) ([]Activity, error) {
	jobs, err := s.orgJobs(ctx, orgID)
	if err != nil {
		return nil, err
	}
	apps, err := s.repos.Applications.List(ctx, func(a domain.Application) bool {
		_, ok := jobs[a.JobID]
		return ok
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard: list applications: %w", err)
	}
	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].AppliedDate.After(apps[j].AppliedDate)
	})
	if len(apps) > recentActivityLimit {
		apps = apps[:recentActivityLimit]
	}

	out := make([]Activity, 0, len(apps))
	for _, a := range apps {
		act := Activity{Application: a}
		if job, ok := jobs[a.JobID]; ok {
			act.Job = &job
		}
		cand, err := s.repos.Candidates.Get(ctx, a.CandidateID)
		switch {
		case err == nil:
			act.Candidate = &cand
		case !errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("dashboard: load candidate: %w", err)
		}
		out = append(out, act)
	}
	return out, nil
}

func (s *Service) orgJobs(ctx context.Context, orgID string) (map[string]domain.Job, error) {
	jobs, err := s.repos.Jobs.List(ctx, func(j domain.Job) bool { return j.OrganizationID == orgID })
	if err != nil {
		return nil, fmt.Errorf("dashboard: list jobs: %w", err)
	}
	byID := make(map[string]domain.Job, len(jobs))
	for _, j := range jobs {
		byID[j.ID] = j
	}
	return byID, nil
}
