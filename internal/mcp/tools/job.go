package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/domain/hiring"
)

// CreateJobParams defines the arguments for the create_job tool
type CreateJobParams struct {
	ActorID        string `json:"actor_id" jsonschema:"User id of a client of the organization or an admin"`
	OrganizationID string `json:"organization_id" jsonschema:"Organization publishing the job"`
	Title          string `json:"title" jsonschema:"Job title"`
	Location       string `json:"location,omitempty" jsonschema:"Where the work happens, e.g. Remote"`
	SalaryRange    string `json:"salary_range,omitempty" jsonschema:"Free text salary range"`
	Description    string `json:"description" jsonschema:"What the role involves"`
}

// ListJobsParams defines the arguments for the list_jobs tool
type ListJobsParams struct {
	OrganizationID string `json:"organization_id,omitempty" jsonschema:"List every job of this organization instead of the open board"`
}

// ListJobsResult wraps the listed jobs
type ListJobsResult struct {
	Jobs []domain.Job `json:"jobs"`
}

// CreateCandidateProfileParams defines the arguments for the create_candidate_profile tool
type CreateCandidateProfileParams struct {
	ActorID      string   `json:"actor_id" jsonschema:"User id of a CANDIDATE without a profile"`
	Name         string   `json:"name,omitempty" jsonschema:"Defaults to the user's name"`
	Email        string   `json:"email,omitempty" jsonschema:"Defaults to the user's email"`
	Skills       []string `json:"skills,omitempty"`
	Experience   string   `json:"experience,omitempty" jsonschema:"e.g. 5 years"`
	ExpectedRate string   `json:"expected_rate,omitempty" jsonschema:"e.g. $80/hr"`
	ResumeURL    string   `json:"resume_url,omitempty"`
	LinkedinURL  string   `json:"linkedin_url,omitempty"`
}

type jobTools struct {
	svc *hiring.Service
}

// WithJobTools registers create_job, list_jobs and create_candidate_profile
func WithJobTools(svc *hiring.Service) Option {
	return func(reg *registry) {
		t := jobTools{svc: svc}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "create_job",
			Description: "Publish an Open job for an organization",
		}, t.createJob)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "list_jobs",
			Description: "List open jobs, or every job of one organization",
		}, t.listJobs)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "create_candidate_profile",
			Description: "Create the candidate profile of the acting CANDIDATE user so they can apply to jobs",
		}, t.createCandidateProfile)
	}
}

func (t jobTools) createJob(ctx context.Context, _ *sdkmcp.CallToolRequest, params *CreateJobParams) (*sdkmcp.CallToolResult, any, error) {
	job, err := t.svc.CreateJob(ctx, params.ActorID, params.OrganizationID, hiring.JobPosting{
		Title:       params.Title,
		Location:    params.Location,
		SalaryRange: params.SalaryRange,
		Description: params.Description,
	})
	if err != nil {
		return nil, nil, toolError("create_job", err)
	}
	return textResult(fmt.Sprintf("[create_job] job %s %q is %s", job.ID, job.Title, job.Status)), job, nil
}

func (t jobTools) listJobs(ctx context.Context, _ *sdkmcp.CallToolRequest, params *ListJobsParams) (*sdkmcp.CallToolResult, any, error) {
	var (
		jobs []domain.Job
		err  error
	)
	if params.OrganizationID != "" {
		jobs, err = t.svc.JobsForOrganization(ctx, params.OrganizationID)
	} else {
		jobs, err = t.svc.OpenJobs(ctx)
	}
	if err != nil {
		return nil, nil, toolError("list_jobs", err)
	}
	return textResult(fmt.Sprintf("[list_jobs] %d jobs", len(jobs))), ListJobsResult{Jobs: jobs}, nil
}

func (t jobTools) createCandidateProfile(ctx context.Context, _ *sdkmcp.CallToolRequest, params *CreateCandidateProfileParams) (*sdkmcp.CallToolResult, any, error) {
	cand, err := t.svc.CreateCandidateProfile(ctx, params.ActorID, domain.Candidate{
		Name:         params.Name,
		Email:        params.Email,
		Skills:       params.Skills,
		Experience:   params.Experience,
		ExpectedRate: params.ExpectedRate,
		ResumeURL:    params.ResumeURL,
		LinkedinURL:  params.LinkedinURL,
	})
	if err != nil {
		return nil, nil, toolError("create_candidate_profile", err)
	}
	return textResult(fmt.Sprintf("[create_candidate_profile] candidate %s created for user %s", cand.ID, cand.UserID)), cand, nil
}
