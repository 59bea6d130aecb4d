package tools

import (
	"context"
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/domain/hiring"
	"github.com/honeycarbs/plugplayers/internal/domain/identity"
	"github.com/honeycarbs/plugplayers/pkg/logging"
)

// ApplyForJobParams defines the arguments for the apply_for_job tool
type ApplyForJobParams struct {
	ActorID string `json:"actor_id" jsonschema:"User id of the applying candidate"`
	JobID   string `json:"job_id" jsonschema:"Job to apply for"`
}

// UpdateApplicationStatusParams defines the arguments for the update_application_status tool
type UpdateApplicationStatusParams struct {
	ActorID       string `json:"actor_id" jsonschema:"User id of a client of the job's organization or an admin"`
	ApplicationID string `json:"application_id" jsonschema:"Application to move"`
	Status        string `json:"status" jsonschema:"One of Submitted, Shortlisted, Interview, Offer, Hired, Rejected"`
}

// UpdateApplicationStatusResult reports the committed status and any contract failure
type UpdateApplicationStatusResult struct {
	Application   domain.Application `json:"application" jsonschema:"Application after the change"`
	Contract      *domain.Contract   `json:"contract,omitempty" jsonschema:"Contract generated by the hire"`
	ContractError string             `json:"contract_error,omitempty" jsonschema:"Set when the application is Hired but its contract could not be generated"`
}

// GenerateContractParams defines the arguments for the generate_contract tool
type GenerateContractParams struct {
	ActorID       string `json:"actor_id" jsonschema:"User id of a client of the job's organization or an admin"`
	ApplicationID string `json:"application_id" jsonschema:"Hired application without a contract"`
}

type applicationTools struct {
	svc    *hiring.Service
	dir    *identity.Directory
	logger *logging.Logger
}

// WithApplicationTools registers apply_for_job, update_application_status and generate_contract
func WithApplicationTools(svc *hiring.Service, dir *identity.Directory) Option {
	return func(reg *registry) {
		t := applicationTools{svc: svc, dir: dir, logger: reg.logger}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "apply_for_job",
			Description: "Submit the acting candidate's application to a job. Applying twice returns the existing application",
		}, t.apply)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "update_application_status",
			Description: "Move an application through the pipeline. Hiring generates the contract",
		}, t.updateStatus)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "generate_contract",
			Description: "Generate the missing contract of a Hired application",
		}, t.generateContract)
	}
}

func (t applicationTools) apply(ctx context.Context, _ *sdkmcp.CallToolRequest, params *ApplyForJobParams) (*sdkmcp.CallToolResult, any, error) {
	cand, err := t.dir.CandidateForUser(ctx, params.ActorID)
	if err != nil {
		return nil, nil, toolError("apply_for_job", err)
	}
	app, err := t.svc.ApplyForJob(ctx, cand.ID, params.JobID)
	if err != nil {
		return nil, nil, toolError("apply_for_job", err)
	}

	msg := fmt.Sprintf("[apply_for_job] %s applied for job %s (application %s, %s)", cand.Name, params.JobID, app.ID, app.Status)
	return textResult(msg), app, nil
}

func (t applicationTools) updateStatus(ctx context.Context, _ *sdkmcp.CallToolRequest, params *UpdateApplicationStatusParams) (*sdkmcp.CallToolResult, any, error) {
	app, err := t.svc.UpdateApplicationStatus(ctx, params.ActorID, params.ApplicationID, domain.ApplicationStatus(params.Status))
	if errors.Is(err, hiring.ErrContractGeneration) {
		t.logger.Warn("update_application_status: hired without contract", "application_id", params.ApplicationID, "err", err)
		result := UpdateApplicationStatusResult{Application: app, ContractError: err.Error()}
		msg := fmt.Sprintf("[update_application_status] application %s is Hired but its contract failed; retry with generate_contract", app.ID)
		return textResult(msg), result, nil
	}
	if err != nil {
		return nil, nil, toolError("update_application_status", err)
	}

	result := UpdateApplicationStatusResult{Application: app}
	msg := fmt.Sprintf("[update_application_status] application %s is %s", app.ID, app.Status)
	if app.Status == domain.ApplicationHired {
		if c, err := t.svc.ContractForApplication(ctx, app.ID); err == nil {
			result.Contract = &c
			msg += fmt.Sprintf(", contract %s awaits signatures", c.ID)
		}
	}
	return textResult(msg), result, nil
}

func (t applicationTools) generateContract(ctx context.Context, _ *sdkmcp.CallToolRequest, params *GenerateContractParams) (*sdkmcp.CallToolResult, any, error) {
	contract, err := t.svc.GenerateContract(ctx, params.ActorID, params.ApplicationID)
	if err != nil {
		return nil, nil, toolError("generate_contract", err)
	}

	msg := fmt.Sprintf("[generate_contract] contract %s generated for application %s", contract.ID, params.ApplicationID)
	return textResult(msg), contract, nil
}
