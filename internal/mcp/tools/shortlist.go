package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/domain/hiring"
	"github.com/honeycarbs/plugplayers/internal/domain/teambuilder"
)

// ProjectParams describes the project to staff
type ProjectParams struct {
	Goal     string `json:"goal" jsonschema:"What the project should achieve"`
	Category string `json:"category" jsonschema:"SaaS, E-commerce, Mobile App or Marketing Campaign"`
	Timeline int    `json:"timeline,omitempty" jsonschema:"Target duration in weeks"`
	Budget   int    `json:"budget,omitempty" jsonschema:"Monthly budget in dollars"`
}

func (p ProjectParams) details() domain.ProjectDetails {
	return domain.ProjectDetails{
		Goal:     p.Goal,
		Category: domain.ProjectCategory(p.Category),
		Timeline: p.Timeline,
		Budget:   p.Budget,
	}
}

// TeamMemberParams is one line of a requested team
type TeamMemberParams struct {
	RoleID   string `json:"role_id" jsonschema:"Catalog role id, e.g. fe-dev"`
	RoleName string `json:"role_name,omitempty" jsonschema:"Display name of the role"`
	Count    int    `json:"count" jsonschema:"How many people in this role"`
}

func teamFrom(params []TeamMemberParams) []domain.TeamMember {
	team := make([]domain.TeamMember, 0, len(params))
	for _, m := range params {
		team = append(team, domain.TeamMember{RoleID: m.RoleID, RoleName: m.RoleName, Count: m.Count})
	}
	return team
}

// CreateShortlistRequestParams defines the arguments for the create_shortlist_request tool
type CreateShortlistRequestParams struct {
	ActorID string             `json:"actor_id" jsonschema:"User id of a client"`
	Project ProjectParams      `json:"project" jsonschema:"Project to staff"`
	Team    []TeamMemberParams `json:"team" jsonschema:"Requested team composition"`
}

// AssignShortlistCandidatesParams defines the arguments for the assign_shortlist_candidates tool
type AssignShortlistCandidatesParams struct {
	ActorID      string   `json:"actor_id" jsonschema:"User id of a platform admin"`
	RequestID    string   `json:"request_id" jsonschema:"Pending shortlist request"`
	CandidateIDs []string `json:"candidate_ids" jsonschema:"Candidates to propose"`
}

// TeamSuggestionParams defines the arguments for the team_suggestion tool
type TeamSuggestionParams struct {
	Project ProjectParams      `json:"project" jsonschema:"Project to staff"`
	Team    []TeamMemberParams `json:"team,omitempty" jsonschema:"Custom team to estimate instead of the template"`
}

// TeamSuggestionResult carries either a template suggestion or a custom estimate
type TeamSuggestionResult struct {
	Suggestion *teambuilder.Suggestion `json:"suggestion,omitempty"`
	Estimate   *teambuilder.Estimate   `json:"estimate,omitempty"`
}

type shortlistTools struct {
	svc     *hiring.Service
	catalog *teambuilder.Catalog
}

// WithShortlistTools registers create_shortlist_request, assign_shortlist_candidates and team_suggestion
func WithShortlistTools(svc *hiring.Service, catalog *teambuilder.Catalog) Option {
	return func(reg *registry) {
		t := shortlistTools{svc: svc, catalog: catalog}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "create_shortlist_request",
			Description: "Ask the platform to propose candidates for a project team",
		}, t.create)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "assign_shortlist_candidates",
			Description: "Fulfill a pending shortlist request with candidates",
		}, t.assign)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "team_suggestion",
			Description: "Suggest a team, duration and cost for a project, or estimate a custom team",
		}, t.suggest)
	}
}

func (t shortlistTools) create(ctx context.Context, _ *sdkmcp.CallToolRequest, params *CreateShortlistRequestParams) (*sdkmcp.CallToolResult, any, error) {
	req, err := t.svc.CreateShortlistRequest(ctx, params.ActorID, params.Project.details(), teamFrom(params.Team))
	if err != nil {
		return nil, nil, toolError("create_shortlist_request", err)
	}
	return textResult(fmt.Sprintf("[create_shortlist_request] request %s for %q is %s", req.ID, req.ProjectDetails.Goal, req.Status)), req, nil
}

func (t shortlistTools) assign(ctx context.Context, _ *sdkmcp.CallToolRequest, params *AssignShortlistCandidatesParams) (*sdkmcp.CallToolResult, any, error) {
	req, err := t.svc.AssignCandidatesToRequest(ctx, params.ActorID, params.RequestID, params.CandidateIDs)
	if err != nil {
		return nil, nil, toolError("assign_shortlist_candidates", err)
	}
	return textResult(fmt.Sprintf("[assign_shortlist_candidates] request %s fulfilled with %d candidate(s)", req.ID, len(req.AssignedCandidates))), req, nil
}

func (t shortlistTools) suggest(_ context.Context, _ *sdkmcp.CallToolRequest, params *TeamSuggestionParams) (*sdkmcp.CallToolResult, any, error) {
	project := params.Project.details()

	if len(params.Team) > 0 {
		est, err := t.catalog.Simulate(teamFrom(params.Team), project)
		if err != nil {
			return nil, nil, toolError("team_suggestion", err)
		}
		msg := fmt.Sprintf("[team_suggestion] custom team: %d week(s), $%d", est.EstimatedWeeks, est.EstimatedCost)
		return textResult(msg), TeamSuggestionResult{Estimate: &est}, nil
	}

	s, err := t.catalog.Suggest(project)
	if err != nil {
		return nil, nil, toolError("team_suggestion", err)
	}
	msg := fmt.Sprintf("[team_suggestion] %s: %d week(s), $%d", project.Category, s.EstimatedWeeks, s.EstimatedCost)
	return textResult(msg), TeamSuggestionResult{Suggestion: &s}, nil
}
