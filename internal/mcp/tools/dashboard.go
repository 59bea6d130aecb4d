package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/domain/dashboard"
	"github.com/honeycarbs/plugplayers/internal/domain/identity"
)

// DashboardStatsParams defines the arguments for the dashboard_stats tool
type DashboardStatsParams struct {
	ActorID string `json:"actor_id" jsonschema:"Admin or client user id"`
}

// DashboardStatsResult holds the stats visible to the actor's role
type DashboardStatsResult struct {
	Admin          *dashboard.AdminStats  `json:"admin,omitempty"`
	Client         *dashboard.ClientStats `json:"client,omitempty"`
	RecentActivity []dashboard.Activity   `json:"recent_activity,omitempty"`
}

type dashboardTool struct {
	svc *dashboard.Service
	dir *identity.Directory
}

// WithDashboardStats registers the dashboard_stats tool
func WithDashboardStats(svc *dashboard.Service, dir *identity.Directory) Option {
	return func(reg *registry) {
		t := dashboardTool{svc: svc, dir: dir}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "dashboard_stats",
			Description: "Marketplace counters for admins, organization counters and recent applications for clients",
		}, t.handle)
	}
}

func (t dashboardTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params *DashboardStatsParams) (*sdkmcp.CallToolResult, any, error) {
	u, err := t.dir.User(ctx, params.ActorID)
	if err != nil {
		return nil, nil, toolError("dashboard_stats", err)
	}

	var result DashboardStatsResult
	switch {
	case u.Role.IsAdmin():
		stats, err := t.svc.AdminStats(ctx)
		if err != nil {
			return nil, nil, toolError("dashboard_stats", err)
		}
		result.Admin = &stats
		msg := fmt.Sprintf("[dashboard_stats] %d active org(s), %d trialing, %d candidate(s), %d open job(s)",
			stats.ActiveOrganizations, stats.TrialingOrganizations, stats.CandidatePoolSize, stats.OpenJobs)
		return textResult(msg), result, nil
	case u.Role.IsClient():
		stats, err := t.svc.ClientStats(ctx, u.OrganizationID)
		if err != nil {
			return nil, nil, toolError("dashboard_stats", err)
		}
		activity, err := t.svc.RecentActivity(ctx, u.OrganizationID)
		if err != nil {
			return nil, nil, toolError("dashboard_stats", err)
		}
		result.Client = &stats
		result.RecentActivity = activity
		msg := fmt.Sprintf("[dashboard_stats] %d open job(s), %d application(s), %d active hire(s), %d pending shortlist(s)",
			stats.OpenJobs, stats.TotalApplications, stats.ActiveHires, stats.PendingShortlists)
		return textResult(msg), result, nil
	default:
		return nil, nil, toolError("dashboard_stats", domain.Unauthorized("role %s has no dashboard", u.Role))
	}
}
