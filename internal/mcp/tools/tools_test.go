package tools

import (
	"context"
	"encoding/json"
	"sort"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/domain/dashboard"
	"github.com/honeycarbs/plugplayers/internal/domain/hiring"
	"github.com/honeycarbs/plugplayers/internal/domain/identity"
	"github.com/honeycarbs/plugplayers/internal/domain/notification"
	"github.com/honeycarbs/plugplayers/internal/domain/teambuilder"
	"github.com/honeycarbs/plugplayers/internal/export"
	"github.com/honeycarbs/plugplayers/internal/repository"
	"github.com/honeycarbs/plugplayers/internal/seed"
	"github.com/honeycarbs/plugplayers/internal/storage/memory"
)

type stubExporter struct {
	calls []string
}

func (s *stubExporter) ExportPayments(_ context.Context, actorID, tab string) (export.Result, error) {
	s.calls = append(s.calls, actorID+"/"+tab)
	return export.Result{SpreadsheetID: "sheet-1", Tab: tab, WrittenRows: 1}, nil
}

type harness struct {
	session *sdkmcp.ClientSession
	hiring  *hiring.Service
}

func newHarness(t *testing.T, exporter PaymentExporter) *harness {
	t.Helper()
	ctx := context.Background()

	repos := repository.New(memory.NewStore())
	ds, err := seed.Demo()
	require.NoError(t, err)
	_, err = seed.NewLoader(repos).Load(ctx, ds)
	require.NoError(t, err)

	dir := identity.NewDirectory(repos)
	inbox := notification.NewService(repos)
	svc, err := hiring.NewService(repos, dir, hiring.WithNotifier(inbox))
	require.NoError(t, err)
	catalog, err := teambuilder.Default()
	require.NoError(t, err)

	server := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "plugplayers-test", Version: "v0.0.1"}, nil)
	opts := []Option{
		WithJobTools(svc),
		WithApplicationTools(svc, dir),
		WithInterviewTools(svc),
		WithContractTools(svc),
		WithShortlistTools(svc, catalog),
		WithInboxTools(inbox),
		WithDashboardStats(dashboard.NewService(repos), dir),
	}
	if exporter != nil {
		opts = append(opts, WithExportPayments(exporter))
	}
	Register(server, opts...)

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return &harness{session: session, hiring: svc}
}

func (h *harness) call(t *testing.T, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := h.session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func (h *harness) ok(t *testing.T, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	res := h.call(t, name, args)
	require.False(t, res.IsError, "%s failed: %s", name, text(res))
	return res
}

func decodeStructured[T any](t *testing.T, res *sdkmcp.CallToolResult) T {
	t.Helper()
	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func text(res *sdkmcp.CallToolResult) string {
	for _, c := range res.Content {
		if tc, ok := c.(*sdkmcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestToolsAreListed(t *testing.T) {
	h := newHarness(t, &stubExporter{})

	res, err := h.session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"apply_for_job",
		"assign_shortlist_candidates",
		"cancel_interview",
		"create_candidate_profile",
		"create_job",
		"create_shortlist_request",
		"dashboard_stats",
		"disburse_payment",
		"export_payments",
		"generate_contract",
		"initiate_payment",
		"list_jobs",
		"list_notifications",
		"mark_notification_read",
		"schedule_interview",
		"sign_contract",
		"team_suggestion",
		"update_application_status",
		"update_interview",
	}, names)
}

func TestExportToolSkippedWithoutExporter(t *testing.T) {
	h := newHarness(t, nil)

	res, err := h.session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	for _, tool := range res.Tools {
		assert.NotEqual(t, "export_payments", tool.Name)
	}
}

func TestHireFlowThroughTools(t *testing.T) {
	h := newHarness(t, nil)

	app := decodeStructured[domain.Application](t, h.ok(t, "apply_for_job", map[string]any{
		"actor_id": "user-4",
		"job_id":   "job-2",
	}))
	assert.Equal(t, domain.ApplicationSubmitted, app.Status)

	updated := decodeStructured[UpdateApplicationStatusResult](t, h.ok(t, "update_application_status", map[string]any{
		"actor_id":       "user-2",
		"application_id": app.ID,
		"status":         "Hired",
	}))
	assert.Equal(t, domain.ApplicationHired, updated.Application.Status)
	assert.Empty(t, updated.ContractError)
	require.NotNil(t, updated.Contract)

	contracts, err := h.hiring.ContractsForCandidate(context.Background(), "cand-4")
	require.NoError(t, err)
	require.Len(t, contracts, 1)

	c := decodeStructured[domain.Contract](t, h.ok(t, "sign_contract", map[string]any{
		"actor_id":    "user-2",
		"contract_id": contracts[0].ID,
		"signature":   "Y2xpZW50LXNpZw==",
	}))
	assert.Equal(t, domain.ContractPendingCandidate, c.Status)

	c = decodeStructured[domain.Contract](t, h.ok(t, "sign_contract", map[string]any{
		"actor_id":    "user-4",
		"contract_id": c.ID,
		"signature":   "Y2FuZGlkYXRl",
	}))
	assert.Equal(t, domain.ContractSigned, c.Status)

	p := decodeStructured[domain.Payment](t, h.ok(t, "initiate_payment", map[string]any{
		"actor_id":    "user-2",
		"contract_id": c.ID,
		"amount":      "2500.50",
	}))
	assert.Equal(t, domain.PaymentPending, p.Status)
	assert.Equal(t, "2500.5", p.Amount.String())

	p = decodeStructured[domain.Payment](t, h.ok(t, "disburse_payment", map[string]any{
		"actor_id":   "user-1",
		"payment_id": p.ID,
	}))
	assert.Equal(t, domain.PaymentDisbursed, p.Status)

	inbox := decodeStructured[ListNotificationsResult](t, h.ok(t, "list_notifications", map[string]any{
		"actor_id": "user-4",
	}))
	require.NotEmpty(t, inbox.Notifications)
	assert.Equal(t, domain.NotificationPaymentDisbursed, inbox.Notifications[0].Type)
	assert.Equal(t, "A payment of $2500.5 from Innovate Inc. has been disbursed to you.", inbox.Notifications[0].Message)

	read := decodeStructured[domain.Notification](t, h.ok(t, "mark_notification_read", map[string]any{
		"actor_id":        "user-4",
		"notification_id": inbox.Notifications[0].ID,
	}))
	assert.True(t, read.IsRead)

	unread := decodeStructured[ListNotificationsResult](t, h.ok(t, "list_notifications", map[string]any{
		"actor_id":    "user-4",
		"unread_only": true,
	}))
	assert.Len(t, unread.Notifications, len(inbox.Notifications)-1)
	assert.Equal(t, inbox.Unread-1, unread.Unread)
}

func TestToolErrorsCarryKind(t *testing.T) {
	h := newHarness(t, nil)

	tests := []struct {
		name string
		tool string
		args map[string]any
		kind string
	}{
		{"candidate cannot hire", "update_application_status",
			map[string]any{"actor_id": "user-4", "application_id": "app-1", "status": "Hired"}, "authorization"},
		{"unknown application", "generate_contract",
			map[string]any{"actor_id": "user-2", "application_id": "app-404"}, "not_found"},
		{"outsider cannot generate contract", "generate_contract",
			map[string]any{"actor_id": "user-5", "application_id": "app-1"}, "authorization"},
		{"bad amount", "initiate_payment",
			map[string]any{"actor_id": "user-2", "contract_id": "c-1", "amount": "lots"}, "validation"},
		{"bad signature", "sign_contract",
			map[string]any{"actor_id": "user-2", "contract_id": "c-1", "signature": "%%%"}, "validation"},
		{"second open interview", "schedule_interview",
			map[string]any{"actor_id": "user-2", "application_id": "app-3", "details": map[string]any{
				"date_time": "2030-01-10T15:00:00Z", "platform": "Zoom", "meeting_link": "https://zoom.us/j/1",
			}}, "invalid_state"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := h.call(t, tt.tool, tt.args)
			assert.True(t, res.IsError)
			assert.Contains(t, text(res), tt.kind)
		})
	}
}

func TestJobTools(t *testing.T) {
	h := newHarness(t, nil)

	board := decodeStructured[ListJobsResult](t, h.ok(t, "list_jobs", map[string]any{}))
	require.Len(t, board.Jobs, 2)
	for _, j := range board.Jobs {
		assert.Equal(t, domain.JobOpen, j.Status)
	}

	job := decodeStructured[domain.Job](t, h.ok(t, "create_job", map[string]any{
		"actor_id":        "user-2",
		"organization_id": "org-1",
		"title":           "Platform Engineer",
		"description":     "Own our deployment pipeline.",
	}))
	assert.Equal(t, domain.JobOpen, job.Status)
	assert.Equal(t, "Innovate Inc.", job.OrganizationName)

	org1 := decodeStructured[ListJobsResult](t, h.ok(t, "list_jobs", map[string]any{"organization_id": "org-1"}))
	assert.Len(t, org1.Jobs, 3)

	res := h.call(t, "create_job", map[string]any{
		"actor_id":        "user-5",
		"organization_id": "org-1",
		"title":           "Platform Engineer",
		"description":     "Own our deployment pipeline.",
	})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "authorization")

	res = h.call(t, "apply_for_job", map[string]any{"actor_id": "user-4", "job_id": "job-3"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "invalid_state")

	res = h.call(t, "create_candidate_profile", map[string]any{"actor_id": "user-4"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "invalid_state")
}

func TestInterviewTools(t *testing.T) {
	h := newHarness(t, nil)

	iv := decodeStructured[domain.Interview](t, h.ok(t, "schedule_interview", map[string]any{
		"actor_id":       "user-2",
		"application_id": "app-1",
		"details": map[string]any{
			"date_time":    "2030-01-10T15:00:00Z",
			"platform":     "Google Meet",
			"meeting_link": "https://meet.google.com/abc",
		},
	}))
	assert.Equal(t, domain.InterviewScheduled, iv.Status)

	iv = decodeStructured[domain.Interview](t, h.ok(t, "update_interview", map[string]any{
		"actor_id":     "user-4",
		"interview_id": iv.ID,
		"status":       "Reschedule Requested",
	}))
	assert.Equal(t, domain.InterviewRescheduleRequested, iv.Status)

	iv = decodeStructured[domain.Interview](t, h.ok(t, "update_interview", map[string]any{
		"actor_id":     "user-2",
		"interview_id": iv.ID,
		"status":       "Scheduled",
		"details": map[string]any{
			"date_time":    "2030-01-11T15:00:00Z",
			"platform":     "Zoom",
			"meeting_link": "https://zoom.us/j/2",
		},
	}))
	assert.Equal(t, domain.InterviewScheduled, iv.Status)
	assert.Equal(t, domain.PlatformZoom, iv.Platform)

	iv = decodeStructured[domain.Interview](t, h.ok(t, "cancel_interview", map[string]any{
		"actor_id":     "user-2",
		"interview_id": iv.ID,
	}))
	assert.Equal(t, domain.InterviewCancelledByClient, iv.Status)
}

func TestShortlistAndTeamTools(t *testing.T) {
	exporter := &stubExporter{}
	h := newHarness(t, exporter)

	suggestion := decodeStructured[TeamSuggestionResult](t, h.ok(t, "team_suggestion", map[string]any{
		"project": map[string]any{"goal": "Marketplace MVP", "category": "SaaS"},
	}))
	require.NotNil(t, suggestion.Suggestion)
	assert.Equal(t, 8, suggestion.Suggestion.EstimatedWeeks)

	custom := decodeStructured[TeamSuggestionResult](t, h.ok(t, "team_suggestion", map[string]any{
		"project": map[string]any{"goal": "Marketplace MVP", "category": "SaaS"},
		"team":    []map[string]any{{"role_id": "fe-dev", "count": 2}},
	}))
	require.NotNil(t, custom.Estimate)
	assert.Nil(t, custom.Suggestion)

	req := decodeStructured[domain.ShortlistRequest](t, h.ok(t, "create_shortlist_request", map[string]any{
		"actor_id": "user-2",
		"project":  map[string]any{"goal": "Marketplace MVP", "category": "SaaS", "timeline": 8},
		"team":     []map[string]any{{"role_id": "fe-dev", "role_name": "Frontend Dev", "count": 1}},
	}))
	assert.Equal(t, domain.ShortlistPending, req.Status)

	req = decodeStructured[domain.ShortlistRequest](t, h.ok(t, "assign_shortlist_candidates", map[string]any{
		"actor_id":      "user-1",
		"request_id":    req.ID,
		"candidate_ids": []string{"cand-2"},
	}))
	assert.Equal(t, domain.ShortlistFulfilled, req.Status)

	stats := decodeStructured[DashboardStatsResult](t, h.ok(t, "dashboard_stats", map[string]any{"actor_id": "user-1"}))
	require.NotNil(t, stats.Admin)
	assert.Equal(t, 2, stats.Admin.OpenJobs)

	h.ok(t, "export_payments", map[string]any{"actor_id": "user-1", "tab": "Ledger"})
	assert.Equal(t, []string{"user-1/Ledger"}, exporter.calls)
}
