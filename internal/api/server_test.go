package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/plugplayers/internal/auth"
	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/domain/dashboard"
	"github.com/honeycarbs/plugplayers/internal/domain/hiring"
	"github.com/honeycarbs/plugplayers/internal/domain/identity"
	"github.com/honeycarbs/plugplayers/internal/domain/notification"
	"github.com/honeycarbs/plugplayers/internal/repository"
	"github.com/honeycarbs/plugplayers/internal/seed"
	"github.com/honeycarbs/plugplayers/internal/storage/memory"
)

const testLoginKey = "test-login-key"

type testAPI struct {
	srv    *httptest.Server
	hiring *hiring.Service
	tokens map[string]string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPIWithLoginKey(t, testLoginKey)
}

func newTestAPIWithLoginKey(t *testing.T, loginKey string) *testAPI {
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
	issuer, err := auth.NewIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	srv := httptest.NewServer(NewHandler(Deps{
		Hiring:    svc,
		Inbox:     inbox,
		Dashboard: dashboard.NewService(repos),
		Directory: dir,
		Tokens:    issuer,
		LoginKey:  loginKey,
	}))
	t.Cleanup(srv.Close)

	return &testAPI{srv: srv, hiring: svc, tokens: map[string]string{}}
}

// login exchanges a user id for a bearer token through the API
func (a *testAPI) login(t *testing.T, userID string) string {
	t.Helper()
	if tok, ok := a.tokens[userID]; ok {
		return tok
	}
	var resp tokenResponse
	status := a.do(t, http.MethodPost, "/api/tokens", "", tokenRequest{UserID: userID, LoginKey: testLoginKey}, &resp)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, userID, resp.User.ID)
	a.tokens[userID] = resp.Token
	return resp.Token
}

func (a *testAPI) do(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, a.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHireToPaymentOverREST(t *testing.T) {
	a := newTestAPI(t)
	charlie := a.login(t, "user-4")
	alice := a.login(t, "user-2")
	admin := a.login(t, "user-1")

	var app domain.Application
	require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/api/jobs/job-2/applications", charlie, nil, &app))
	assert.Equal(t, "cand-4", app.CandidateID)
	assert.Equal(t, domain.ApplicationSubmitted, app.Status)

	var status statusResponse
	require.Equal(t, http.StatusOK, a.do(t, http.MethodPatch, "/api/applications/"+app.ID+"/status", alice,
		statusRequest{Status: domain.ApplicationHired}, &status))
	assert.Equal(t, domain.ApplicationHired, status.Application.Status)
	assert.Empty(t, status.ContractError)

	contracts, err := a.hiring.ContractsForCandidate(context.Background(), "cand-4")
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	contractPath := "/api/contracts/" + contracts[0].ID

	var c domain.Contract
	require.Equal(t, http.StatusOK, a.do(t, http.MethodPost, contractPath+"/signatures", alice,
		map[string]string{"signature": "Y2xpZW50LXNpZw=="}, &c))
	assert.Equal(t, domain.ContractPendingCandidate, c.Status)
	assert.Equal(t, []byte("client-sig"), c.ClientSignature)

	require.Equal(t, http.StatusOK, a.do(t, http.MethodPost, contractPath+"/signatures", charlie,
		map[string]string{"signature": "Y2FuZGlkYXRl"}, &c))
	assert.Equal(t, domain.ContractSigned, c.Status)

	var p domain.Payment
	require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, contractPath+"/payments", alice,
		map[string]any{"amount": "1500.00", "notes": "first milestone"}, &p))
	assert.Equal(t, domain.PaymentPending, p.Status)
	assert.Equal(t, "1500", p.Amount.String())

	require.Equal(t, http.StatusOK, a.do(t, http.MethodPost, "/api/payments/"+p.ID+"/disburse", admin, nil, &p))
	assert.Equal(t, domain.PaymentDisbursed, p.Status)
	require.NotNil(t, p.DisbursementDate)

	var inbox inboxResponse
	require.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/api/notifications", charlie, nil, &inbox))
	require.NotEmpty(t, inbox.Notifications)
	assert.Equal(t, domain.NotificationPaymentDisbursed, inbox.Notifications[0].Type)
	assert.Equal(t, len(inbox.Notifications), inbox.Unread)

	var n domain.Notification
	require.Equal(t, http.StatusOK, a.do(t, http.MethodPost, "/api/notifications/"+inbox.Notifications[0].ID+"/read", charlie, nil, &n))
	assert.True(t, n.IsRead)
}

func TestErrorMapping(t *testing.T) {
	a := newTestAPI(t)
	charlie := a.login(t, "user-4")
	alice := a.login(t, "user-2")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
		kind   string
	}{
		{"missing token", http.MethodGet, "/api/notifications", "", nil, http.StatusUnauthorized, "unauthenticated"},
		{"forged token", http.MethodGet, "/api/notifications", "abc.def.ghi", nil, http.StatusUnauthorized, "unauthenticated"},
		{"candidate cannot change status", http.MethodPatch, "/api/applications/app-1/status", charlie,
			statusRequest{Status: domain.ApplicationShortlisted}, http.StatusForbidden, "authorization"},
		{"unknown status", http.MethodPatch, "/api/applications/app-1/status", alice,
			statusRequest{Status: "Maybe"}, http.StatusUnprocessableEntity, "validation"},
		{"unknown application", http.MethodPatch, "/api/applications/app-404/status", alice,
			statusRequest{Status: domain.ApplicationShortlisted}, http.StatusNotFound, "not_found"},
		{"contract before hire", http.MethodPost, "/api/applications/app-1/contract", alice, nil, http.StatusConflict, "invalid_state"},
		{"candidate cannot generate contract", http.MethodPost, "/api/applications/app-1/contract", charlie, nil, http.StatusForbidden, "authorization"},
		{"unknown field", http.MethodPost, "/api/shortlists", alice, map[string]any{"bogus": true}, http.StatusBadRequest, "bad_request"},
		{"candidate has no dashboard", http.MethodGet, "/api/dashboard", charlie, nil, http.StatusForbidden, "authorization"},
		{"unknown user login", http.MethodPost, "/api/tokens", "", tokenRequest{UserID: "user-99", LoginKey: testLoginKey}, http.StatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p problem
			status := a.do(t, tt.method, tt.path, tt.token, tt.body, &p)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.kind, p.Error.Kind)
			assert.NotEmpty(t, p.Error.Message)
		})
	}
}

func TestTokenIssuanceRequiresLoginKey(t *testing.T) {
	tests := []struct {
		name     string
		loginKey string
		req      tokenRequest
		status   int
		kind     string
	}{
		{"no key", testLoginKey, tokenRequest{UserID: "user-1"}, http.StatusUnauthorized, "unauthenticated"},
		{"wrong key", testLoginKey, tokenRequest{UserID: "user-1", LoginKey: "guess"}, http.StatusUnauthorized, "unauthenticated"},
		{"issuance disabled", "", tokenRequest{UserID: "user-1", LoginKey: ""}, http.StatusForbidden, "forbidden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAPIWithLoginKey(t, tt.loginKey)
			var p problem
			status := a.do(t, http.MethodPost, "/api/tokens", "", tt.req, &p)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.kind, p.Error.Kind)

			// the rejected caller still cannot reach a protected route
			assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/api/dashboard", "", nil, nil))
		})
	}
}

func TestJobRoutes(t *testing.T) {
	a := newTestAPI(t)
	alice := a.login(t, "user-2")
	diana := a.login(t, "user-5")
	charlie := a.login(t, "user-4")

	var board []domain.Job
	require.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/api/jobs", charlie, nil, &board))
	require.Len(t, board, 2)

	var job domain.Job
	require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/api/jobs", alice, jobRequest{
		OrganizationID: "org-1",
		JobPosting:     hiring.JobPosting{Title: "Platform Engineer", Location: "Remote", Description: "Own our deployment pipeline."},
	}, &job))
	assert.Equal(t, domain.JobOpen, job.Status)
	assert.Equal(t, "Innovate Inc.", job.OrganizationName)

	var org1 []domain.Job
	require.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/api/jobs?organizationId=org-1", alice, nil, &org1))
	assert.Len(t, org1, 3)

	var p problem
	require.Equal(t, http.StatusForbidden, a.do(t, http.MethodPost, "/api/jobs", diana, jobRequest{
		OrganizationID: "org-1",
		JobPosting:     hiring.JobPosting{Title: "Platform Engineer", Description: "x"},
	}, &p))
	assert.Equal(t, "authorization", p.Error.Kind)

	p = problem{}
	require.Equal(t, http.StatusConflict, a.do(t, http.MethodPost, "/api/jobs/job-3/applications", charlie, nil, &p))
	assert.Equal(t, "invalid_state", p.Error.Kind)

	var app domain.Application
	require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/api/jobs/"+job.ID+"/applications", charlie, nil, &app))
	assert.Equal(t, job.ID, app.JobID)

	p = problem{}
	require.Equal(t, http.StatusConflict, a.do(t, http.MethodPost, "/api/candidates", charlie, domain.Candidate{}, &p))
	assert.Equal(t, "invalid_state", p.Error.Kind)
}

func TestInterviewRoutes(t *testing.T) {
	a := newTestAPI(t)
	alice := a.login(t, "user-2")
	charlie := a.login(t, "user-4")

	details := domain.InterviewDetails{
		DateTime:    time.Date(2030, 1, 10, 15, 0, 0, 0, time.UTC),
		Platform:    domain.PlatformGoogleMeet,
		MeetingLink: "https://meet.google.com/abc-defg-hij",
	}
	var iv domain.Interview
	require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/api/applications/app-1/interviews", alice, details, &iv))
	assert.Equal(t, domain.InterviewScheduled, iv.Status)

	var p problem
	require.Equal(t, http.StatusConflict, a.do(t, http.MethodPost, "/api/applications/app-1/interviews", alice, details, &p))

	require.Equal(t, http.StatusOK, a.do(t, http.MethodPatch, "/api/interviews/"+iv.ID, charlie,
		interviewUpdateRequest{Status: domain.InterviewRescheduleRequested}, &iv))
	assert.Equal(t, domain.InterviewRescheduleRequested, iv.Status)

	require.Equal(t, http.StatusOK, a.do(t, http.MethodPost, "/api/interviews/"+iv.ID+"/cancel", alice, nil, &iv))
	assert.Equal(t, domain.InterviewCancelledByClient, iv.Status)

	require.Equal(t, http.StatusConflict, a.do(t, http.MethodPost, "/api/interviews/"+iv.ID+"/cancel", alice, nil, &p))
	assert.Equal(t, "invalid_state", p.Error.Kind)
}

func TestShortlistAndDashboardRoutes(t *testing.T) {
	a := newTestAPI(t)
	alice := a.login(t, "user-2")
	admin := a.login(t, "user-1")

	var sr domain.ShortlistRequest
	require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/api/shortlists", alice, shortlistRequest{
		ProjectDetails: domain.ProjectDetails{Goal: "Launch a billing portal", Category: domain.CategorySaaS, Timeline: 8, Budget: 40000},
		RequestedTeam:  []domain.TeamMember{{RoleID: "fe-dev", RoleName: "Frontend Developer", Count: 1}},
	}, &sr))
	assert.Equal(t, domain.ShortlistPending, sr.Status)

	var dash dashboardResponse
	require.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/api/dashboard", alice, nil, &dash))
	require.NotNil(t, dash.Client)
	assert.Nil(t, dash.Admin)
	assert.Equal(t, 1, dash.Client.PendingShortlists)
	assert.Len(t, dash.Activity, 3)

	require.Equal(t, http.StatusOK, a.do(t, http.MethodPost, "/api/shortlists/"+sr.ID+"/assign", admin,
		assignRequest{CandidateIDs: []string{"cand-2", "cand-3"}}, &sr))
	assert.Equal(t, domain.ShortlistFulfilled, sr.Status)
	assert.Len(t, sr.AssignedCandidates, 2)

	dash = dashboardResponse{}
	require.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/api/dashboard", admin, nil, &dash))
	require.NotNil(t, dash.Admin)
	assert.Equal(t, 4, dash.Admin.CandidatePoolSize)
}
