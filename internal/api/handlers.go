package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/domain/dashboard"
	"github.com/honeycarbs/plugplayers/internal/domain/hiring"
)

type tokenRequest struct {
	UserID   string `json:"userId"`
	LoginKey string `json:"loginKey"`
}

type tokenResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      domain.User `json:"user"`
}

func (s *server) issueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !decode(w, r, &req) {
		return
	}
	if s.LoginKey == "" {
		writeProblem(w, http.StatusForbidden, "forbidden", "token issuance is disabled")
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.LoginKey), []byte(s.LoginKey)) != 1 {
		s.Logger.Warn("token request rejected", "user_id", req.UserID)
		writeProblem(w, http.StatusUnauthorized, "unauthenticated", "invalid login key")
		return
	}
	u, err := s.Directory.User(r.Context(), req.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	token, exp, err := s.Tokens.Issue(u)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token, ExpiresAt: exp, User: u})
}

type jobRequest struct {
	OrganizationID string `json:"organizationId"`
	hiring.JobPosting
}

func (s *server) createJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if !decode(w, r, &req) {
		return
	}
	ctx := r.Context()
	job, err := s.Hiring.CreateJob(ctx, actorFrom(ctx), req.OrganizationID, req.JobPosting)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (s *server) listJobs(w http.ResponseWriter, r *http.Request) {
	var (
		jobs []domain.Job
		err  error
	)
	if orgID := r.URL.Query().Get("organizationId"); orgID != "" {
		jobs, err = s.Hiring.JobsForOrganization(r.Context(), orgID)
	} else {
		jobs, err = s.Hiring.OpenJobs(r.Context())
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s *server) createCandidateProfile(w http.ResponseWriter, r *http.Request) {
	var profile domain.Candidate
	if !decode(w, r, &profile) {
		return
	}
	ctx := r.Context()
	cand, err := s.Hiring.CreateCandidateProfile(ctx, actorFrom(ctx), profile)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cand)
}

func (s *server) applyForJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cand, err := s.Directory.CandidateForUser(ctx, actorFrom(ctx))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	app, err := s.Hiring.ApplyForJob(ctx, cand.ID, chi.URLParam(r, "jobID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

type statusRequest struct {
	Status domain.ApplicationStatus `json:"status"`
}

type statusResponse struct {
	Application   domain.Application `json:"application"`
	ContractError string             `json:"contractError,omitempty"`
}

func (s *server) updateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decode(w, r, &req) {
		return
	}
	ctx := r.Context()
	app, err := s.Hiring.UpdateApplicationStatus(ctx, actorFrom(ctx), chi.URLParam(r, "id"), req.Status)
	switch {
	case errors.Is(err, hiring.ErrContractGeneration):
		// the status change is committed, the contract can be retried
		writeJSON(w, http.StatusOK, statusResponse{Application: app, ContractError: err.Error()})
	case err != nil:
		s.fail(w, r, err)
	default:
		writeJSON(w, http.StatusOK, statusResponse{Application: app})
	}
}

func (s *server) generateContract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contract, err := s.Hiring.GenerateContract(ctx, actorFrom(ctx), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, contract)
}

func (s *server) scheduleInterview(w http.ResponseWriter, r *http.Request) {
	var details domain.InterviewDetails
	if !decode(w, r, &details) {
		return
	}
	ctx := r.Context()
	iv, err := s.Hiring.ScheduleInterview(ctx, actorFrom(ctx), chi.URLParam(r, "id"), details)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, iv)
}

type interviewUpdateRequest struct {
	Status  domain.InterviewStatus   `json:"status"`
	Details *domain.InterviewDetails `json:"details,omitempty"`
}

func (s *server) updateInterview(w http.ResponseWriter, r *http.Request) {
	var req interviewUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	ctx := r.Context()
	iv, err := s.Hiring.UpdateInterview(ctx, actorFrom(ctx), chi.URLParam(r, "id"), req.Status, req.Details)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, iv)
}

func (s *server) cancelInterview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	iv, err := s.Hiring.CancelInterview(ctx, actorFrom(ctx), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, iv)
}

type signatureRequest struct {
	// Signature is base64 in JSON
	Signature []byte `json:"signature"`
}

func (s *server) signContract(w http.ResponseWriter, r *http.Request) {
	var req signatureRequest
	if !decode(w, r, &req) {
		return
	}
	ctx := r.Context()
	c, err := s.Hiring.SignContract(ctx, chi.URLParam(r, "id"), actorFrom(ctx), req.Signature)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type paymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes,omitempty"`
}

func (s *server) initiatePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !decode(w, r, &req) {
		return
	}
	ctx := r.Context()
	p, err := s.Hiring.InitiatePayment(ctx, actorFrom(ctx), chi.URLParam(r, "id"), req.Amount, req.Notes)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *server) disbursePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := s.Hiring.DisbursePayment(ctx, actorFrom(ctx), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type shortlistRequest struct {
	ProjectDetails domain.ProjectDetails `json:"projectDetails"`
	RequestedTeam  []domain.TeamMember   `json:"requestedTeam"`
}

func (s *server) createShortlist(w http.ResponseWriter, r *http.Request) {
	var req shortlistRequest
	if !decode(w, r, &req) {
		return
	}
	ctx := r.Context()
	sr, err := s.Hiring.CreateShortlistRequest(ctx, actorFrom(ctx), req.ProjectDetails, req.RequestedTeam)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sr)
}

type assignRequest struct {
	CandidateIDs []string `json:"candidateIds"`
}

func (s *server) assignShortlist(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if !decode(w, r, &req) {
		return
	}
	ctx := r.Context()
	sr, err := s.Hiring.AssignCandidatesToRequest(ctx, actorFrom(ctx), chi.URLParam(r, "id"), req.CandidateIDs)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sr)
}

type inboxResponse struct {
	Unread        int                   `json:"unread"`
	Notifications []domain.Notification `json:"notifications"`
}

func (s *server) listNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := actorFrom(ctx)
	items, err := s.Inbox.ListForUser(ctx, actor)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	unread, err := s.Inbox.UnreadCount(ctx, actor)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if items == nil {
		items = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, inboxResponse{Unread: unread, Notifications: items})
}

func (s *server) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	n, err := s.Inbox.MarkRead(ctx, actorFrom(ctx), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

type dashboardResponse struct {
	Admin    *dashboard.AdminStats  `json:"admin,omitempty"`
	Client   *dashboard.ClientStats `json:"client,omitempty"`
	Activity []dashboard.Activity   `json:"recentActivity,omitempty"`
}

func (s *server) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	u, err := s.Directory.User(ctx, actorFrom(ctx))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var resp dashboardResponse
	switch {
	case u.Role.IsAdmin():
		stats, err := s.Dashboard.AdminStats(ctx)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		resp.Admin = &stats
	case u.Role.IsClient():
		stats, err := s.Dashboard.ClientStats(ctx, u.OrganizationID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		activity, err := s.Dashboard.RecentActivity(ctx, u.OrganizationID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		resp.Client = &stats
		resp.Activity = activity
	default:
		s.fail(w, r, domain.Unauthorized("role %s has no dashboard", u.Role))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
