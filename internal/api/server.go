// Package api serves the hiring lifecycle over a JSON REST API
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/honeycarbs/plugplayers/internal/auth"
	"github.com/honeycarbs/plugplayers/internal/domain/dashboard"
	"github.com/honeycarbs/plugplayers/internal/domain/hiring"
	"github.com/honeycarbs/plugplayers/internal/domain/identity"
	"github.com/honeycarbs/plugplayers/internal/domain/notification"
	"github.com/honeycarbs/plugplayers/pkg/logging"
)

// Prefix is where the router is mounted
const Prefix = "/api"

// Deps are the services behind the routes
type Deps struct {
	Hiring    *hiring.Service
	Inbox     *notification.Service
	Dashboard *dashboard.Service
	Directory *identity.Directory
	Tokens    *auth.Issuer
	Logger    *logging.Logger
	// LoginKey is the shared key a caller presents to obtain a token. Token
	// issuance is refused while it is empty
	LoginKey string
}

type server struct {
	Deps
}

type actorKey struct{}

// NewHandler builds the /api router
func NewHandler(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}
	s := &server{Deps: deps}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route(Prefix, func(r chi.Router) {
		r.Post("/tokens", s.issueToken)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/jobs", s.listJobs)
			r.Post("/jobs", s.createJob)
			r.Post("/candidates", s.createCandidateProfile)
			r.Post("/jobs/{jobID}/applications", s.applyForJob)
			r.Patch("/applications/{id}/status", s.updateApplicationStatus)
			r.Post("/applications/{id}/contract", s.generateContract)
			r.Post("/applications/{id}/interviews", s.scheduleInterview)
			r.Patch("/interviews/{id}", s.updateInterview)
			r.Post("/interviews/{id}/cancel", s.cancelInterview)
			r.Post("/contracts/{id}/signatures", s.signContract)
			r.Post("/contracts/{id}/payments", s.initiatePayment)
			r.Post("/payments/{id}/disburse", s.disbursePayment)
			r.Post("/shortlists", s.createShortlist)
			r.Post("/shortlists/{id}/assign", s.assignShortlist)
			r.Get("/notifications", s.listNotifications)
			r.Post("/notifications/{id}/read", s.markNotificationRead)
			r.Get("/dashboard", s.dashboard)
		})
	})
	return r
}

// authenticate resolves the bearer token to the acting user id
func (s *server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeProblem(w, http.StatusUnauthorized, "unauthenticated", "missing bearer token")
			return
		}
		claims, err := s.Tokens.Verify(token)
		if err != nil {
			writeProblem(w, http.StatusUnauthorized, "unauthenticated", err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), actorKey{}, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFrom(ctx context.Context) string {
	id, _ := ctx.Value(actorKey{}).(string)
	return id
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("api request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(started),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
