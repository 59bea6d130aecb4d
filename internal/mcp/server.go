package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/plugplayers/internal/api"
	"github.com/honeycarbs/plugplayers/internal/config"
	"github.com/honeycarbs/plugplayers/pkg/logging"
)

const instructions = `Hiring lifecycle tools for the Plug Players marketplace.
Every tool that changes state takes actor_id, the id of the user performing the action.
Flow: apply_for_job, update_application_status (Hired generates a contract), sign_contract by the
client then the candidate, initiate_payment, disburse_payment (admin).`

// Server exposes MCP over streamable HTTP next to health, metrics and the REST API
type Server struct {
	logger *logging.Logger
	config config.Config

	srv     *http.Server
	started atomic.Bool
}

// NewServer constructs a new MCP HTTP server
func NewServer(log *logging.Logger, cfg config.Config, res *Resources) *Server {
	impl := &sdkmcp.Implementation{
		Name:    "plugplayers",
		Version: "0.1.0",
	}

	mcpServer := sdkmcp.NewServer(impl, &sdkmcp.ServerOptions{Instructions: instructions})
	RegisterAll(mcpServer, res, log)

	s := &Server{
		logger: log,
		config: cfg,
	}
	s.srv = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           s.routes(mcpServer, res),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s
}

func (s *Server) routes(mcpServer *sdkmcp.Server, res *Resources) http.Handler {
	stream := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return mcpServer
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp/stream", stream)
	mux.HandleFunc("/healthz", s.health)
	mux.Handle("/metrics", res.Metrics.Handler())

	if res.Tokens == nil {
		s.logger.Info("REST API disabled, JWT_SECRET not set")
		return mux
	}
	mux.Handle(api.Prefix+"/", api.NewHandler(api.Deps{
		Hiring:    res.Hiring,
		Inbox:     res.Inbox,
		Dashboard: res.Dashboard,
		Directory: res.Directory,
		Tokens:    res.Tokens,
		Logger:    s.logger.Named("api"),
		LoginKey:  s.config.Auth.LoginKey,
	}))
	return mux
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	driver := s.config.Storage.Driver
	if driver == "" {
		driver = config.DriverMemory
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"storage": driver,
		"api":     s.config.APIEnabled(),
	})
}

// Handler exposes the routed mux
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run starts the HTTP server and blocks until shutdown
func (s *Server) Run() error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	s.logger.Info("MCP HTTP server listening", "addr", s.srv.Addr, "stream", "/mcp/stream", "api", s.config.APIEnabled())

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown drains in-flight requests until ctx expires
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutdown requested for MCP HTTP server")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("MCP HTTP server shutdown with error", "err", err)
		return err
	}

	s.logger.Info("MCP HTTP server shutdown complete")
	return nil
}
