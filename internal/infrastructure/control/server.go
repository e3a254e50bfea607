// Package control exposes the daemon over a local HTTP API so scripts,
// window-manager bindings and the CLI can trigger actions.
package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bnema/promptcast/internal/application/port"
	"github.com/bnema/promptcast/internal/application/usecase"
	"github.com/bnema/promptcast/internal/domain/entity"
	"github.com/bnema/promptcast/internal/logging"
)

// SourceAPI tags requests that arrived over the control API.
const SourceAPI = "api"

const (
	maxBodyBytes      = 1 << 20
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// ConfigReader returns the configuration currently in effect.
type ConfigReader interface {
	Get(ctx context.Context) (*entity.Config, error)
}

// Deps wires the server to the application.
type Deps struct {
	Sink      port.RequestSink
	Shortcuts port.ShortcutProvider
	Configs   ConfigReader
	Version   string
	Now       func() time.Time
}

// Server is the control API server.
type Server struct {
	deps    Deps
	started time.Time
	baseCtx context.Context

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
}

// ExecuteResponse is returned by POST /execute.
type ExecuteResponse struct {
	Status string           `json:"status"`
	Ref    entity.ActionRef `json:"actionRef"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Uptime  string `json:"uptime"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewServer creates a server. ctx carries the logger handed to requests.
func NewServer(ctx context.Context, deps Deps) *Server {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Server{deps: deps, started: deps.Now(), baseCtx: ctx}
}

// Handler returns the routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /execute", s.handleExecute)
	mux.HandleFunc("GET /shortcuts", s.handleShortcuts)
	mux.HandleFunc("GET /menus", s.handleMenus)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// Start listens on addr and serves in the background. Listen errors are
// returned directly.
func (s *Server) Start(addr string) error {
	log := logging.FromContext(s.baseCtx)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("control api listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return s.baseCtx },
	}

	s.mu.Lock()
	s.httpServer = srv
	s.listener = ln
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("control api stopped")
		}
	}()
	log.Info().Str("addr", ln.Addr().String()).Msg("control api listening")
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	ctx := logging.WithComponent(r.Context(), "control")
	log := logging.FromContext(ctx)

	var req entity.ExecutionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Ref.ActionID == "" {
		writeError(w, http.StatusBadRequest, errors.New("actionRef.actionId is required"))
		return
	}
	req.Source = SourceAPI

	if err := s.deps.Sink.Enqueue(ctx, req); err != nil {
		log.Warn().Err(err).Str("ref", req.Ref.String()).Msg("execute request rejected")
		writeError(w, statusFor(err), err)
		return
	}

	log.Debug().Str("ref", req.Ref.String()).Msg("execute request accepted")
	writeJSON(w, http.StatusAccepted, ExecuteResponse{Status: "accepted", Ref: req.Ref})
}

func (s *Server) handleShortcuts(w http.ResponseWriter, r *http.Request) {
	bindings, err := s.deps.Shortcuts.ShortcutMap(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if bindings == nil {
		bindings = []entity.ShortcutBinding{}
	}
	writeJSON(w, http.StatusOK, bindings)
}

func (s *Server) handleMenus(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.deps.Configs.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	entries := entity.BuildMenuEntries(cfg)
	if entries == nil {
		entries = []entity.MenuEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: s.deps.Version,
		Uptime:  s.deps.Now().Sub(s.started).Round(time.Second).String(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrEmptySelection):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrUnknownMenu), errors.Is(err, entity.ErrUnknownAction):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
