package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/bloom"
	"github.com/aretw0/bloom/internal/logging"
	"github.com/aretw0/bloom/pkg/domain"
	"github.com/aretw0/bloom/pkg/runner"
	"github.com/aretw0/bloom/pkg/session"
	"github.com/go-chi/chi/v5"
)

// SessionResponse is the body returned by every session operation.
type SessionResponse struct {
	SessionID string               `json:"session_id"`
	Route     string               `json:"route"`
	Status    domain.SessionStatus `json:"status"`
	View      *domain.View         `json:"view,omitempty"`
}

// GotoRequest is the body of POST /sessions/{id}/goto.
type GotoRequest struct {
	Route string `json:"route"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server serves the session API.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager

	logger  *slog.Logger
	metrics http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewServer creates a Server over sessions.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Sessions: sessions,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates the HTTP handler for sessions.
func NewHandler(sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(sessions, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/routes", s.ListRoutes)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Get("/stream", s.SubscribeSession)
			r.Post("/goto", s.Goto)
			r.Post("/render", s.Render)
			r.Post("/advance", s.Advance)
			r.Post("/refresh", s.Refresh)
			r.Post("/events", s.Dispatch)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "bloom-http",
		"version": strings.TrimSpace(bloom.Version),
	})
}

// ListRoutes handles GET /routes.
func (s *Server) ListRoutes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Sessions.Routes().Routes())
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, "list", err)
		return
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Sessions.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, "get", err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Goto handles POST /sessions/{id}/goto.
func (s *Server) Goto(w http.ResponseWriter, r *http.Request) {
	var body GotoRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.badRequest(w, "goto", err)
		return
	}
	s.operate(w, r, "goto", func(ctx context.Context, lv *session.Live) error {
		return lv.Sequencer.Goto(ctx, body.Route)
	})
}

// Render handles POST /sessions/{id}/render.
func (s *Server) Render(w http.ResponseWriter, r *http.Request) {
	s.operate(w, r, "render", func(ctx context.Context, lv *session.Live) error {
		return lv.Sequencer.Render(ctx)
	})
}

// Advance handles POST /sessions/{id}/advance. The advanced view is returned
// but not rendered.
func (s *Server) Advance(w http.ResponseWriter, r *http.Request) {
	s.operate(w, r, "advance", func(ctx context.Context, lv *session.Live) error {
		_, err := lv.Sequencer.Advance(ctx)
		return err
	})
}

// Refresh handles POST /sessions/{id}/refresh.
func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	s.operate(w, r, "refresh", func(ctx context.Context, lv *session.Live) error {
		return lv.Sequencer.Refresh(ctx)
	})
}

// Dispatch handles POST /sessions/{id}/events.
func (s *Server) Dispatch(w http.ResponseWriter, r *http.Request) {
	var ev domain.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		s.badRequest(w, "dispatch", err)
		return
	}
	if err := sanitizeEvent(&ev); err != nil {
		s.badRequest(w, "dispatch", err)
		return
	}
	if ev.Name == "" {
		ev.Name = runner.DefaultEvent
	}
	s.operate(w, r, "dispatch", func(ctx context.Context, lv *session.Live) error {
		return lv.Sequencer.Dispatch(ctx, ev)
	})
}

// SubscribeSession handles GET /sessions/{id}/stream (SSE).
func (s *Server) SubscribeSession(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeSession: Streaming not supported")
		return
	}

	sessionID := chi.URLParam(r, "id")
	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: Subscribing to session updates", "session_id", sessionID)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: Client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: view\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// operate runs fn on the session and answers with its resulting state.
func (s *Server) operate(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, *session.Live) error) {
	sessionID := chi.URLParam(r, "id")

	var resp SessionResponse
	err := s.Sessions.Do(r.Context(), sessionID, func(ctx context.Context, lv *session.Live) error {
		if err := fn(ctx, lv); err != nil {
			return err
		}
		resp = describe(sessionID, lv)
		return nil
	})
	if err != nil {
		s.writeError(w, op, err)
		return
	}

	if payload, err := json.Marshal(resp); err == nil {
		s.Streams.Broadcast(sessionID, payload)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func describe(sessionID string, lv *session.Live) SessionResponse {
	resp := SessionResponse{
		SessionID: sessionID,
		Route:     lv.Sequencer.Route(),
		Status:    lv.Sequencer.Status(),
	}
	if view, err := lv.Sequencer.Current(); err == nil {
		resp.View = view
	}
	return resp
}

func sanitizeEvent(ev *domain.Event) error {
	clean, err := runner.SanitizeLine(ev.Value, 0)
	if err != nil {
		return err
	}
	ev.Value = clean
	for k, v := range ev.Form {
		clean, err := runner.SanitizeLine(v, 0)
		if err != nil {
			return fmt.Errorf("form field %q: %w", k, err)
		}
		ev.Form[k] = clean
	}
	return nil
}

// StatusFor maps an operation error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRouteNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoActiveSession):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSessionExhausted):
		return http.StatusGone
	case errors.Is(err, domain.ErrNoHandler):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	code := StatusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("session operation failed", "op", op, "err", err)
	} else {
		s.logger.Debug("session operation rejected", "op", op, "status", code, "err", err)
	}
	s.writeJSON(w, code, ErrorResponse{Error: err.Error()})
}

func (s *Server) badRequest(w http.ResponseWriter, op string, err error) {
	s.logger.Warn("Invalid request body", "op", op, "err", err)
	s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
