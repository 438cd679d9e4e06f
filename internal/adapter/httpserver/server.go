// Package httpserver exposes the JSON API, the embedded map frontend, and the
// health/metrics endpoints.
package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/meteor-watch/internal/domain"
	"github.com/couchcryptid/meteor-watch/web"
)

// EventProvider runs one aggregation cycle for a resolved time window.
type EventProvider interface {
	Events(ctx context.Context, win domain.Window) ([]domain.MeteorEvent, error)
}

// Server exposes the meteor API plus frontend, health, and metrics routes.
type Server struct {
	httpServer *http.Server
	provider   EventProvider
	logger     *slog.Logger
}

// NewServer creates the HTTP server with all routes registered.
func NewServer(addr string, provider EventProvider, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		provider: provider,
		logger:   logger,
	}

	mux.HandleFunc("GET /api/meteors", s.handleMeteors)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("GET /static/", http.FileServerFS(web.Content))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	var handler http.Handler = mux
	handler = recoverMiddleware(logger)(handler)
	handler = loggingMiddleware(logger)(handler)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // aggregation + enrichment can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleMeteors resolves the requested window, runs the pipeline, and writes
// the event list. Pipeline failures become a JSON error body; diagnostic
// detail stays in server logs.
func (s *Server) handleMeteors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	win := domain.ResolveWindow(q.Get("time_range"), q.Get("start_date"), q.Get("end_date"))

	events, err := s.provider.Events(r.Context(), win)
	if err != nil {
		s.logger.Error("aggregation failed",
			"time_range", q.Get("time_range"),
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to aggregate meteor events"})
		return
	}

	if events == nil {
		events = []domain.MeteorEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	page, err := web.Content.ReadFile("index.html")
	if err != nil {
		s.logger.Error("embedded index missing", "error", err)
		http.Error(w, "frontend unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}

// probePath returns true for paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/metrics"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			level := slog.LevelInfo
			if probePath(r.URL.Path) {
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "request",
				"request_id", uuid.NewString(),
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_ip", r.RemoteAddr,
			)
		})
	}
}

// recoverMiddleware converts an escaped panic into a JSON 500 so clients
// never see a transport-level failure. The trace is logged server-side only.
func recoverMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("handler panic",
						"path", r.URL.Path,
						"panic", rec,
					)
					writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
