// Package http provides the HTTP surface of the extraction service and a
// plain-HTTP fetcher for static pages.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/distill"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// DefaultMaxBodyBytes caps the size of an extraction request body.
const DefaultMaxBodyBytes = 10 << 20

// ShutdownTimeout is how long Close waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// Server serves the extraction API: POST /extract, GET /health, GET /.
type Server struct {
	ln     net.Listener
	server *http.Server
	router chi.Router

	addr     string
	service  distill.Service
	pool     distill.SessionPool
	logger   *slog.Logger
	limiter  *rate.Limiter
	maxBytes int64
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAddr sets the listen address. Defaults to ":8080".
func WithAddr(addr string) ServerOption {
	return func(s *Server) { s.addr = addr }
}

// WithPool exposes session pool occupancy on the health endpoint.
func WithPool(pool distill.SessionPool) ServerOption {
	return func(s *Server) { s.pool = pool }
}

// WithLogger sets the request logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

// WithRateLimit applies a global requests-per-second limit with the given
// burst. Zero rps leaves the server unlimited.
func WithRateLimit(rps float64, burst int) ServerOption {
	return func(s *Server) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithMaxBodyBytes caps the request body size.
// Defaults to DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) ServerOption {
	return func(s *Server) { s.maxBytes = n }
}

// NewServer creates a Server for the given extraction service.
func NewServer(service distill.Service, opts ...ServerOption) *Server {
	s := &Server{
		addr:     ":8080",
		service:  service,
		logger:   slog.Default(),
		maxBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(s.rateLimit)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Post("/extract", s.handleExtract)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler, so the server can be exercised with
// httptest without opening a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Open begins listening on the configured address.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.server = &http.Server{Handler: s.router}

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server", "err", err)
		}
	}()

	s.logger.Info("http server listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound address, useful when listening on port 0.
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.addr
	}
	return s.ln.Addr().String()
}

// Close gracefully shuts the server down.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

type contextKey string

const requestIDKey contextKey = "request_id"

// requestID tags every request with a UUID, echoed in X-Request-ID.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		begin := time.Now()
		next.ServeHTTP(rec, r)
		id, _ := r.Context().Value(requestIDKey).(string)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(begin),
			"request_id", id,
		)
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{
				Status: distill.StatusInternalError,
				Error:  "rate limit exceeded",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// errorResponse is the JSON body returned for failed extractions.
type errorResponse struct {
	Status distill.Status `json:"status"`
	Error  string         `json:"error"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "distill",
		"endpoints": []string{
			"POST /extract",
			"GET /health",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok"}
	if s.pool != nil {
		body["pool"] = s.pool.Stats()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)

	var req distill.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Status: distill.StatusMalformedInput,
				Error:  "request body too large",
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Status: distill.StatusMalformedInput,
			Error:  "invalid request body",
		})
		return
	}

	ex, err := s.service.Extract(r.Context(), req)
	if err != nil {
		status := distill.StatusFromError(err)
		writeJSON(w, httpStatus(status), errorResponse{
			Status: status,
			Error:  distill.ErrorMessage(err),
		})
		return
	}

	writeJSON(w, http.StatusOK, ex)
}

// httpStatus maps an extraction status to its HTTP response code.
func httpStatus(status distill.Status) int {
	switch status {
	case distill.StatusMalformedInput:
		return http.StatusBadRequest
	case distill.StatusNoContentFound:
		return http.StatusUnprocessableEntity
	case distill.StatusPoolTimeout:
		return http.StatusServiceUnavailable
	case distill.StatusRenderTimeout:
		return http.StatusGatewayTimeout
	case distill.StatusRenderFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
