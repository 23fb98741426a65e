// Package chi serves the local diagnostics endpoints: health, widget state
// and prometheus metrics.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/metrics"
	healthuc "github.com/kailas-cloud/docsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/docsearch/internal/usecase/search"
	uploaduc "github.com/kailas-cloud/docsearch/internal/usecase/upload"
)

const (
	codeUnauthorized  = "unauthorized"
	codeInternalError = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UploadStateReader exposes the upload widget snapshot.
type UploadStateReader interface {
	State() uploaduc.State
}

// SearchStateReader exposes the search widget snapshot.
type SearchStateReader interface {
	State() searchuc.State
}

// Server serves diagnostics for a running docsearch session.
type Server struct {
	health *healthuc.Service
	upload UploadStateReader
	search SearchStateReader
	logger *zap.Logger
}

// NewServer creates a diagnostics server.
func NewServer(
	health *healthuc.Service,
	upload UploadStateReader,
	search SearchStateReader,
	logger *zap.Logger,
) *Server {
	return &Server{
		health: health,
		upload: upload,
		search: search,
		logger: logger,
	}
}

// Routes builds the router. httpMetrics may be nil.
func (s *Server) Routes(apiKeys []string, httpMetrics *metrics.HTTP, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware())
	}
	r.Use(BearerAuthMiddleware(apiKeys))

	r.Get("/health", s.HealthCheck)
	r.Get("/state", s.WidgetState)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r
}

type healthResponse struct {
	Status    string  `json:"status"`
	Backend   string  `json:"backend"`
	LatencyMS float64 `json:"latency_ms"`
	Error     string  `json:"error,omitempty"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:    string(report.Status),
		Backend:   report.Backend,
		LatencyMS: float64(report.Latency.Microseconds()) / 1000,
		Error:     report.Error,
	})
}

type uploadStateResponse struct {
	FileName  string `json:"file_name,omitempty"`
	FileSize  int64  `json:"file_size,omitempty"`
	Status    string `json:"status"`
	Busy      bool   `json:"busy"`
	CanSubmit bool   `json:"can_submit"`
}

type searchStateResponse struct {
	Query         string `json:"query"`
	Result        string `json:"result"`
	Error         string `json:"error"`
	ErrorKind     string `json:"error_kind,omitempty"`
	RetrievedDocs int    `json:"retrieved_docs"`
	Busy          bool   `json:"busy"`
	CanSubmit     bool   `json:"can_submit"`
}

type stateResponse struct {
	Upload uploadStateResponse `json:"upload"`
	Search searchStateResponse `json:"search"`
}

// WidgetState handles GET /state.
func (s *Server) WidgetState(w http.ResponseWriter, _ *http.Request) {
	up := s.upload.State()
	se := s.search.State()

	writeJSON(w, http.StatusOK, stateResponse{
		Upload: uploadStateResponse{
			FileName:  up.FileName,
			FileSize:  up.FileSize,
			Status:    up.Status,
			Busy:      up.Busy,
			CanSubmit: up.CanSubmit(),
		},
		Search: searchStateResponse{
			Query:         se.Query,
			Result:        se.Result,
			Error:         se.Error,
			ErrorKind:     errorKind(se.Cause),
			RetrievedDocs: len(se.RetrievedDocs),
			Busy:          se.Busy,
			CanSubmit:     se.CanSubmit(),
		},
	})
}

// errorKind maps a widget failure to a stable label.
func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrServerFailure):
		return "server_failure"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, domain.ErrTransport):
		return "transport"
	default:
		return "unknown"
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
						zap.Stack("stacktrace"),
					)
					writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
