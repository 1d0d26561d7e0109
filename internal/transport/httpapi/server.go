package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/halcyon-media/imagery/internal/domain"
	detailuc "github.com/halcyon-media/imagery/internal/usecase/detail"
	healthuc "github.com/halcyon-media/imagery/internal/usecase/health"
	searchuc "github.com/halcyon-media/imagery/internal/usecase/search"
	watermarkuc "github.com/halcyon-media/imagery/internal/usecase/watermark"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Limits bounds the search query surface.
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Server hosts the image API handlers.
type Server struct {
	search        *searchuc.Service
	detail        *detailuc.Service
	watermark     *watermarkuc.Service
	health        *healthuc.Service
	limits        Limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	detail *detailuc.Service,
	watermark *watermarkuc.Service,
	health *healthuc.Service,
	limits Limits,
	logger *zap.Logger,
) *Server {
	if limits.DefaultPageSize <= 0 {
		limits.DefaultPageSize = 20
	}
	if limits.MaxPageSize <= 0 {
		limits.MaxPageSize = 500
	}
	s := &Server{
		search:    search,
		detail:    detail,
		watermark: watermark,
		health:    health,
		limits:    limits,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		deepPaginationHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrSourceFetch, http.StatusBadGateway),
		sentinelHandler(domain.ErrEncoding, http.StatusInternalServerError),
	}
	return s
}

// Routes registers all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/v1/images/search", s.SearchImages)
	r.Get("/v1/images/{identifier}", s.GetImage)
	r.Get("/v1/images/{identifier}/watermark", s.WatermarkImage)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SearchImages handles GET /v1/images/search.
func (s *Server) SearchImages(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseSearchParams(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	pg, err := s.search.Search(r.Context(), q, detailLinkBuilder(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resultPageToDTO(pg))
}

// GetImage handles GET /v1/images/{identifier}.
func (s *Server) GetImage(w http.ResponseWriter, r *http.Request) {
	identifier, err := imageIdentifier(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	det, err := s.detail.Get(r.Context(), identifier)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detailToDTO(det))
}

// WatermarkImage handles GET /v1/images/{identifier}/watermark.
func (s *Server) WatermarkImage(w http.ResponseWriter, r *http.Request) {
	identifier, err := imageIdentifier(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	jpg, err := s.watermark.Watermark(r.Context(), identifier)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(jpg)))
	_, _ = w.Write(jpg)
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthToDTO(report))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// imageIdentifier validates the path identifier. Storage keys are UUIDs, so
// anything else cannot exist and is refused before it reaches storage. The
// parsed form is canonical lowercase.
func imageIdentifier(r *http.Request) (string, error) {
	id, err := uuid.Parse(chi.URLParam(r, "identifier"))
	if err != nil {
		return "", domain.NewValidation(map[string]string{"identifier": "must be a valid UUID"})
	}
	return id.String(), nil
}

// detailLinkBuilder derives the absolute detail URL prefix from the inbound
// request. X-Forwarded-Proto wins over the local TLS state so links survive
// a terminating proxy.
func detailLinkBuilder(r *http.Request) searchuc.LinkBuilder {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	base := scheme + "://" + r.Host + "/v1/images/"
	return func(identifier string) string {
		return base + identifier
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrDeepPagination,
		domain.ErrSourceFetch,
		domain.ErrEncoding,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeDetail(w, status, msg)
		return true
	}
}

// validationHandler renders field-level validation errors.
func validationHandler(w http.ResponseWriter, err error, _ string) bool {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{"validation_error": ve.Fields})
	return true
}

// deepPaginationHandler renders the fixed refusal message for windows past
// the pagination ceiling.
func deepPaginationHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrDeepPagination) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"validation_error": "Deep pagination is not allowed.",
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeDetail(w, http.StatusInternalServerError, "internal error")
}
