package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/leadex/internal/domain"
	domjob "github.com/kailas-cloud/leadex/internal/domain/export/job"
	"github.com/kailas-cloud/leadex/internal/domain/search/filter"
	"github.com/kailas-cloud/leadex/internal/domain/search/result"
	"github.com/kailas-cloud/leadex/internal/logger"
	gen "github.com/kailas-cloud/leadex/internal/transport/generated"
	healthuc "github.com/kailas-cloud/leadex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/leadex/internal/usecase/search"
)

// DisplayKey holds the resolved display columns inside each returned lead.
const DisplayKey = "display"

// maxExportBody bounds the POST /export/start payload.
const maxExportBody = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements generated.ServerInterface for the oapi-codegen chi router.
type Server struct {
	gen.Unimplemented
	search        Searcher
	exports       Exporter
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ gen.ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(search Searcher, exports Exporter, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		search:  search,
		exports: exports,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		indexUnavailableHandler,
		searchFailureHandler,
		sentinelHandler(domain.ErrJobNotFound, http.StatusNotFound, gen.ErrorResponseCodeNotFound),
		sentinelHandler(domain.ErrExportNotReady, http.StatusConflict, gen.ErrorResponseCodeExportNotReady),
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden, gen.ErrorResponseCodeForbidden),
	}
	return s
}

// SearchLeads handles GET /leads.
func (s *Server) SearchLeads(w http.ResponseWriter, r *http.Request, params gen.SearchLeadsParams) {
	req := filter.FromValues(r.URL.Query())
	p := searchuc.Params{
		Offset:    derefInt(params.Offset),
		Limit:     derefInt(params.Limit),
		SortField: derefString(params.SortField),
	}
	if params.SortDir != nil {
		p.SortDir = string(*params.SortDir)
	}

	page, err := s.search.Search(r.Context(), req, p)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pageToGen(&page))
}

// StartExport handles POST /export/start.
func (s *Server) StartExport(w http.ResponseWriter, r *http.Request) {
	filters, err := decodeExportFilters(http.MaxBytesReader(w, r.Body, maxExportBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	j, err := s.exports.Start(r.Context(), filter.FromMap(filters))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/export/status/"+j.ID)
	writeJSON(w, http.StatusAccepted, gen.StartExportResponse{
		JobId:    j.ID,
		Filename: j.Filename,
	})
}

// GetExportStatus handles GET /export/status/{jobId}.
func (s *Server) GetExportStatus(w http.ResponseWriter, r *http.Request, jobID gen.JobId) {
	j, err := s.exports.Status(r.Context(), jobID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jobToGen(&j))
}

// DownloadExport handles GET /export/download/{jobId}. Admin only.
func (s *Server) DownloadExport(w http.ResponseWriter, r *http.Request, jobID gen.JobId) {
	if !isAdmin(r.Context()) {
		s.handleDomainError(w, r, domain.ErrForbidden)
		return
	}

	j, err := s.exports.Download(r.Context(), jobID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	f, err := os.Open(j.Filepath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.handleDomainError(w, r, fmt.Errorf("%w: export file is gone", domain.ErrJobNotFound))
			return
		}
		s.handleDomainError(w, r, fmt.Errorf("open export: %w", err))
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		s.handleDomainError(w, r, fmt.Errorf("stat export: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", j.Filename))
	http.ServeContent(w, r, j.Filename, info.ModTime(), f)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]gen.HealthResponseChecks)
	for k, v := range report.Checks {
		checks[k] = gen.HealthResponseChecks(v)
	}

	status := gen.HealthResponseStatus(report.Status)
	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, gen.HealthResponse{
		Status: status,
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeExportFilters accepts {"filters": {...}} or a bare filter object.
// An empty body means no filters.
func decodeExportFilters(body io.Reader) (map[string]any, error) {
	var raw map[string]any
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	if nested, ok := raw["filters"]; ok {
		switch f := nested.(type) {
		case map[string]any:
			return f, nil
		case nil:
			return nil, nil
		default:
			return nil, errors.New("filters must be an object")
		}
	}
	return raw, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code gen.ErrorResponseCode, message string) {
	writeJSON(w, status, gen.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNoIndex,
		domain.ErrJobNotFound,
		domain.ErrExportNotReady,
		domain.ErrForbidden,
		domain.ErrShardFailure,
		domain.ErrSearchFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code gen.ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// indexUnavailableHandler reports a missing lead index with the names that were probed.
func indexUnavailableHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrNoIndex) {
		return false
	}
	resp := gen.ErrorResponse{Code: gen.ErrorResponseCodeIndexUnavailable, Message: msg}
	var ire *domain.IndexResolutionError
	if errors.As(err, &ire) {
		attempted := ire.Attempted
		resp.Attempted = &attempted
	}
	writeJSON(w, http.StatusServiceUnavailable, resp)
	return true
}

// searchFailureHandler exposes the engine reason for shard failures only.
func searchFailureHandler(w http.ResponseWriter, err error, _ string) bool {
	var se *domain.SearchError
	if !errors.As(err, &se) {
		return false
	}
	if errors.Is(se.Kind, domain.ErrShardFailure) {
		msg := domain.ErrShardFailure.Error()
		if se.Reason != "" {
			msg = se.Reason
		}
		writeError(w, http.StatusBadGateway, gen.ErrorResponseCodeSearchFailed, msg)
		return true
	}
	writeError(w, http.StatusInternalServerError, gen.ErrorResponseCodeSearchFailed, domain.ErrSearchFailed.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, gen.ErrorResponseCodeInternalError, "internal error")
}

func pageToGen(p *result.Page) gen.LeadSearchResponse {
	data := make([]map[string]interface{}, 0, len(p.Rows()))
	for _, row := range p.Rows() {
		item := make(map[string]interface{}, len(row.Record)+1)
		for k, v := range row.Record {
			item[k] = v
		}
		item[DisplayKey] = row.Display
		data = append(data, item)
	}
	return gen.LeadSearchResponse{
		Meta: gen.SearchMeta{
			Index:           strings.Join(p.Indices(), ","),
			Total:           p.Total(),
			TotalIsEstimate: p.TotalIsEstimate(),
			From:            p.Offset(),
			Size:            p.Limit(),
		},
		Data: data,
	}
}

func jobToGen(j *domjob.Job) gen.ExportJob {
	resp := gen.ExportJob{
		Id:        j.ID,
		Status:    gen.ExportJobStatus(j.Status),
		Total:     j.Total,
		Processed: j.Processed,
		Progress:  j.Progress,
		Filename:  j.Filename,
		CreatedAt: j.CreatedAt.UTC(),
		UpdatedAt: j.UpdatedAt.UTC(),
	}
	if j.Error != "" {
		msg := j.Error
		resp.Error = &msg
	}
	if !j.FinishedAt.IsZero() {
		finished := j.FinishedAt.UTC()
		resp.FinishedAt = &finished
	}
	if j.Downloadable() {
		u := "/export/download/" + j.ID
		resp.DownloadUrl = &u
	}
	return resp
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// ParamErrorHandler renders request parameter binding failures.
func ParamErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "invalid request: "+err.Error())
}
