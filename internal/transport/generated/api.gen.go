// Package generated holds the HTTP types, chi routing and parameter binding
// for api/openapi.yaml. It follows the oapi-codegen chi-server layout and is
// maintained by hand; keep it in step with the OpenAPI document.
package generated

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// Defines values for ErrorResponseCode.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeExportNotReady   ErrorResponseCode = "export_not_ready"
	ErrorResponseCodeForbidden        ErrorResponseCode = "forbidden"
	ErrorResponseCodeIndexUnavailable ErrorResponseCode = "index_unavailable"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
	ErrorResponseCodeNotFound         ErrorResponseCode = "not_found"
	ErrorResponseCodeSearchFailed     ErrorResponseCode = "search_failed"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
)

// Defines values for ExportJobStatus.
const (
	Done    ExportJobStatus = "done"
	Error   ExportJobStatus = "error"
	Running ExportJobStatus = "running"
)

// Defines values for HealthResponseChecks.
const (
	HealthResponseChecksError HealthResponseChecks = "error"
	HealthResponseChecksOk    HealthResponseChecks = "ok"
)

// Defines values for HealthResponseStatus.
const (
	HealthResponseStatusDegraded HealthResponseStatus = "degraded"
	HealthResponseStatusError    HealthResponseStatus = "error"
	HealthResponseStatusOk       HealthResponseStatus = "ok"
)

// Defines values for SearchLeadsParamsSortDir.
const (
	Asc  SearchLeadsParamsSortDir = "asc"
	Desc SearchLeadsParamsSortDir = "desc"
)

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Attempted *[]string         `json:"attempted,omitempty"`
	Code      ErrorResponseCode `json:"code"`
	Message   string            `json:"message"`
}

// ErrorResponseCode defines model for ErrorResponse.Code.
type ErrorResponseCode string

// ExportJob defines model for ExportJob.
type ExportJob struct {
	CreatedAt   time.Time       `json:"created_at"`
	DownloadUrl *string         `json:"downloadUrl,omitempty"`
	Error       *string         `json:"error,omitempty"`
	Filename    string          `json:"filename"`
	FinishedAt  *time.Time      `json:"finished_at,omitempty"`
	Id          string          `json:"id"`
	Processed   int64           `json:"processed"`
	Progress    int             `json:"progress"`
	Status      ExportJobStatus `json:"status"`
	Total       int64           `json:"total"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ExportJobStatus defines model for ExportJob.Status.
type ExportJobStatus string

// HealthResponse defines model for HealthResponse.
type HealthResponse struct {
	Checks map[string]HealthResponseChecks `json:"checks"`
	Status HealthResponseStatus            `json:"status"`
}

// HealthResponseChecks defines model for HealthResponse.Checks.
type HealthResponseChecks string

// HealthResponseStatus defines model for HealthResponse.Status.
type HealthResponseStatus string

// LeadSearchResponse defines model for LeadSearchResponse.
type LeadSearchResponse struct {
	Data []map[string]interface{} `json:"data"`
	Meta SearchMeta               `json:"meta"`
}

// SearchMeta defines model for SearchMeta.
type SearchMeta struct {
	From            int    `json:"from"`
	Index           string `json:"index"`
	Size            int    `json:"size"`
	Total           int64  `json:"total"`
	TotalIsEstimate bool   `json:"total_is_estimate"`
}

// StartExportRequest defines model for StartExportRequest.
type StartExportRequest struct {
	Filters *map[string]interface{} `json:"filters,omitempty"`
}

// StartExportResponse defines model for StartExportResponse.
type StartExportResponse struct {
	Filename string `json:"filename"`
	JobId    string `json:"jobId"`
}

// JobId defines model for JobId.
type JobId = string

// SearchLeadsParams defines parameters for SearchLeads.
type SearchLeadsParams struct {
	Limit     *int                      `form:"limit,omitempty" json:"limit,omitempty"`
	Offset    *int                      `form:"offset,omitempty" json:"offset,omitempty"`
	SortField *string                   `form:"sort_field,omitempty" json:"sort_field,omitempty"`
	SortDir   *SearchLeadsParamsSortDir `form:"sort_dir,omitempty" json:"sort_dir,omitempty"`
}

// SearchLeadsParamsSortDir defines parameters for SearchLeads.
type SearchLeadsParamsSortDir string

// StartExportJSONRequestBody defines body for StartExport for application/json ContentType.
type StartExportJSONRequestBody = StartExportRequest

// ServerInterface represents all server handlers.
type ServerInterface interface {

	// (GET /export/download/{jobId})
	DownloadExport(w http.ResponseWriter, r *http.Request, jobId JobId)

	// (POST /export/start)
	StartExport(w http.ResponseWriter, r *http.Request)

	// (GET /export/status/{jobId})
	GetExportStatus(w http.ResponseWriter, r *http.Request, jobId JobId)

	// (GET /health)
	HealthCheck(w http.ResponseWriter, r *http.Request)

	// (GET /leads)
	SearchLeads(w http.ResponseWriter, r *http.Request, params SearchLeadsParams)

	// (GET /metrics)
	Metrics(w http.ResponseWriter, r *http.Request)
}

// Unimplemented server implementation that returns http.StatusNotImplemented for each endpoint.

type Unimplemented struct{}

// (GET /export/download/{jobId})
func (_ Unimplemented) DownloadExport(w http.ResponseWriter, r *http.Request, jobId JobId) {
	w.WriteHeader(http.StatusNotImplemented)
}

// (POST /export/start)
func (_ Unimplemented) StartExport(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

// (GET /export/status/{jobId})
func (_ Unimplemented) GetExportStatus(w http.ResponseWriter, r *http.Request, jobId JobId) {
	w.WriteHeader(http.StatusNotImplemented)
}

// (GET /health)
func (_ Unimplemented) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

// (GET /leads)
func (_ Unimplemented) SearchLeads(w http.ResponseWriter, r *http.Request, params SearchLeadsParams) {
	w.WriteHeader(http.StatusNotImplemented)
}

// (GET /metrics)
func (_ Unimplemented) Metrics(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

type MiddlewareFunc func(http.Handler) http.Handler

// DownloadExport operation middleware
func (siw *ServerInterfaceWrapper) DownloadExport(w http.ResponseWriter, r *http.Request) {

	var err error

	// ------------- Path parameter "jobId" -------------
	var jobId JobId

	err = runtime.BindStyledParameterWithOptions("simple", "jobId", chi.URLParam(r, "jobId"), &jobId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "jobId", Err: err})
		return
	}

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.DownloadExport(w, r, jobId)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// StartExport operation middleware
func (siw *ServerInterfaceWrapper) StartExport(w http.ResponseWriter, r *http.Request) {

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.StartExport(w, r)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// GetExportStatus operation middleware
func (siw *ServerInterfaceWrapper) GetExportStatus(w http.ResponseWriter, r *http.Request) {

	var err error

	// ------------- Path parameter "jobId" -------------
	var jobId JobId

	err = runtime.BindStyledParameterWithOptions("simple", "jobId", chi.URLParam(r, "jobId"), &jobId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "jobId", Err: err})
		return
	}

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetExportStatus(w, r, jobId)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// HealthCheck operation middleware
func (siw *ServerInterfaceWrapper) HealthCheck(w http.ResponseWriter, r *http.Request) {

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.HealthCheck(w, r)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// SearchLeads operation middleware
func (siw *ServerInterfaceWrapper) SearchLeads(w http.ResponseWriter, r *http.Request) {

	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params SearchLeadsParams

	// ------------- Optional query parameter "limit" -------------

	err = runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "limit", Err: err})
		return
	}

	// ------------- Optional query parameter "offset" -------------

	err = runtime.BindQueryParameter("form", true, false, "offset", r.URL.Query(), &params.Offset)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "offset", Err: err})
		return
	}

	// ------------- Optional query parameter "sort_field" -------------

	err = runtime.BindQueryParameter("form", true, false, "sort_field", r.URL.Query(), &params.SortField)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "sort_field", Err: err})
		return
	}

	// ------------- Optional query parameter "sort_dir" -------------

	err = runtime.BindQueryParameter("form", true, false, "sort_dir", r.URL.Query(), &params.SortDir)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "sort_dir", Err: err})
		return
	}

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.SearchLeads(w, r, params)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// Metrics operation middleware
func (siw *ServerInterfaceWrapper) Metrics(w http.ResponseWriter, r *http.Request) {

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.Metrics(w, r)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

type UnescapedCookieParamError struct {
	ParamName string
	Err       error
}

func (e *UnescapedCookieParamError) Error() string {
	return fmt.Sprintf("error unescaping cookie parameter '%s'", e.ParamName)
}

func (e *UnescapedCookieParamError) Unwrap() error {
	return e.Err
}

type UnmarshalingParamError struct {
	ParamName string
	Err       error
}

func (e *UnmarshalingParamError) Error() string {
	return fmt.Sprintf("Error unmarshaling parameter %s as JSON: %s", e.ParamName, e.Err.Error())
}

func (e *UnmarshalingParamError) Unwrap() error {
	return e.Err
}

type RequiredParamError struct {
	ParamName string
}

func (e *RequiredParamError) Error() string {
	return fmt.Sprintf("Query argument %s is required, but not found", e.ParamName)
}

type RequiredHeaderError struct {
	ParamName string
	Err       error
}

func (e *RequiredHeaderError) Error() string {
	return fmt.Sprintf("Header parameter %s is required, but not found", e.ParamName)
}

func (e *RequiredHeaderError) Unwrap() error {
	return e.Err
}

type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

type TooManyValuesForParamError struct {
	ParamName string
	Count     int
}

func (e *TooManyValuesForParamError) Error() string {
	return fmt.Sprintf("Expected one value for %s, got %d", e.ParamName, e.Count)
}

// Handler creates http.Handler with routing matching OpenAPI spec.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerFromMux creates http.Handler with routing matching OpenAPI spec based on the provided mux.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{
		BaseRouter: r,
	})
}

func HandlerFromMuxWithBaseURL(si ServerInterface, r chi.Router, baseURL string) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{
		BaseURL:    baseURL,
		BaseRouter: r,
	})
}

// HandlerWithOptions creates http.Handler with additional options
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/export/download/{jobId}", wrapper.DownloadExport)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/export/start", wrapper.StartExport)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/export/status/{jobId}", wrapper.GetExportStatus)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/health", wrapper.HealthCheck)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/leads", wrapper.SearchLeads)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/metrics", wrapper.Metrics)
	})

	return r
}
