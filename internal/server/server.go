// Package server exposes the document pipeline over HTTP.
//
//	POST /api/v1/expand          simplified input -> {document, issues}
//	POST /api/v1/xml/parse       XML-Craft -> {document, issues}
//	POST /api/v1/xml/serialize   document JSON -> XML-Craft
//	POST /api/v1/validate        document JSON -> {valid, issues}
//	POST /api/v1/render          document JSON -> HTML
//	POST /api/v1/outline         document JSON -> SVG or DOT
//	GET  /healthz
package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pagecraft/pkg/buildinfo"
	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/outline"
	"github.com/matzehuels/pagecraft/pkg/pipeline"
	"github.com/matzehuels/pagecraft/pkg/validate"
)

// maxBody caps request bodies.
const maxBody = 8 << 20

// DocumentResponse is returned by the expand and parse endpoints.
type DocumentResponse struct {
	Document *doc.Document  `json:"document"`
	Issues   validate.Issues `json:"issues"`
}

// ValidateResponse is returned by the validate endpoint.
type ValidateResponse struct {
	Valid  bool            `json:"valid"`
	Issues validate.Issues `json:"issues"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id,omitempty"`
	Issues    validate.Issues `json:"issues,omitempty"`
}

// New builds a chi router over runner.
func New(runner *pipeline.Runner, logger *log.Logger) *chi.Mux {
	h := &handlers{runner: runner}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(limitBody)
		r.Post("/expand", h.expand)
		r.Post("/xml/parse", h.parseXML)
		r.Post("/xml/serialize", h.serializeXML)
		r.Post("/validate", h.validate)
		r.Post("/render", h.render)
		r.Post("/outline", h.outline)
	})
	return r
}

// Serve runs the server on addr until ctx is done, then shuts it down.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).Round(time.Microsecond),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}

func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		next.ServeHTTP(w, r)
	})
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type handlers struct {
	runner *pipeline.Runner
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (h *handlers) expand(w http.ResponseWriter, r *http.Request) {
	res, err := h.runner.ExpandReader(r.Context(), r.Body)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, DocumentResponse{Document: res.Document, Issues: nonNil(res.Issues)})
}

func (h *handlers) parseXML(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.LoadOptions
	q := r.URL.Query()
	if s := q.Get("timestamp"); s != "" {
		ts, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			respondError(w, r, errors.New(errors.ErrCodeInvalidInput, "timestamp must be an integer, got %q", s))
			return
		}
		opts.Timestamp = ts
	}
	if s := q.Get("seed"); s != "" {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			respondError(w, r, errors.New(errors.ErrCodeInvalidInput, "seed must be an unsigned integer, got %q", s))
			return
		}
		opts.Seed = seed
	}

	res, err := h.runner.ParseXML(r.Context(), r.Body, opts)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, DocumentResponse{Document: res.Document, Issues: nonNil(res.Issues)})
}

// decodeDocument reads a document JSON body without validating it.
func decodeDocument(r *http.Request) (*doc.Document, error) {
	d, err := doc.ReadJSON(r.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode document")
	}
	return d, nil
}

func (h *handlers) serializeXML(w http.ResponseWriter, r *http.Request) {
	d, err := decodeDocument(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	out, err := h.runner.SerializeXML(r.Context(), d)
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}

func (h *handlers) validate(w http.ResponseWriter, r *http.Request) {
	d, err := decodeDocument(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	issues, err := h.runner.Validate(r.Context(), d)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ValidateResponse{Valid: len(issues) == 0, Issues: nonNil(issues)})
}

func (h *handlers) render(w http.ResponseWriter, r *http.Request) {
	d, err := decodeDocument(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	html, hit, err := h.runner.Render(r.Context(), d, pipeline.RenderOptions{Refresh: r.URL.Query().Get("refresh") == "true"})
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Cache", cacheHeader(hit))
	_, _ = w.Write(html)
}

func (h *handlers) outline(w http.ResponseWriter, r *http.Request) {
	d, err := decodeDocument(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	q := r.URL.Query()
	format := outline.Format(q.Get("format"))
	if format != "" && format != outline.FormatSVG && format != outline.FormatDOT {
		respondError(w, r, errors.New(errors.ErrCodeInvalidFormat, "format must be svg or dot, got %q", format))
		return
	}
	out, hit, err := h.runner.Outline(r.Context(), d, pipeline.OutlineOptions{
		Format:   format,
		Detailed: q.Get("detailed") == "true",
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	if format == outline.FormatDOT {
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "image/svg+xml")
	}
	w.Header().Set("X-Cache", cacheHeader(hit))
	_, _ = w.Write(out)
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func nonNil(is validate.Issues) validate.Issues {
	if is == nil {
		return validate.Issues{}
	}
	return is
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, `{"code":"INTERNAL_ERROR","message":"encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	var limited *errors.RateLimitedError
	if stderrors.As(err, &limited) && limited.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(limited.RetryAfter))
	}
	respondJSON(w, statusFor(err, code), ErrorResponse{
		Code:      string(code),
		Message:   errors.UserMessage(err),
		RequestID: middleware.GetReqID(r.Context()),
		Issues:    pipeline.IssuesOf(err),
	})
}

// statusFor maps an error code onto an HTTP status.
func statusFor(err error, code errors.Code) int {
	var tooBig *http.MaxBytesError
	if stderrors.As(err, &tooBig) {
		return http.StatusRequestEntityTooLarge
	}
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidXML, errors.ErrCodeInvalidRoot,
		errors.ErrCodeInvalidTag, errors.ErrCodeInvalidSection, errors.ErrCodeInvalidElement,
		errors.ErrCodeInvalidLayout, errors.ErrCodeInvalidPurpose, errors.ErrCodeInvalidDocument,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidID, errors.ErrCodeMissingField:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeRenderFailed, errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
