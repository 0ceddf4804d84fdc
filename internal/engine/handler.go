package engine

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/specmock/specmock/internal/contract"
	"github.com/specmock/specmock/internal/registry"
	"github.com/specmock/specmock/internal/responder"
	"github.com/specmock/specmock/internal/router"
)

// Spec selection for a single request: header takes precedence over the
// query parameter; without either the default document answers.
const (
	specHeader     = "X-Spec"
	specQueryParam = "__spec"
	adminPrefix    = "/__admin"
)

// Handler returns the full HTTP handler: admin API under /__admin, mock
// dispatch for everything else, request logging around both.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(adminPrefix+"/specs", s.handleListSpecs)
	mux.HandleFunc(adminPrefix+"/specs/", s.handleSpecEndpoints)
	mux.HandleFunc(adminPrefix+"/reload", s.handleReload)
	mux.HandleFunc("/", s.handleMock)
	return s.logRequests(mux)
}

type errorBody struct {
	Error   string   `json:"error"`
	Detail  string   `json:"detail,omitempty"`
	Allowed []string `json:"allowed,omitempty"`
}

func (s *Server) handleMock(w http.ResponseWriter, r *http.Request) {
	specName := strings.TrimSpace(r.Header.Get(specHeader))
	if specName == "" {
		specName = strings.TrimSpace(r.URL.Query().Get(specQueryParam))
	}

	var (
		doc *contract.Document
		err error
	)
	if specName != "" {
		doc, err = s.reg.Get(specName)
	} else {
		doc, err = s.reg.Default()
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	match, err := router.Route(r.Method, r.URL.Path, doc)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sel, err := responder.Select(match.Operation)
	if err != nil {
		s.writeError(w, err)
		return
	}

	body := responder.BuildBody(sel, s.gen)
	if body.Value == nil {
		w.WriteHeader(sel.Status)
		return
	}
	// Non-JSON string payloads (e.g. text/plain examples) go out raw.
	if str, ok := body.Value.(string); ok && body.ContentType != "" && !strings.Contains(body.ContentType, "json") {
		w.Header().Set("Content-Type", body.ContentType)
		w.WriteHeader(sel.Status)
		_, _ = w.Write([]byte(str))
		return
	}
	writeJSON(w, sel.Status, body.ContentType, body.Value)
}

// writeError translates the core's typed results into transport status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		notFound   *router.NotFoundError
		notAllowed *router.MethodNotAllowedError
		noSpec     *registry.NotFoundError
		noResponse *responder.NoResponseError
	)
	switch {
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, "", errorBody{Error: "route not found", Detail: notFound.Path})
	case errors.As(err, &notAllowed):
		allowed := make([]string, 0, len(notAllowed.Allowed))
		for _, m := range notAllowed.Allowed {
			allowed = append(allowed, strings.ToUpper(string(m)))
		}
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		writeJSON(w, http.StatusMethodNotAllowed, "", errorBody{
			Error:   "method not allowed",
			Detail:  notAllowed.Error(),
			Allowed: allowed,
		})
	case errors.As(err, &noSpec):
		writeJSON(w, http.StatusNotFound, "", errorBody{Error: "spec not found", Detail: noSpec.Name})
	case errors.Is(err, registry.ErrNoDefault):
		writeJSON(w, http.StatusBadRequest, "", errorBody{Error: "no default spec configured"})
	case errors.As(err, &noResponse):
		// The operation exists but declares nothing to answer with; explain
		// rather than fail.
		writeJSON(w, http.StatusOK, "", errorBody{Error: "no response defined for operation"})
	default:
		writeJSON(w, http.StatusInternalServerError, "", errorBody{Error: err.Error()})
	}
}

func (s *Server) handleListSpecs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, "", errorBody{Error: "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, "", s.reg.Infos())
}

func (s *Server) handleSpecEndpoints(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, "", errorBody{Error: "method not allowed"})
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, adminPrefix+"/specs/")
	name, tail, _ := strings.Cut(rest, "/")
	if name == "" || tail != "endpoints" {
		writeJSON(w, http.StatusNotFound, "", errorBody{Error: "route not found", Detail: r.URL.Path})
		return
	}
	endpoints, err := s.reg.Endpoints(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "", endpoints)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, "", errorBody{Error: "method not allowed"})
		return
	}
	if err := s.Load(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, "", errorBody{Error: "reload failed", Detail: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, "", s.reg.Infos())
}

func writeJSON(w http.ResponseWriter, status int, contentType string, v any) {
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
