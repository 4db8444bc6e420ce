package server

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/svcgraph/pkg/buildinfo"
	"github.com/matzehuels/svcgraph/pkg/errors"
	"github.com/matzehuels/svcgraph/pkg/graph"
	"github.com/matzehuels/svcgraph/pkg/pipeline"
	"github.com/matzehuels/svcgraph/pkg/render"
	"github.com/matzehuels/svcgraph/pkg/service"
	"github.com/matzehuels/svcgraph/pkg/store"
	"github.com/matzehuels/svcgraph/pkg/view"
)

type healthResponse struct {
	OK    bool           `json:"ok"`
	Build buildinfo.Info `json:"build"`
}

type listResponse struct {
	Documents []string `json:"documents"`
}

type putResponse struct {
	Name     string `json:"name"`
	Services int    `json:"services"`
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{OK: true, Build: buildinfo.Current()})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	names, err := store.Search(r.Context(), s.store, r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, listResponse{Documents: names})
}

// bodyFormat picks the document format from Content-Type. JSON is the
// default wire format.
func bodyFormat(r *http.Request) service.Format {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	switch {
	case strings.Contains(ct, "yaml"):
		return service.FormatYAML
	case strings.Contains(ct, "toml"):
		return service.FormatTOML
	}
	return service.FormatJSON
}

// handlePutDocument stores the entry list in the body under ?name=.
func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if err := errors.ValidateDocumentName(name); err != nil {
		s.writeError(w, err)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	entries, err := service.DecodeBytes(data, bodyFormat(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	doc := service.Document{Name: name, Entries: entries}
	if err := s.store.Put(r.Context(), doc); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, putResponse{Name: name, Services: service.Count(entries)})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleView returns the flattened document: root view plus child index.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	res, err := s.flatten(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := graph.MarshalResult(res)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encode result"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// handleGroup returns one child group view of a node.
func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request) {
	res, err := s.flatten(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "group index must be a non-negative integer"))
		return
	}

	groups, ok := res.Children[id]
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeNodeNotFound, "node %q has no child groups", id))
		return
	}
	if index >= len(groups) {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "node %q has %d groups", id, len(groups)))
		return
	}

	data, err := graph.MarshalView(groups[index])
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encode view"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// handleRender renders the root view, or the group reached by ?path=.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := render.Format(chi.URLParam(r, "format"))
	if format != render.FormatSVG && format != render.FormatDOT {
		s.writeError(w, errors.New(errors.ErrCodeInvalidFormat, "unsupported render format %q (must be svg or dot)", format))
		return
	}

	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	q := r.URL.Query()
	res, err := s.runner.Execute(r.Context(), doc, pipeline.Options{
		Direction: s.directionParam(r),
		Formats:   []string{string(format)},
		Engine:    q.Get("engine"),
		Path:      view.ParsePath(q.Get("path")),
		Highlight: pipeline.ParseHighlight(q.Get("highlight")),
		Logger:    s.logger,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	_, _ = w.Write(res.Artifacts[string(format)])
}

func (s *Server) flatten(r *http.Request) (graph.Result, error) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		return graph.Result{}, err
	}
	return s.runner.Flatten(r.Context(), doc, pipeline.Options{
		Direction: s.directionParam(r),
		Logger:    s.logger,
	})
}

func (s *Server) directionParam(r *http.Request) string {
	if d := r.URL.Query().Get("direction"); d != "" {
		return d
	}
	return string(s.direction)
}

// writeError maps error codes to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.CodeOf(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: code})
}

func statusFor(code errors.Code) int {
	switch code.Kind() {
	case errors.KindInvalid:
		return http.StatusBadRequest
	case errors.KindNotFound:
		return http.StatusNotFound
	case errors.KindUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
