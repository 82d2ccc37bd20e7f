package server

import (
	"html/template"
	"net/http"
	"strings"

	_ "embed"

	"go.uber.org/zap"
)

//go:embed index.html.tmpl
var indexTemplateText string

var indexTemplate = template.Must(
	template.New("index").Funcs(template.FuncMap{
		"join": strings.Join,
	}).Parse(indexTemplateText),
)

type indexData struct {
	Query     string
	Submitted bool
	Error     string
	Results   []assessmentSummary
}

// handleIndex serves the form UI. GET renders the empty form, POST runs a
// recommendation and renders result cards. An empty result renders a soft
// notice, never an error page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.renderIndex(w, indexData{})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			s.renderIndex(w, indexData{Error: "Could not read the submitted form."})
			return
		}

		query := strings.TrimSpace(r.PostFormValue("query"))
		if query == "" {
			s.renderIndex(w, indexData{Error: "Please enter a valid job description."})
			return
		}

		records := s.recommender.Recommend(r.Context(), query, maxResultsDefault)

		s.renderIndex(w, indexData{
			Query:     query,
			Submitted: true,
			Results:   summarize(records),
		})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) renderIndex(w http.ResponseWriter, data indexData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Warn("rendering index page", zap.Error(err))
	}
}
