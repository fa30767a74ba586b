package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oolestudio/tamashi/internal/presentation/graph"
	"github.com/oolestudio/tamashi/pkg/domain"
	tgraph "github.com/oolestudio/tamashi/pkg/graph"
)

// TutorialSummary is one entry of GET /tutorials.
type TutorialSummary struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Steps int    `json:"steps"`
}

// ValidationReport is the body of GET /tutorials/{id}/validate.
type ValidationReport struct {
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
}

// ListTutorials handles the GET /tutorials request.
func (s *Server) ListTutorials(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Catalog.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]TutorialSummary, 0, len(ids))
	for _, id := range ids {
		t, err := s.Catalog.Get(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		out = append(out, TutorialSummary{ID: t.ID, Title: t.Title, Steps: len(t.Steps)})
	}
	writeJSON(w, http.StatusOK, out)
}

// GetTutorial handles the GET /tutorials/{id} request.
func (s *Server) GetTutorial(w http.ResponseWriter, r *http.Request) {
	t, ok := s.tutorial(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ValidateTutorial handles the GET /tutorials/{id}/validate request.
func (s *Server) ValidateTutorial(w http.ResponseWriter, r *http.Request) {
	t, ok := s.tutorial(w, r)
	if !ok {
		return
	}

	report := ValidationReport{Valid: true}
	if err := tgraph.ValidateTutorial(t); err != nil {
		report.Valid = false
		report.Problems = problemStrings(tgraph.ValidationErrors(err))
	}
	writeJSON(w, http.StatusOK, report)
}

// GetTutorialGraph handles the GET /tutorials/{id}/graph request.
func (s *Server) GetTutorialGraph(w http.ResponseWriter, r *http.Request) {
	t, ok := s.tutorial(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(graph.GenerateMermaid(t, nil)))
}

func (s *Server) tutorial(w http.ResponseWriter, r *http.Request) (domain.Tutorial, bool) {
	t, err := s.Catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return domain.Tutorial{}, false
	}
	return t, true
}
