package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/graph"
	"github.com/oolestudio/tamashi/pkg/session"
)

// CreateSessionRequest is the optional body of POST /sessions.
type CreateSessionRequest struct {
	TutorialID  string `json:"tutorial_id,omitempty"`
	StartStepID string `json:"start_step_id,omitempty"`
}

// LoadRequest is the body of POST /sessions/{id}/load. Either TutorialID
// names a catalog entry or Steps carries the graph inline.
type LoadRequest struct {
	TutorialID  string        `json:"tutorial_id,omitempty"`
	Steps       []domain.Step `json:"steps,omitempty"`
	StartStepID string        `json:"start_step_id,omitempty"`
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decode(r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	sess, err := s.Sessions.Open(ctx, s.newID())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view := sess.View()
	if req.TutorialID != "" {
		view, err = s.loadFromCatalog(ctx, sess, req.TutorialID, req.StartStepID)
		if err != nil {
			// Nothing was persisted yet; do not leave an empty live session behind.
			_ = s.Sessions.Close(ctx, sess.ID)
			s.writeError(w, r, err)
			return
		}
	}

	s.Logger.Info("session created", "session_id", sess.ID, "tutorial_id", req.TutorialID)
	writeJSON(w, http.StatusCreated, SessionView{SessionID: sess.ID, View: view})
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionView{SessionID: sess.ID, View: sess.View()})
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LoadTutorial handles the POST /sessions/{id}/load request. The session is
// created when it does not exist yet.
func (s *Server) LoadTutorial(w http.ResponseWriter, r *http.Request) {
	var req LoadRequest
	if err := decode(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	sess, err := s.Sessions.Open(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var view domain.View
	switch {
	case len(req.Steps) > 0:
		t := domain.Tutorial{ID: req.TutorialID, Steps: req.Steps, StartStepID: req.StartStepID}
		if verr := graph.ValidateTutorial(t); verr != nil {
			if s.Strict {
				s.writeError(w, r, verr)
				return
			}
			s.Logger.Warn("loading tutorial with graph problems", "session_id", sess.ID, "error", verr)
		}
		view, err = sess.Load(ctx, req.TutorialID, req.Steps, req.StartStepID)
	case req.TutorialID != "":
		view, err = s.loadFromCatalog(ctx, sess, req.TutorialID, req.StartStepID)
	default:
		err = &badRequestError{err: errors.New("tutorial_id or steps is required")}
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionView{SessionID: sess.ID, View: view})
}

// command adapts a session command to a POST handler on an existing session.
func (s *Server) command(op func(*session.Session, context.Context) (domain.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		view, err := op(sess, r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, SessionView{SessionID: sess.ID, View: view})
	}
}

func (s *Server) loadFromCatalog(ctx context.Context, sess *session.Session, tutorialID, start string) (domain.View, error) {
	t, err := s.Catalog.Get(ctx, tutorialID)
	if err != nil {
		return domain.View{}, err
	}
	if start == "" {
		start = t.StartStepID
	}
	return sess.Load(ctx, t.ID, t.Steps, start)
}

func decode(r *http.Request, v any, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) && optional {
		return nil
	}
	if err != nil {
		return &badRequestError{err: fmt.Errorf("decode body: %w", err)}
	}
	return nil
}
