package http

import (
	"errors"
	"net/http"

	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/graph"
)

// badRequestError marks a malformed request body.
type badRequestError struct{ err error }

func (e *badRequestError) Error() string { return "invalid request: " + e.err.Error() }
func (e *badRequestError) Unwrap() error { return e.err }

func classify(err error) (int, errorBody) {
	body := errorBody{Error: err.Error()}

	var bad *badRequestError
	switch {
	case errors.As(err, &bad):
		return http.StatusBadRequest, body
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrTutorialNotFound):
		return http.StatusNotFound, body
	}

	if problems := graph.ValidationErrors(err); len(problems) > 0 {
		body.Problems = problemStrings(problems)
		return http.StatusUnprocessableEntity, body
	}
	return http.StatusInternalServerError, body
}

func problemStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}
