package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrTutorialNotFound is returned when a catalog has no tutorial with the given ID.
var ErrTutorialNotFound = errors.New("tutorial not found")

// ErrPreferenceNotFound is returned when a preference key has never been written.
var ErrPreferenceNotFound = errors.New("preference not found")
