package session

import "errors"

var (
	// ErrInvalidInput indicates an empty or unparsable input array.
	ErrInvalidInput = errors.New("session: invalid input")

	// ErrSessionBusy indicates a start request while a run is active.
	ErrSessionBusy = errors.New("session: a run is already in progress")
)
