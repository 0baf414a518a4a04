package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when a transition would move a trip
	// backward or onto an already-reached step.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUnknownStep is returned when the target step id has no matching
	// catalog entry.
	ErrUnknownStep = errors.New("unknown driver report step")

	// ErrTransitionInFlight is returned when another transition for the same
	// trip is still being recorded; the caller should retry after it settles.
	ErrTransitionInFlight = errors.New("another transition is in progress for this trip")
)
