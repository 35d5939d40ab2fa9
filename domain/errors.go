package domain

import "errors"

// Sentinel errors shared by the lifecycle engine. Handlers map these to HTTP
// statuses with errors.Is, services wrap them with context via fmt.Errorf %w.
var (
	// ErrNotFound is returned for any unknown entity reference.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned for duplicate admission pairs and duplicate
	// slot names.
	ErrConflict = errors.New("conflict")

	// ErrGuardViolation is returned when a mutation targets an admission
	// whose slot has already left the waiting state.
	ErrGuardViolation = errors.New("slot is no longer accepting changes")

	// ErrUnauthorized is returned when a moderator acts outside their
	// assigned categories.
	ErrUnauthorized = errors.New("moderator not authorized for this category")

	// ErrStaleState is returned by the moderation gateway when its defensive
	// re-check loses the race against a slot transition.
	ErrStaleState = errors.New("slot state changed since the record was read")
)
