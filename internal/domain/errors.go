package domain

import "errors"

var (
	// ErrInvalidScope is returned when a location identifier is empty or
	// malformed. Scope validation happens before any fetch is dispatched.
	ErrInvalidScope = errors.New("invalid scope: malformed location identifier")

	// ErrFetchFailure is returned when an upstream fetch fails. The last
	// known good cache value is preserved; retries happen on the normal
	// refresh cadence, never immediately.
	ErrFetchFailure = errors.New("upstream fetch failed")

	// ErrNotFound is returned when a record is absent or not eligible for
	// public disclosure. Both cases produce the same error deliberately so
	// anonymous callers cannot distinguish them.
	ErrNotFound = errors.New("record not found")

	// ErrAuthStateUnavailable is returned when a session token cannot be
	// read or verified. Callers must treat this as unauthenticated.
	ErrAuthStateUnavailable = errors.New("auth state unavailable")

	// ErrInvalidRange is returned when a stats range is not one of
	// today, week, or month.
	ErrInvalidRange = errors.New("invalid stats range")
)
