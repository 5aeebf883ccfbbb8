package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a write would violate a uniqueness rule,
	// such as inserting a second open shift for the same employee.
	ErrDuplicate = errors.New("persistence: duplicate")
	// ErrUnavailable is returned when the underlying store cannot complete a
	// transaction. Callers may retry with backoff.
	ErrUnavailable = errors.New("persistence: store unavailable")
)
