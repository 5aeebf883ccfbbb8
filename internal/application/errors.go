package application

import "errors"

var (
	// ErrNotFound is returned when the requested employee or shift does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrForbidden is returned when the acting employee lacks the role required
	// to mark attendance.
	ErrForbidden = errors.New("application: forbidden")
	// ErrConflict is returned when a check-in would open a second shift for the
	// same employee.
	ErrConflict = errors.New("application: conflict")
	// ErrInvalidCredentials is returned when login credentials do not match.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrStorageUnavailable is returned when the durable store aborted the
	// transaction. The operation did not commit; callers may retry with
	// backoff. The ledger itself never retries, since a retry inside the
	// per-employee scope risks stalling every caller queued behind it.
	ErrStorageUnavailable = errors.New("application: storage unavailable")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
