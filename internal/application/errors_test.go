package application

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_HasErrors(t *testing.T) {
	t.Parallel()

	var empty *ValidationError
	if empty.HasErrors() {
		t.Fatal("expected nil error to report no field errors")
	}

	vErr := &ValidationError{}
	if vErr.HasErrors() {
		t.Fatal("expected empty error to report no field errors")
	}

	vErr.add("emp_no", "employee number is required")
	if !vErr.HasErrors() {
		t.Fatal("expected recorded field error to be reported")
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err      error
		expected string
	}{
		{nil, ""},
		{ErrForbidden, "forbidden"},
		{ErrNotFound, "not_found"},
		{ErrConflict, "conflict"},
		{ErrInvalidCredentials, "invalid_credentials"},
		{fmt.Errorf("wrapped: %w", ErrStorageUnavailable), "storage_unavailable"},
		{&ValidationError{FieldErrors: map[string]string{"x": "y"}}, "validation"},
		{errors.New("boom"), "unexpected"},
	}

	for _, tc := range cases {
		if kind := ErrorKind(tc.err); kind != tc.expected {
			t.Fatalf("expected %q for %v, got %q", tc.expected, tc.err, kind)
		}
	}
}
