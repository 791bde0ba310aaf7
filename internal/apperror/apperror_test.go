package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{Validation(Issue{Path: []string{"email"}, Message: "must be a valid email address"}), http.StatusBadRequest},
		{Conflict("email already registered"), http.StatusConflict},
		{Unauthorized("Invalid email or password"), http.StatusUnauthorized},
		{Internal("boom", errors.New("cause")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.err.Code, tc.status, got)
		}
	}
}

func TestFromUnwrapsChain(t *testing.T) {
	inner := Conflict("duplicate")
	wrapped := fmt.Errorf("creating user: %w", inner)

	appErr, ok := From(wrapped)
	if !ok || appErr.Code != CodeConflict {
		t.Fatalf("expected conflict through wrap, got %v ok=%v", appErr, ok)
	}
	if !IsCode(wrapped, CodeConflict) {
		t.Fatal("IsCode missed wrapped conflict")
	}
	if IsCode(wrapped, CodeUnauthorized) {
		t.Fatal("IsCode matched wrong code")
	}
	if _, ok := From(errors.New("plain")); ok {
		t.Fatal("From matched a non-app error")
	}
}

func TestInternalKeepsCausePrivate(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Internal("failed to create user", cause)

	if !errors.Is(err, cause) {
		t.Fatal("cause not wrapped")
	}
	// The full string includes the cause for logs; Message alone is what
	// clients see.
	if err.Message != "failed to create user" {
		t.Fatalf("unexpected client message: %q", err.Message)
	}
}
