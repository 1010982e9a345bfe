package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", NewBadRequestError("Invalid grade ID"), http.StatusBadRequest},
		{"unauthorized", NewUnauthorizedError("no token"), http.StatusUnauthorized},
		{"forbidden", NewForbiddenError("nope"), http.StatusForbidden},
		{"not found", NewResourceNotFoundError("Grade not found"), http.StatusNotFound},
		{"conflict", NewConflictError("Grade already exists"), http.StatusConflict},
		{"too many", NewTooManyRequestsError("slow down"), http.StatusTooManyRequests},
		{"wrapped kind", fmt.Errorf("service: %w", NewConflictError("dup")), http.StatusConflict},
		{"plain sentinel", fmt.Errorf("%w: name is empty", ErrBadRequest), http.StatusBadRequest},
		{"internal with cause", NewInternalError("boom", NewBadRequestError("inner")), http.StatusInternalServerError},
		{"unknown", errors.New("driver exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestClientMessageHidesInternalDetail(t *testing.T) {
	if got := ClientMessage(NewConflictError("Subject already exists")); got != "Subject already exists" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := ClientMessage(errors.New("pq: connection refused")); got != "Internal server error" {
		t.Fatalf("internal detail leaked: %q", got)
	}
	if got := ClientMessage(NewInternalError("failed to hash", errors.New("bcrypt"))); got != "Internal server error" {
		t.Fatalf("internal detail leaked: %q", got)
	}
}

func TestCustomErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := NewInternalError("failed to persist", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable through errors.Is")
	}
	if !errors.Is(err, ErrInternal) {
		t.Fatal("expected kind to be reachable through errors.Is")
	}
}
