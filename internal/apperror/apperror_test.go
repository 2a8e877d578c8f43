package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("user", "42"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("email", "email is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("user", "email already in use"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "InvalidCredential wraps ErrInvalidCredential",
			err:       InvalidCredential("invalid password"),
			target:    ErrInvalidCredential,
			wantMatch: true,
		},
		{
			name:      "Unauthorized wraps ErrUnauthorized",
			err:       Unauthorized("valid authentication required"),
			target:    ErrUnauthorized,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("user", "42"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "InvalidCredential does NOT match ErrUnauthorized",
			err:       InvalidCredential("invalid password"),
			target:    ErrUnauthorized,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorsIsThroughWrapping(t *testing.T) {
	// Services wrap repository errors with fmt.Errorf("...: %w", err);
	// errors.Is must still find the sentinel at the bottom of the chain.
	wrapped := fmt.Errorf("authenticating user: %w", NotFound("user", "a@b.com"))
	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("errors.Is() should match ErrNotFound through a wrapped chain")
	}

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As() should extract *AppError from a wrapped chain")
	}
	if appErr.Message != "user not found with id a@b.com" {
		t.Errorf("Message = %q", appErr.Message)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("user", "42"),
			wantMessage: "user not found with id 42",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("email", "email is required"),
			wantMessage: "email is required",
		},
		{
			name:        "Conflict message includes resource and detail",
			err:         Conflict("user", "email already in use"),
			wantMessage: "user: email already in use",
		},
		{
			name:        "InvalidCredential uses custom message",
			err:         InvalidCredential("invalid password"),
			wantMessage: "invalid password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestValidationFailedField(t *testing.T) {
	err := ValidationFailed("whatsapp", "invalid phone format")
	if err.Field != "whatsapp" {
		t.Errorf("Field = %q, want %q", err.Field, "whatsapp")
	}
}
