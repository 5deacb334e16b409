package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := Conflict("slot already taken")
	if err.Error() != "CONFLICT: slot already taken" {
		t.Errorf("unexpected error string: %s", err.Error())
	}

	wrapped := Internal("insert failed", errors.New("connection reset"))
	if wrapped.Error() != "INTERNAL_ERROR: insert failed (caused by: connection reset)" {
		t.Errorf("unexpected wrapped error string: %s", wrapped.Error())
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, CodeInternal, "something broke", http.StatusInternalServerError)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestConstructors_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("Arena"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad interval", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"forbidden", Forbidden("staff only"), CodeForbidden, http.StatusForbidden},
		{"conflict", Conflict("overlap"), CodeConflict, http.StatusConflict},
		{"invalid state", InvalidState("booking is cancelled"), CodeInvalidState, http.StatusConflict},
		{"invalid input", InvalidInput("bad id"), CodeInvalidInput, http.StatusBadRequest},
		{"timeout", Timeout("took too long"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("bookings"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.StatusCode())
			}
		})
	}
}

func TestNotFoundWithID_Details(t *testing.T) {
	err := NotFoundWithID("Booking", "abc123")
	if err.Details["resource"] != "Booking" || err.Details["id"] != "abc123" {
		t.Errorf("unexpected details: %v", err.Details)
	}
}

func TestAsAppError(t *testing.T) {
	app := Conflict("taken")
	if AsAppError(app) != app {
		t.Error("expected AsAppError to return the same AppError")
	}

	plain := errors.New("plain")
	converted := AsAppError(plain)
	if converted.Code != CodeInternal {
		t.Errorf("expected plain errors to convert to internal, got %s", converted.Code)
	}
	if !errors.Is(converted, plain) {
		t.Error("expected converted error to wrap the original")
	}
}
