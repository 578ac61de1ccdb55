package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"domain error passes through", NewForbidden("not yours"), CodeForbidden, http.StatusForbidden},
		{"wrapped domain error", fmt.Errorf("loading: %w", NewNotFound("item", nil)), CodeNotFound, http.StatusNotFound},
		{"no rows maps to not found", pgx.ErrNoRows, CodeNotFound, http.StatusNotFound},
		{"unknown error is internal", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			if got.Code != tt.code {
				t.Errorf("expected code %q, got %q", tt.code, got.Code)
			}
			if got.HTTPStatus != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, got.HTTPStatus)
			}
		})
	}

	if ToDomainError(nil) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewConflict("email taken", nil))
	if !HasCode(err, CodeConflict) {
		t.Error("expected conflict code to be found through wrapping")
	}
	if HasCode(err, CodeNotFound) {
		t.Error("expected not found code to be absent")
	}
	if HasCode(errors.New("plain"), CodeInternal) {
		t.Error("expected plain error to carry no code")
	}
}
