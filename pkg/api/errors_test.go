package api

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorCodeRoundTrip(t *testing.T) {
	cases := []struct {
		code     string
		sentinel error
	}{
		{CodeAuth, ErrAuth},
		{CodeForbidden, ErrForbidden},
		{CodeNotFound, ErrNotFound},
		{CodeCapacityExceeded, ErrCapacityExceeded},
		{CodeInvalidState, ErrInvalidState},
	}
	for _, tc := range cases {
		err := ErrorFromCode(tc.code, "details from the server")
		if !errors.Is(err, tc.sentinel) {
			t.Errorf("ErrorFromCode(%q) = %v, want wrapping %v", tc.code, err, tc.sentinel)
		}
		if !strings.Contains(err.Error(), "details from the server") {
			t.Errorf("ErrorFromCode(%q) dropped the server message: %v", tc.code, err)
		}
		if got := ErrorCode(err); got != tc.code {
			t.Errorf("ErrorCode(ErrorFromCode(%q)) = %q", tc.code, got)
		}
	}
}

func TestErrorFromCodeValidation(t *testing.T) {
	err := ErrorFromCode(CodeValidation, "must not be empty")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if verr.Reason != "must not be empty" {
		t.Errorf("reason = %q", verr.Reason)
	}
}
