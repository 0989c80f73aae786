package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mishgunpstlt/EventsApp/internal/models"
)

func TestToggleOutcome(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"capacity hit", models.ErrCapacityExceeded, "rejected"},
		{"wrapped capacity hit", fmt.Errorf("toggle: %w", models.ErrCapacityExceeded), "rejected"},
		{"missing event", models.ErrNotFound, "failed"},
		{"store failure", errors.New("connection reset"), "failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := toggleOutcome(tc.err); got != tc.want {
				t.Errorf("toggleOutcome(%v) = %q, want %q", tc.err, got, tc.want)
			}
		})
	}
}
