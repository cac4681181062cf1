package components_test

import (
	"strings"
	"testing"

	"github.com/NamanBalaji/debridget/internal/status"
	"github.com/NamanBalaji/debridget/internal/tui/components"
)

func TestProgressBar(t *testing.T) {
	testCases := []struct {
		name           string
		width          int
		percent        float64
		status         status.Status
		expectedFilled int
		expectedEmpty  int
	}{
		{"0 percent", 20, 0.0, status.Downloading, 0, 20},
		{"50 percent", 20, 0.5, status.Cancelled, 10, 10},
		{"100 percent", 20, 1.0, status.Completed, 20, 0},
		{"Negative percent (clamps to 0)", 10, -0.5, status.Error, 0, 10},
		{"Over 100 percent (clamps to 1.0)", 10, 1.5, status.Cancelled, 10, 0},
		{"Zero width", 0, 0.5, status.Downloading, 0, 0},
		{"Odd width, 33 percent", 15, 0.33, status.Downloading, 4, 11},
		{"Unknown status", 10, 0.5, status.Status(42), 5, 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output := components.ProgressBar(tc.width, tc.percent, tc.status)

			gotFilled := strings.Count(output, "█")
			gotEmpty := strings.Count(output, "░")

			if gotFilled != tc.expectedFilled {
				t.Errorf("expected %d filled characters, but got %d", tc.expectedFilled, gotFilled)
			}
			if gotEmpty != tc.expectedEmpty {
				t.Errorf("expected %d empty characters, but got %d", tc.expectedEmpty, gotEmpty)
			}

			if tc.width == 0 && output != "" {
				t.Error("expected empty string for zero width, but got output")
			}
		})
	}
}
