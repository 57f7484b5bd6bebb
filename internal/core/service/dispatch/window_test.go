package dispatch

import (
	"testing"
	"time"
)

func TestWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	window := NewWindow(now, 24*time.Hour)

	type testCase struct {
		Name     string
		DueDate  time.Time
		Expected bool
	}

	testCases := []testCase{
		{Name: "lower bound included", DueDate: now, Expected: true},
		{Name: "in window", DueDate: now.Add(2 * time.Hour), Expected: true},
		{Name: "just before upper bound", DueDate: now.Add(24*time.Hour - time.Millisecond), Expected: true},
		{Name: "upper bound excluded", DueDate: now.Add(24 * time.Hour), Expected: false},
		{Name: "beyond horizon", DueDate: now.Add(30 * time.Hour), Expected: false},
		{Name: "overdue", DueDate: now.Add(-time.Minute), Expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			if e, g := tc.Expected, window.Contains(tc.DueDate); e != g {
				t.Errorf("window.Contains(%v): expected '%v', got '%v'", tc.DueDate, e, g)
			}
		})
	}
}

func TestWindowDefaultHorizon(t *testing.T) {
	now := time.Now()
	window := NewWindow(now, 0)

	if e, g := DefaultHorizon, window.To.Sub(window.From); e != g {
		t.Errorf("window span: expected '%v', got '%v'", e, g)
	}

	query := window.Query()

	if e, g := now, query.DueFrom; !e.Equal(g) {
		t.Errorf("query.DueFrom: expected '%v', got '%v'", e, g)
	}
}
