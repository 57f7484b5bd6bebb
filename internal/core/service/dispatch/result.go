package dispatch

import (
	"fmt"
	"time"
)

// Result summarizes a dispatcher invocation.
type Result struct {
	DispatchID string
	StartedAt  time.Time
	FinishedAt time.Time

	// Candidates is the number of tasks selected by the candidate query.
	Candidates int
	// Notified is the number of tasks delivered and marked as notified.
	Notified int
	// Failed is the number of candidates left untouched or unmarked.
	Failed int
}

// Empty reports the "no tasks to notify" outcome.
func (r *Result) Empty() bool {
	return r.Candidates == 0
}

func (r *Result) Summary() string {
	if r.Empty() {
		return "no tasks to notify"
	}

	if r.Failed > 0 {
		return fmt.Sprintf("%d task(s) notified, %d failed", r.Notified, r.Failed)
	}

	return fmt.Sprintf("%d task(s) notified", r.Notified)
}
