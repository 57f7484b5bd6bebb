package dispatch

import (
	"time"

	"github.com/bornholm/montage/internal/core/port"
)

const DefaultHorizon = 24 * time.Hour

// Window is the half-open interval [From, To) of due dates qualifying a task
// for a deadline notification.
//
// The lower bound is the invocation instant: overdue tasks are not
// notified by the dispatcher.
type Window struct {
	From time.Time
	To   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

func (w Window) Query() port.CandidateQuery {
	return port.CandidateQuery{
		DueFrom:   w.From,
		DueBefore: w.To,
	}
}

func NewWindow(now time.Time, horizon time.Duration) Window {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}

	return Window{
		From: now,
		To:   now.Add(horizon),
	}
}
