package port

import (
	"context"
	"time"

	"github.com/bornholm/montage/internal/core/model"
)

// CandidateQuery selects the tasks due for a deadline notification.
type CandidateQuery struct {
	// DueFrom is inclusive.
	DueFrom time.Time
	// DueBefore is exclusive.
	DueBefore time.Time
}

type CandidateStore interface {
	// QueryCandidates returns the non terminal, not yet notified tasks due
	// within the query window, with their project title. It performs a single
	// read and does not lock rows.
	QueryCandidates(ctx context.Context, query CandidateQuery) ([]model.Task, error)
}

type NotificationLedger interface {
	// MarkNotified flags the task as notified. A task that no longer exists
	// is not an error.
	MarkNotified(ctx context.Context, id model.TaskID) error
}

type TaskStore interface {
	CandidateStore
	NotificationLedger

	CreateProject(ctx context.Context, project model.Project) error
	CreateTask(ctx context.Context, task model.Task) error
	GetTaskByID(ctx context.Context, id model.TaskID) (model.Task, error)
	// RescheduleTask updates the due date of a task and clears its notified
	// flag, making it eligible for a new notification.
	RescheduleTask(ctx context.Context, id model.TaskID, dueDate time.Time) error
	DeleteTask(ctx context.Context, id model.TaskID) error
	CountNotified(ctx context.Context) (int64, error)
}
