package model

import (
	"time"

	"github.com/rs/xid"
)

type TaskID string

func NewTaskID() TaskID {
	return TaskID(xid.New().String())
}

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
)

// Terminal reports whether the status ends the task lifecycle.
// Terminal tasks are never candidates for a deadline notification.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusDone
}

type Task struct {
	ID      TaskID
	Title   string
	Status  TaskStatus
	DueDate time.Time

	Project Project

	// Assignees holds profile identifiers, in the order they were assigned.
	Assignees []ProfileID

	Notified bool
}
