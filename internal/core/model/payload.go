package model

import "time"

// UnassignedMarker replaces the recipient list of a task without assignees.
const UnassignedMarker = "unassigned"

// NotificationPayload is the channel agnostic content of a deadline
// notification. It is built per task and per invocation, never persisted.
type NotificationPayload struct {
	TaskID      TaskID
	Title       string
	Description string
	ProjectName string
	Deadline    string
	// Recipients is never blank: it falls back to UnassignedMarker.
	Recipients string
	// MentionLine holds the pinging handles only. It may be empty.
	MentionLine string
	URL         string
	DueDate     time.Time
}
