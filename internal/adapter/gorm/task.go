package gorm

import (
	"time"

	"github.com/bornholm/montage/internal/core/model"
)

type Project struct {
	ID string `gorm:"primaryKey;autoIncrement:false"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Title string
}

type Task struct {
	ID string `gorm:"primaryKey;autoIncrement:false"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Title  string
	Status string `gorm:"index"`

	// DueAt is the due instant, in unix milliseconds.
	DueAt int64 `gorm:"index"`

	Project   *Project `gorm:"constraint:OnDelete:CASCADE;"`
	ProjectID string   `gorm:"index"`

	Assignees []string `gorm:"serializer:json"`

	Notified bool `gorm:"index"`
}

func fromProject(p model.Project) *Project {
	return &Project{
		ID:    string(p.ID),
		Title: p.Title,
	}
}

func fromTask(t model.Task) *Task {
	assignees := make([]string, 0, len(t.Assignees))
	for _, id := range t.Assignees {
		assignees = append(assignees, string(id))
	}

	return &Task{
		ID:        string(t.ID),
		Title:     t.Title,
		Status:    string(t.Status),
		DueAt:     t.DueDate.UnixMilli(),
		ProjectID: string(t.Project.ID),
		Assignees: assignees,
		Notified:  t.Notified,
	}
}

func toTask(t *Task) model.Task {
	assignees := make([]model.ProfileID, 0, len(t.Assignees))
	for _, id := range t.Assignees {
		assignees = append(assignees, model.ProfileID(id))
	}

	task := model.Task{
		ID:        model.TaskID(t.ID),
		Title:     t.Title,
		Status:    model.TaskStatus(t.Status),
		DueDate:   time.UnixMilli(t.DueAt).UTC(),
		Project:   model.Project{ID: model.ProjectID(t.ProjectID)},
		Assignees: assignees,
		Notified:  t.Notified,
	}

	if t.Project != nil {
		task.Project.Title = t.Project.Title
	}

	return task
}
