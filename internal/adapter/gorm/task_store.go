package gorm

import (
	"context"
	"time"

	"github.com/bornholm/montage/internal/core/model"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/ncruces/go-sqlite3"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaskStore struct {
	getDatabase getDatabaseFunc
}

// QueryCandidates implements port.CandidateStore.
func (s *TaskStore) QueryCandidates(ctx context.Context, query port.CandidateQuery) ([]model.Task, error) {
	var tasks []*Task

	err := withRetry(ctx, s.getDatabase, func(ctx context.Context, db *gorm.DB) error {
		err := db.Joins("Project").
			Where("tasks.status <> ?", string(model.TaskStatusDone)).
			Where("tasks.notified = ?", false).
			Where("tasks.due_at >= ? AND tasks.due_at < ?", ceilMilli(query.DueFrom), ceilMilli(query.DueBefore)).
			Order("tasks.due_at ASC").
			Find(&tasks).Error
		if err != nil {
			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.BUSY, sqlite3.LOCKED)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	candidates := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		candidates = append(candidates, toTask(t))
	}

	return candidates, nil
}

// ceilMilli rounds t up to the millisecond precision of the due_at column.
func ceilMilli(t time.Time) int64 {
	return t.Add(time.Millisecond - time.Nanosecond).UnixMilli()
}

// MarkNotified implements port.NotificationLedger.
func (s *TaskStore) MarkNotified(ctx context.Context, id model.TaskID) error {
	err := withRetry(ctx, s.getDatabase, func(ctx context.Context, db *gorm.DB) error {
		// A task deleted in the meantime matches no row
		if err := db.Model(&Task{}).Where("id = ?", string(id)).Update("notified", true).Error; err != nil {
			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// CreateProject implements port.TaskStore.
func (s *TaskStore) CreateProject(ctx context.Context, project model.Project) error {
	err := withRetry(ctx, s.getDatabase, func(ctx context.Context, db *gorm.DB) error {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "updated_at"}),
		}).Create(fromProject(project)).Error
		if err != nil {
			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// CreateTask implements port.TaskStore.
func (s *TaskStore) CreateTask(ctx context.Context, task model.Task) error {
	err := withRetry(ctx, s.getDatabase, func(ctx context.Context, db *gorm.DB) error {
		if err := db.Omit(clause.Associations).Create(fromTask(task)).Error; err != nil {
			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// GetTaskByID implements port.TaskStore.
func (s *TaskStore) GetTaskByID(ctx context.Context, id model.TaskID) (model.Task, error) {
	var task Task

	err := withRetry(ctx, s.getDatabase, func(ctx context.Context, db *gorm.DB) error {
		if err := db.Joins("Project").First(&task, "tasks.id = ?", string(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.WithStack(port.ErrNotFound)
			}

			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return model.Task{}, errors.WithStack(err)
	}

	return toTask(&task), nil
}

// RescheduleTask implements port.TaskStore.
func (s *TaskStore) RescheduleTask(ctx context.Context, id model.TaskID, dueDate time.Time) error {
	err := withRetry(ctx, s.getDatabase, func(ctx context.Context, db *gorm.DB) error {
		res := db.Model(&Task{}).Where("id = ?", string(id)).Updates(map[string]any{
			"due_at":   dueDate.UnixMilli(),
			"notified": false,
		})
		if res.Error != nil {
			return errors.WithStack(res.Error)
		}

		if res.RowsAffected == 0 {
			return errors.WithStack(port.ErrNotFound)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// DeleteTask implements port.TaskStore.
func (s *TaskStore) DeleteTask(ctx context.Context, id model.TaskID) error {
	err := withRetry(ctx, s.getDatabase, func(ctx context.Context, db *gorm.DB) error {
		if err := db.Delete(&Task{}, "id = ?", string(id)).Error; err != nil {
			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// CountNotified implements port.TaskStore.
func (s *TaskStore) CountNotified(ctx context.Context) (int64, error) {
	var total int64

	err := withRetry(ctx, s.getDatabase, func(ctx context.Context, db *gorm.DB) error {
		if err := db.Model(&Task{}).Where("notified = ?", true).Count(&total).Error; err != nil {
			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return total, nil
}

func NewTaskStore(db *gorm.DB) *TaskStore {
	return &TaskStore{
		getDatabase: createGetDatabase(db, &Project{}, &Task{}),
	}
}

var _ port.TaskStore = &TaskStore{}
