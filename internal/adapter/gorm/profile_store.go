package gorm

import (
	"context"

	"github.com/bornholm/montage/internal/core/model"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/ncruces/go-sqlite3"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileStore struct {
	getDatabase getDatabaseFunc
}

// FindRecipients implements port.RecipientDirectory.
func (s *ProfileStore) FindRecipients(ctx context.Context, ids ...model.ProfileID) ([]model.Recipient, error) {
	if len(ids) == 0 {
		return []model.Recipient{}, nil
	}

	rawIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		rawIDs = append(rawIDs, string(id))
	}

	var profiles []*Profile

	err := withRetry(ctx, s.getDatabase, func(ctx context.Context, db *gorm.DB) error {
		if err := db.Where("id IN ?", rawIDs).Find(&profiles).Error; err != nil {
			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	recipients := make([]model.Recipient, 0, len(profiles))
	for _, p := range profiles {
		recipients = append(recipients, toRecipient(p))
	}

	return recipients, nil
}

// SaveProfile implements port.ProfileStore.
func (s *ProfileStore) SaveProfile(ctx context.Context, recipient model.Recipient) error {
	err := withRetry(ctx, s.getDatabase, func(ctx context.Context, db *gorm.DB) error {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "mention_token", "updated_at"}),
		}).Create(fromRecipient(recipient)).Error
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

// DeleteProfile implements port.ProfileStore.
func (s *ProfileStore) DeleteProfile(ctx context.Context, id model.ProfileID) error {
	err := withRetry(ctx, s.getDatabase, func(ctx context.Context, db *gorm.DB) error {
		if err := db.Delete(&Profile{}, "id = ?", string(id)).Error; err != nil {
			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func NewProfileStore(db *gorm.DB) *ProfileStore {
	return &ProfileStore{
		getDatabase: createGetDatabase(db, &Profile{}),
	}
}

var _ port.ProfileStore = &ProfileStore{}
