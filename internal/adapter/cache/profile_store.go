package cache

import (
	"context"
	"time"

	"github.com/bornholm/montage/internal/core/model"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
)

type cachedRecipient struct {
	recipient model.Recipient
	// exists is false for an identifier unknown to the backend
	exists bool
}

type ProfileStore struct {
	backend port.ProfileStore
	cache   *expirable.LRU[model.ProfileID, cachedRecipient]
}

// FindRecipients implements [port.RecipientDirectory].
func (s *ProfileStore) FindRecipients(ctx context.Context, ids ...model.ProfileID) ([]model.Recipient, error) {
	recipients := make([]model.Recipient, 0, len(ids))
	missing := make([]model.ProfileID, 0)

	for _, id := range ids {
		cached, exists := s.cache.Get(id)
		if !exists {
			missing = append(missing, id)
			continue
		}

		if cached.exists {
			recipients = append(recipients, cached.recipient)
		}
	}

	if len(missing) == 0 {
		return recipients, nil
	}

	found, err := s.backend.FindRecipients(ctx, missing...)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	known := make(map[model.ProfileID]struct{}, len(found))
	for _, r := range found {
		known[r.ID] = struct{}{}
		s.cache.Add(r.ID, cachedRecipient{recipient: r, exists: true})
		recipients = append(recipients, r)
	}

	for _, id := range missing {
		if _, exists := known[id]; exists {
			continue
		}
		s.cache.Add(id, cachedRecipient{exists: false})
	}

	return recipients, nil
}

// SaveProfile implements [port.ProfileStore].
func (s *ProfileStore) SaveProfile(ctx context.Context, recipient model.Recipient) error {
	defer s.cache.Remove(recipient.ID)

	return s.backend.SaveProfile(ctx, recipient)
}

// DeleteProfile implements [port.ProfileStore].
func (s *ProfileStore) DeleteProfile(ctx context.Context, id model.ProfileID) error {
	defer s.cache.Remove(id)

	return s.backend.DeleteProfile(ctx, id)
}

func NewProfileStore(backend port.ProfileStore, size int, ttl time.Duration) *ProfileStore {
	return &ProfileStore{
		backend: backend,
		cache:   expirable.NewLRU[model.ProfileID, cachedRecipient](size, nil, ttl),
	}
}

var _ port.ProfileStore = &ProfileStore{}
