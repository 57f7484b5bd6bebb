package dispatch

import (
	"context"
	"sync"

	"github.com/bornholm/montage/internal/core/model"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/pkg/errors"
)

type fakeStore struct {
	mutex    sync.Mutex
	tasks    []model.Task
	queryErr error
	markErr  map[model.TaskID]error
	queries  int
	writes   int
	onMark   func(ctx context.Context)
}

func (s *fakeStore) QueryCandidates(ctx context.Context, query port.CandidateQuery) ([]model.Task, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.queries++

	if s.queryErr != nil {
		return nil, errors.WithStack(s.queryErr)
	}

	window := Window{From: query.DueFrom, To: query.DueBefore}

	candidates := make([]model.Task, 0)
	for _, t := range s.tasks {
		if t.Notified || t.Status.Terminal() || !window.Contains(t.DueDate) {
			continue
		}
		candidates = append(candidates, t)
	}

	return candidates, nil
}

func (s *fakeStore) MarkNotified(ctx context.Context, id model.TaskID) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.onMark != nil {
		s.onMark(ctx)
	}

	if err, exists := s.markErr[id]; exists {
		return errors.WithStack(err)
	}

	s.writes++

	for i, t := range s.tasks {
		if t.ID != id {
			continue
		}
		s.tasks[i].Notified = true
	}

	return nil
}

func (s *fakeStore) notified() map[model.TaskID]bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	notified := make(map[model.TaskID]bool, len(s.tasks))
	for _, t := range s.tasks {
		notified[t.ID] = t.Notified
	}

	return notified
}

var (
	_ port.CandidateStore     = &fakeStore{}
	_ port.NotificationLedger = &fakeStore{}
)

type fakeDirectory struct {
	recipients map[model.ProfileID]model.Recipient
	err        error
	calls      int
}

func (d *fakeDirectory) FindRecipients(ctx context.Context, ids ...model.ProfileID) ([]model.Recipient, error) {
	d.calls++

	if d.err != nil {
		return nil, errors.WithStack(d.err)
	}

	recipients := make([]model.Recipient, 0, len(ids))
	for _, id := range ids {
		r, exists := d.recipients[id]
		if !exists {
			continue
		}
		recipients = append(recipients, r)
	}

	return recipients, nil
}

var _ port.RecipientDirectory = &fakeDirectory{}

type fakeDeliverer struct {
	mutex     sync.Mutex
	delivered []model.NotificationPayload
	failures  map[model.TaskID]error
	onDeliver func(payload model.NotificationPayload)
}

func (d *fakeDeliverer) Deliver(ctx context.Context, payload model.NotificationPayload) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.onDeliver != nil {
		d.onDeliver(payload)
	}

	if err, exists := d.failures[payload.TaskID]; exists {
		return errors.WithStack(err)
	}

	d.delivered = append(d.delivered, payload)

	return nil
}

func (d *fakeDeliverer) count() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return len(d.delivered)
}

var _ port.Deliverer = &fakeDeliverer{}
