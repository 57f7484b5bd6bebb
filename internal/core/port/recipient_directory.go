package port

import (
	"context"

	"github.com/bornholm/montage/internal/core/model"
)

type RecipientDirectory interface {
	// FindRecipients returns the known recipients among the given identifiers.
	// Unknown identifiers are omitted, the result order is unspecified.
	FindRecipients(ctx context.Context, ids ...model.ProfileID) ([]model.Recipient, error)
}

type ProfileStore interface {
	RecipientDirectory

	SaveProfile(ctx context.Context, recipient model.Recipient) error
	DeleteProfile(ctx context.Context, id model.ProfileID) error
}
