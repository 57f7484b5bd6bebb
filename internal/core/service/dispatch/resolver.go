package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/bornholm/montage/internal/core/model"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/pkg/errors"
)

const DefaultMentionFormat = "<@%s>"

type Resolver struct {
	directory     port.RecipientDirectory
	mentionFormat string
}

// Resolve maps the given assignees to displayable handles, in assignment
// order. Duplicated and unknown identifiers are skipped.
func (r *Resolver) Resolve(ctx context.Context, assignees []model.ProfileID) ([]model.Handle, error) {
	handles := make([]model.Handle, 0, len(assignees))

	ids := uniqueProfileIDs(assignees)
	if len(ids) == 0 {
		return handles, nil
	}

	recipients, err := r.directory.FindRecipients(ctx, ids...)
	if err != nil {
		return nil, errors.Wrap(err, "could not find recipients")
	}

	byID := make(map[model.ProfileID]model.Recipient, len(recipients))
	for _, recipient := range recipients {
		byID[recipient.ID] = recipient
	}

	for _, id := range ids {
		recipient, exists := byID[id]
		if !exists {
			continue
		}

		handle, ok := r.handle(recipient)
		if !ok {
			continue
		}

		handles = append(handles, handle)
	}

	return handles, nil
}

func (r *Resolver) handle(recipient model.Recipient) (model.Handle, bool) {
	if token := strings.TrimSpace(recipient.MentionToken); token != "" {
		return model.Handle{
			Label:   fmt.Sprintf(r.mentionFormat, token),
			Mention: true,
		}, true
	}

	if name := strings.TrimSpace(recipient.DisplayName); name != "" {
		return model.Handle{Label: name}, true
	}

	return model.Handle{}, false
}

func uniqueProfileIDs(ids []model.ProfileID) []model.ProfileID {
	seen := make(map[model.ProfileID]struct{}, len(ids))
	unique := make([]model.ProfileID, 0, len(ids))

	for _, id := range ids {
		if id == "" {
			continue
		}

		if _, exists := seen[id]; exists {
			continue
		}

		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	return unique
}

func NewResolver(directory port.RecipientDirectory, mentionFormat string) *Resolver {
	if mentionFormat == "" || !strings.Contains(mentionFormat, "%s") {
		mentionFormat = DefaultMentionFormat
	}

	return &Resolver{
		directory:     directory,
		mentionFormat: mentionFormat,
	}
}
