package gorm

import (
	"time"

	"github.com/bornholm/montage/internal/core/model"
)

type Profile struct {
	ID string `gorm:"primaryKey;autoIncrement:false"`

	CreatedAt time.Time
	UpdatedAt time.Time

	DisplayName  string
	MentionToken string `gorm:"index"`
}

func fromRecipient(r model.Recipient) *Profile {
	return &Profile{
		ID:           string(r.ID),
		DisplayName:  r.DisplayName,
		MentionToken: r.MentionToken,
	}
}

func toRecipient(p *Profile) model.Recipient {
	return model.Recipient{
		ID:           model.ProfileID(p.ID),
		DisplayName:  p.DisplayName,
		MentionToken: p.MentionToken,
	}
}
