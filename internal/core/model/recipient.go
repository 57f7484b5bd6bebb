package model

import "github.com/rs/xid"

type ProfileID string

func NewProfileID() ProfileID {
	return ProfileID(xid.New().String())
}

// Recipient is a profile as seen by the notification channel.
type Recipient struct {
	ID          ProfileID
	DisplayName string
	// MentionToken is the identifier of the profile on the external chat
	// platform. Empty when the profile never linked an account.
	MentionToken string
}

// Handle is a resolved, displayable reference to a recipient.
type Handle struct {
	Label string
	// Mention is true when Label pings the recipient on the external channel.
	Mention bool
}
