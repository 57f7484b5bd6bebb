package discord

import (
	"time"
	"unicode/utf8"

	"github.com/bornholm/montage/internal/core/model"
)

// Discord webhook limits
const (
	maxContentLength     = 2000
	maxTitleLength       = 256
	maxDescriptionLength = 4096
	maxFieldValueLength  = 1024
	maxFooterLength      = 2048
)

const (
	FieldDeadline    = "Deadline"
	FieldResponsible = "Responsible"
	FieldProject     = "Project"
)

type Message struct {
	Username        string           `json:"username,omitempty"`
	AvatarURL       string           `json:"avatar_url,omitempty"`
	Content         string           `json:"content,omitempty"`
	Embeds          []Embed          `json:"embeds"`
	AllowedMentions *AllowedMentions `json:"allowed_mentions,omitempty"`
}

type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

type AllowedMentions struct {
	Parse []string `json:"parse"`
}

func (c *Client) newMessage(payload model.NotificationPayload) *Message {
	embed := Embed{
		Title:       truncate(payload.Title, maxTitleLength),
		Description: truncate(payload.Description, maxDescriptionLength),
		URL:         payload.URL,
		Color:       c.color,
		Fields: []EmbedField{
			{Name: FieldDeadline, Value: truncate(payload.Deadline, maxFieldValueLength), Inline: true},
			{Name: FieldResponsible, Value: truncate(payload.Recipients, maxFieldValueLength), Inline: true},
		},
	}

	if payload.ProjectName != "" {
		embed.Fields = append(embed.Fields, EmbedField{
			Name: FieldProject, Value: truncate(payload.ProjectName, maxFieldValueLength), Inline: true,
		})
	}

	if c.footer != "" {
		embed.Footer = &EmbedFooter{Text: truncate(c.footer, maxFooterLength)}
	}

	if !payload.DueDate.IsZero() {
		embed.Timestamp = payload.DueDate.UTC().Format(time.RFC3339)
	}

	return &Message{
		Username:  c.username,
		AvatarURL: c.avatarURL,
		Content:   truncate(payload.MentionLine, maxContentLength),
		Embeds:    []Embed{embed},
		AllowedMentions: &AllowedMentions{
			Parse: []string{"users"},
		},
	}
}

func truncate(str string, max int) string {
	if utf8.RuneCountInString(str) <= max {
		return str
	}

	runes := []rune(str)

	return string(runes[:max-1]) + "…"
}
