package dispatch

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/bornholm/montage/internal/core/model"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

const (
	DefaultTimezone   = "Europe/Paris"
	DefaultDateLayout = "Mon 02 Jan 2006, 15:04 MST"
)

type FormatterOptions struct {
	BaseURL    string
	Location   *time.Location
	DateLayout string
}

type FormatterOptionFunc func(opts *FormatterOptions)

func WithFormatterBaseURL(baseURL string) FormatterOptionFunc {
	return func(opts *FormatterOptions) {
		opts.BaseURL = baseURL
	}
}

func WithFormatterLocation(location *time.Location) FormatterOptionFunc {
	return func(opts *FormatterOptions) {
		opts.Location = location
	}
}

func WithFormatterDateLayout(layout string) FormatterOptionFunc {
	return func(opts *FormatterOptions) {
		opts.DateLayout = layout
	}
}

func NewFormatterOptions(funcs ...FormatterOptionFunc) *FormatterOptions {
	opts := &FormatterOptions{
		DateLayout: DefaultDateLayout,
	}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

// Formatter builds notification payloads. It performs no I/O.
type Formatter struct {
	baseURL    *url.URL
	location   *time.Location
	dateLayout string
}

func (f *Formatter) Format(task model.Task, handles []model.Handle, now time.Time) model.NotificationPayload {
	projectName := task.Project.Title
	if projectName == "" {
		projectName = string(task.Project.ID)
	}

	return model.NotificationPayload{
		TaskID:      task.ID,
		Title:       task.Title,
		Description: f.description(task, projectName, now),
		ProjectName: projectName,
		Deadline:    f.FormatDeadline(task.DueDate),
		Recipients:  joinRecipients(handles),
		MentionLine: joinMentions(handles),
		URL:         f.projectURL(task.Project.ID),
		DueDate:     task.DueDate,
	}
}

// FormatDeadline renders the due date in the formatter's fixed timezone.
func (f *Formatter) FormatDeadline(dueDate time.Time) string {
	return dueDate.In(f.location).Format(f.dateLayout)
}

func (f *Formatter) description(task model.Task, projectName string, now time.Time) string {
	return fmt.Sprintf(
		"Task of project %s is due %s.",
		projectName, humanize.RelTime(task.DueDate, now, "ago", "from now"),
	)
}

func (f *Formatter) projectURL(projectID model.ProjectID) string {
	if f.baseURL == nil || projectID == "" {
		return ""
	}

	return f.baseURL.JoinPath("projects", string(projectID)).String()
}

func joinRecipients(handles []model.Handle) string {
	if len(handles) == 0 {
		return model.UnassignedMarker
	}

	labels := make([]string, 0, len(handles))
	for _, h := range handles {
		labels = append(labels, h.Label)
	}

	return strings.Join(labels, ", ")
}

func joinMentions(handles []model.Handle) string {
	mentions := make([]string, 0, len(handles))
	for _, h := range handles {
		if !h.Mention {
			continue
		}
		mentions = append(mentions, h.Label)
	}

	return strings.Join(mentions, " ")
}

func NewFormatter(funcs ...FormatterOptionFunc) (*Formatter, error) {
	opts := NewFormatterOptions(funcs...)

	formatter := &Formatter{
		location:   opts.Location,
		dateLayout: opts.DateLayout,
	}

	if formatter.location == nil {
		location, err := time.LoadLocation(DefaultTimezone)
		if err != nil {
			return nil, errors.Wrapf(err, "could not load timezone '%s'", DefaultTimezone)
		}

		formatter.location = location
	}

	if formatter.dateLayout == "" {
		formatter.dateLayout = DefaultDateLayout
	}

	if opts.BaseURL != "" {
		baseURL, err := url.Parse(opts.BaseURL)
		if err != nil {
			return nil, errors.Wrapf(err, "could not parse base url '%s'", opts.BaseURL)
		}

		if baseURL.Scheme == "" || baseURL.Host == "" {
			return nil, errors.Errorf("invalid base url '%s': absolute url expected", opts.BaseURL)
		}

		formatter.baseURL = baseURL
	}

	return formatter, nil
}
