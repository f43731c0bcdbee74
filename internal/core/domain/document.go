package domain

import (
	"encoding/json"
	"time"
)

// Document is a meeting document as listed by the Granola API.
// It is immutable once fetched within a run.
type Document struct {
	// ID is the opaque, API-assigned document identifier.
	ID string `json:"id"`

	// Title is the meeting title. May be empty for untitled meetings.
	Title string `json:"title"`

	// CreatedAt is the raw creation timestamp as sent by the API
	// (ISO-8601). Kept as a string because malformed timestamps must
	// not drop the document; parsing happens where a time is needed.
	CreatedAt string `json:"created_at"`

	// People lists meeting attendees.
	People []Attendee `json:"people,omitempty"`

	// LastViewedPanel carries the rich-text notes tree, when the
	// listing was requested with include_last_viewed_panel.
	LastViewedPanel json.RawMessage `json:"last_viewed_panel,omitempty"`

	// Raw is the passthrough of vendor fields this tool does not model.
	Raw map[string]json.RawMessage `json:"-"`
}

// Attendee is a meeting participant.
type Attendee struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// CreatedTime parses CreatedAt. The boolean is false when the
// timestamp is absent or unparseable; callers fail open in that case.
func (d *Document) CreatedTime() (time.Time, bool) {
	if d.CreatedAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, d.CreatedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DisplayTitle returns the title, or a placeholder for untitled meetings.
func (d *Document) DisplayTitle() string {
	if d.Title == "" {
		return "Untitled Meeting"
	}
	return d.Title
}
