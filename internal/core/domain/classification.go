package domain

// MeetingType is the heuristic category of a meeting.
type MeetingType string

const (
	// MeetingExternal is a meeting with an identified outside party.
	MeetingExternal MeetingType = "external"
	// MeetingInternal is a meeting with no identified outside party.
	MeetingInternal MeetingType = "internal"
)

// Classification is the best-effort annotation inferred from a
// meeting's title and attendees. It is never required for sync
// correctness.
//
// The zero value means "classification not attempted", which callers
// can distinguish from "classified as internal" via Attempted.
type Classification struct {
	// Customer is the inferred external organisation. Empty when none
	// could be inferred.
	Customer string
	// Type is the inferred meeting type.
	Type MeetingType
	// Attempted is true when classification ran, even if it concluded
	// the meeting is internal.
	Attempted bool
}
