package domain

import (
	"encoding/json"
	"time"
)

// PayloadSource identifies this tool in outbound payloads.
const PayloadSource = "granola"

// Payload is the normalised record posted to the webhook for one
// document. It is derived per run and never persisted.
type Payload struct {
	// Source is always PayloadSource.
	Source string `json:"source"`

	// DocumentID is the vendor document ID.
	DocumentID string `json:"document_id"`

	// Title is the meeting title.
	Title string `json:"title"`

	// CreatedAt is the raw vendor creation timestamp.
	CreatedAt string `json:"created_at"`

	// Transcript is the rendered plain-text transcript.
	Transcript string `json:"transcript"`

	// Notes is the plain text extracted from the notes tree.
	Notes string `json:"notes"`

	// Attendees lists attendee e-mail addresses (names where no e-mail
	// is known).
	Attendees []string `json:"attendees,omitempty"`

	// Customer and MeetingType carry the heuristic classification.
	// Customer is empty when no external organisation was inferred;
	// MeetingType is empty when classification was not attempted.
	Customer    string `json:"customer,omitempty"`
	MeetingType string `json:"meeting_type,omitempty"`

	// RawTranscript and RawNotes are the untouched vendor structures,
	// included so the receiver can reprocess them.
	RawTranscript json.RawMessage `json:"raw_transcript,omitempty"`
	RawNotes      json.RawMessage `json:"raw_notes,omitempty"`

	// SyncedAt is when this payload was built.
	SyncedAt time.Time `json:"synced_at"`

	// SyncRunID groups all payloads produced by one sync run.
	SyncRunID string `json:"sync_run_id"`
}
