package domain

import "encoding/json"

// Segment is one speaker turn within a transcript.
type Segment struct {
	// Speaker is the display name of whoever spoke. May be empty.
	Speaker string `json:"speaker"`
	// Text is the spoken text.
	Text string `json:"text"`
	// StartOffsetSeconds is the segment start relative to the
	// beginning of the meeting.
	StartOffsetSeconds float64 `json:"start_offset_seconds,omitempty"`
}

// Transcript is the ordered sequence of segments for one document.
// A nil Transcript means the document has no transcript yet, which is
// normal for very recent or unrecorded meetings, not an error.
type Transcript struct {
	Segments []Segment `json:"segments"`
}

// UnmarshalJSON accepts both shapes the API has been observed to send:
// a bare array of segments, or an object wrapping a "segments" field.
func (t *Transcript) UnmarshalJSON(data []byte) error {
	var bare []Segment
	if err := json.Unmarshal(data, &bare); err == nil {
		t.Segments = bare
		return nil
	}

	var wrapped struct {
		Segments []Segment `json:"segments"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	t.Segments = wrapped.Segments
	return nil
}
