// Package transcript renders speaker segments as plain text.
package transcript

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/granola-sync/internal/core/domain"
)

// Render converts segments to readable text, one line per segment:
//
//	[MM:SS] speaker: text
//
// The offset is floored to whole seconds. Segments whose text is empty
// after trimming are skipped entirely rather than rendered as blank
// lines. Segment order is preserved; an empty or nil slice renders as
// the empty string.
func Render(segments []domain.Segment) string {
	if len(segments) == 0 {
		return ""
	}

	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		speaker := seg.Speaker
		if speaker == "" {
			speaker = "Unknown"
		}
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", formatOffset(seg.StartOffsetSeconds), speaker, text))
	}
	return strings.Join(lines, "\n")
}

// formatOffset renders an offset in seconds as MM:SS, floored.
// Offsets beyond an hour keep accumulating minutes (e.g. 75:30).
func formatOffset(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
