// Package markers extracts marker-delimited sections from free-text model output.
package markers

import "strings"

// Markers emitted by the tailoring stage.
const (
	ResumeSummaryMarker = "<<RESUME_SUMMARY>>"
	CoverLetterMarker   = "<<COVER_LETTER>>"
	EndMarker           = "<<END>>"
)

// ExtractBetween returns the trimmed text between the first occurrence of start and
// the first occurrence of end. An empty end means "to the end of text".
// A missing start, or a non-empty end that cannot be found after start, yields "".
func ExtractBetween(text, start, end string) string {
	i := strings.Index(text, start)
	if i < 0 {
		return ""
	}
	from := i + len(start)
	if end == "" {
		return strings.TrimSpace(text[from:])
	}

	j := strings.Index(text, end)
	if j < from {
		// not found, or found before the start marker ends
		return ""
	}
	return strings.TrimSpace(text[from:j])
}
