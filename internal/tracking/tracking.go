// Package tracking persists pipeline results to local files: an append-only CSV
// application log and one text file per cover letter.
package tracking

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout is the YYYYMMDD_HHMMSS layout used in the log and in file names.
const TimestampLayout = "20060102_150405"

// MaxSummaryLength is the number of characters of the resume summary kept in the log.
const MaxSummaryLength = 150

// Default locations, relative to the data directory.
const (
	DefaultLogFile        = "applications_log.csv"
	DefaultCoverLetterDir = "cover_letters"
)

// LogHeader is written once when the log file is created.
var LogHeader = []string{"Job Title", "Agency", "ResumeSummary", "DateApplied"}

// ApplicationLog appends one row per application to a CSV file.
type ApplicationLog struct {
	Path string
	Now  func() time.Time
}

// NewApplicationLog returns a log writing to path.
func NewApplicationLog(path string) *ApplicationLog {
	return &ApplicationLog{Path: path, Now: time.Now}
}

// LogApplication appends a row, creating the file with a header row if needed.
func (l *ApplicationLog) LogApplication(jobTitle, agency, resumeSummary string) error {
	if dir := filepath.Dir(l.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	_, statErr := os.Stat(l.Path)
	exists := statErr == nil

	f, err := os.OpenFile(l.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open application log: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if !exists {
		if err := w.Write(LogHeader); err != nil {
			return fmt.Errorf("failed to write log header: %w", err)
		}
	}
	row := []string{
		strings.TrimSpace(jobTitle),
		strings.TrimSpace(agency),
		truncate(strings.TrimSpace(resumeSummary), MaxSummaryLength),
		now(l.Now).Format(TimestampLayout),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to write log row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush application log: %w", err)
	}
	return nil
}

// CoverLetterStore writes cover letters into Dir.
type CoverLetterStore struct {
	Dir string
	Now func() time.Time
}

// NewCoverLetterStore returns a store writing into dir.
func NewCoverLetterStore(dir string) *CoverLetterStore {
	return &CoverLetterStore{Dir: dir, Now: time.Now}
}

// SaveCoverLetter writes text to {title}_{agency}_{timestamp}.txt and returns the path.
func (s *CoverLetterStore) SaveCoverLetter(jobTitle, agency, text string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cover letter directory: %w", err)
	}

	path := filepath.Join(s.Dir, CoverLetterFilename(jobTitle, agency, now(s.Now)))
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("failed to write cover letter: %w", err)
	}
	return path, nil
}

// CoverLetterFilename builds the file name for a cover letter.
// The agency segment is omitted when blank; "cover_letter" is used when both are blank.
func CoverLetterFilename(jobTitle, agency string, at time.Time) string {
	return BaseName(jobTitle, agency) + "_" + at.Format(TimestampLayout) + ".txt"
}

// BaseName joins the sanitized title and agency.
func BaseName(jobTitle, agency string) string {
	title := Sanitize(jobTitle)
	ag := Sanitize(agency)

	base := title
	if ag != "" {
		base = title + "_" + ag
	}
	if base == "" {
		base = "cover_letter"
	}
	return base
}

var unsafeChars = strings.NewReplacer(
	`\`, "_", "/", "_", "*", "_", "?", "_", ":", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// Sanitize trims s and replaces each of \/*?:"<>| with an underscore.
func Sanitize(s string) string {
	return unsafeChars.Replace(strings.TrimSpace(s))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func now(fn func() time.Time) time.Time {
	if fn == nil {
		return time.Now()
	}
	return fn()
}
