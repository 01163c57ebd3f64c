package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-hunt-assistant/internal/config"
	"github.com/jonathan/job-hunt-assistant/internal/llm"
	"github.com/jonathan/job-hunt-assistant/internal/observability"
	"github.com/jonathan/job-hunt-assistant/internal/pipeline"
	"github.com/jonathan/job-hunt-assistant/internal/tracking"
	"github.com/jonathan/job-hunt-assistant/internal/usajobs"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		n       int
		want    []int
		wantErr string
	}{
		{name: "empty", input: "", n: 5, want: nil},
		{name: "single", input: "2", n: 5, want: []int{1}},
		{name: "list", input: "1,3", n: 5, want: []int{0, 2}},
		{name: "range", input: "2-4", n: 5, want: []int{1, 2, 3}},
		{name: "mixed with duplicates", input: "3, 1-2 ,2", n: 5, want: []int{0, 1, 2}},
		{name: "all", input: "ALL", n: 3, want: []int{0, 1, 2}},
		{name: "out of range", input: "6", n: 5, wantErr: "out of range"},
		{name: "zero", input: "0", n: 5, wantErr: "out of range"},
		{name: "not a number", input: "x", n: 5, wantErr: "invalid selection"},
		{name: "inverted range", input: "4-2", n: 5, wantErr: "invalid selection range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSelection(tt.input, tt.n)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadResume(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Experienced analyst\n"), 0644))

	text, err := readResume(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "Experienced analyst\n", text)

	text, err = readResume("-", strings.NewReader("from stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", text)

	blank := filepath.Join(dir, "blank.txt")
	require.NoError(t, os.WriteFile(blank, []byte("  \n\t"), 0644))
	_, err = readResume(blank, nil)
	require.Error(t, err)
	assert.Equal(t, "Please enter your resume text.", err.Error())

	_, err = readResume(filepath.Join(dir, "missing.txt"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read resume")
}

func TestDecodeJobRecords(t *testing.T) {
	single := `{"MatchedObjectId":"1","MatchedObjectDescriptor":{"PositionTitle":"Data Analyst","UserArea":{"Details":{"JobSummary":"Analyze"}}}}`

	records, err := decodeJobRecords([]byte(single))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Data Analyst", records[0].Title())
	assert.Equal(t, "Analyze", records[0].Summary())

	records, err = decodeJobRecords([]byte("[" + single + "," + single + "]"))
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = decodeJobRecords([]byte(`{"MatchedObjectId":"1"}`))
	require.Error(t, err)

	_, err = decodeJobRecords([]byte(`not json`))
	require.Error(t, err)
}

type mockClient struct {
	calls int
	fail  map[int]bool
}

func (m *mockClient) GenerateContent(_ context.Context, _ llm.Request) (string, error) {
	m.calls++
	if m.fail[m.calls] {
		return "", errors.New("model unavailable")
	}
	return "<<RESUME_SUMMARY>>S<<COVER_LETTER>>L<<END>>", nil
}

func (m *mockClient) Close() error { return nil }

func newTestSession(t *testing.T, client llm.Client, out io.Writer) *session {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Config{DataDir: dir}
	runner, err := pipeline.NewRunner(client, pipeline.Options{
		ApplicationLog: tracking.NewApplicationLog(cfg.LogPath()),
		CoverLetters:   tracking.NewCoverLetterStore(cfg.CoverLetterPath()),
		Logger:         log.New(io.Discard, "", 0),
	})
	require.NoError(t, err)
	return &session{runner: runner, printer: observability.NewPrinter(out), cfg: cfg}
}

func testJob(title, summary string) usajobs.JobRecord {
	var j usajobs.JobRecord
	j.MatchedObjectDescriptor.PositionTitle = title
	j.MatchedObjectDescriptor.UserArea.Details.JobSummary = summary
	return j
}

func TestRunJobs_ContinuesAfterFailure(t *testing.T) {
	var out bytes.Buffer
	// First job fails on its first stage; the second job runs all three.
	client := &mockClient{fail: map[int]bool{1: true}}
	sess := newTestSession(t, client, &out)

	jobs := []usajobs.JobRecord{
		testJob("First", "summary one"),
		testJob("Second", "summary two"),
		testJob("", ""),
	}
	err := sess.runJobs(context.Background(), &out, jobs, "resume", "bio")
	require.Error(t, err)
	assert.Equal(t, "1 of 3 jobs failed", err.Error())
	assert.Equal(t, 4, client.calls)

	output := out.String()
	assert.Contains(t, output, "model unavailable")
	assert.Contains(t, output, "## 📄 Second")
	assert.Contains(t, output, "<<RESUME_SUMMARY>>S<<COVER_LETTER>>L<<END>>")
	assert.NotContains(t, output, "## Resume & Cover Letter")
	assert.Contains(t, output, "## 📄 Job")
	assert.Contains(t, output, pipeline.RejectionMessage)
}

func TestRunJobs_AllSucceed(t *testing.T) {
	var out bytes.Buffer
	sess := newTestSession(t, &mockClient{}, &out)

	err := sess.runJobs(context.Background(), &out, []usajobs.JobRecord{testJob("Only", "summary")}, "resume", "bio")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Cover letter saved to")

	data, err := os.ReadFile(sess.cfg.LogPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "Only,Government Agency,S,")
}

func TestRunJobs_AllStages(t *testing.T) {
	var out bytes.Buffer
	sess := newTestSession(t, &mockClient{}, &out)
	sess.allStages = true

	err := sess.runJobs(context.Background(), &out, []usajobs.JobRecord{testJob("Only", "summary")}, "resume", "bio")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "## Job Analysis")
	assert.Contains(t, out.String(), "## Resume & Cover Letter")
	assert.Contains(t, out.String(), "## Outreach Message")
}

func TestPromptSelection(t *testing.T) {
	var out bytes.Buffer

	sel, err := promptSelection(strings.NewReader(" 1,3 \nignored\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "1,3", sel)
	assert.Contains(t, out.String(), "Select jobs to apply to")

	sel, err = promptSelection(strings.NewReader("all"), &out)
	require.NoError(t, err)
	assert.Equal(t, "all", sel)

	sel, err = promptSelection(strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Empty(t, sel)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(strings.NewReader("1")))

	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.False(t, isTerminal(f))
}
