package tracking

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestLogApplication_CreatesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "applications_log.csv")
	log := &ApplicationLog{Path: path, Now: fixedNow}

	require.NoError(t, log.LogApplication("Data Analyst", "Dept of Labor", "Tailored summary"))

	rows := readRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, LogHeader, rows[0])
	assert.Equal(t, []string{"Data Analyst", "Dept of Labor", "Tailored summary", "20260314_092653"}, rows[1])

	require.NoError(t, log.LogApplication("Engineer", "NASA", "Second"))

	rows = readRows(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, LogHeader, rows[0])
	assert.Equal(t, "Engineer", rows[2][0])
}

func TestLogApplication_TrimsAndTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	log := &ApplicationLog{Path: path, Now: fixedNow}

	long := "  " + strings.Repeat("é", 200) + "  "
	require.NoError(t, log.LogApplication("  Title  ", "\tAgency\n", long))

	rows := readRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "Title", rows[1][0])
	assert.Equal(t, "Agency", rows[1][1])
	assert.Equal(t, strings.Repeat("é", 150), rows[1][2])
}

func TestLogApplication_QuotesCommas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	log := &ApplicationLog{Path: path, Now: fixedNow}

	require.NoError(t, log.LogApplication("Analyst, Senior", "Agency", "line one\nline two"))

	rows := readRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "Analyst, Senior", rows[1][0])
	assert.Equal(t, "line one\nline two", rows[1][2])
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "Data_Analyst_II", Sanitize("Data/Analyst:II"))
	assert.Equal(t, "Dept_of_Labor_", Sanitize("Dept<of>Labor"))
	assert.Equal(t, "_________", Sanitize(`\/*?:"<>|`))
	assert.Equal(t, "plain name", Sanitize("  plain name "))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "Data_Analyst_II_Dept_of_Labor_", BaseName("Data/Analyst:II", "Dept<of>Labor"))
	assert.Equal(t, "Title", BaseName("Title", "   "))
	assert.Equal(t, "cover_letter", BaseName("", ""))
	assert.Equal(t, "_Agency", BaseName("", "Agency"))
}

func TestCoverLetterFilename(t *testing.T) {
	name := CoverLetterFilename("Data/Analyst:II", "Dept<of>Labor", fixedTime)
	assert.Equal(t, "Data_Analyst_II_Dept_of_Labor__20260314_092653.txt", name)
}

func TestSaveCoverLetter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cover_letters")
	store := &CoverLetterStore{Dir: dir, Now: fixedNow}

	path, err := store.SaveCoverLetter("Data Analyst", "Dept of Labor", "Dear Hiring Manager,...")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Data Analyst_Dept of Labor_20260314_092653.txt"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Dear Hiring Manager,...", string(content))
}

func TestSaveCoverLetter_EmptyText(t *testing.T) {
	store := &CoverLetterStore{Dir: t.TempDir(), Now: fixedNow}

	path, err := store.SaveCoverLetter("Title", "", "")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "Title_20260314_092653.txt"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, content)
}
