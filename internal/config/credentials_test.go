package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func clearKeys(t *testing.T) {
	t.Helper()
	unsetEnv(t, EnvJobSearchKey)
	unsetEnv(t, EnvGeminiKey)
	unsetEnv(t, EnvGoogleKey)
}

func writeEnv(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0644))
}

func TestLoadCredentials_FromEnvFile(t *testing.T) {
	clearKeys(t)
	dir := t.TempDir()
	writeEnv(t, dir, "USAJOBS_API_KEY=jobs-key\nGEMINI_API_KEY=\"gem-key\"\n")

	creds := LoadCredentials(dir)

	key, ok := creds.JobSearchKey()
	assert.True(t, ok)
	assert.Equal(t, "jobs-key", key)

	modelKey, err := creds.RequireModelKey()
	require.NoError(t, err)
	assert.Equal(t, "gem-key", modelKey)
}

func TestLoadCredentials_EnvironmentWins(t *testing.T) {
	clearKeys(t)
	t.Setenv(EnvGeminiKey, "from-env")
	dir := t.TempDir()
	writeEnv(t, dir, "GEMINI_API_KEY=from-file\n")

	modelKey, err := LoadCredentials(dir).RequireModelKey()
	require.NoError(t, err)
	assert.Equal(t, "from-env", modelKey)
}

func TestLoadCredentials_GoogleKeyFallback(t *testing.T) {
	clearKeys(t)
	t.Setenv(EnvGoogleKey, "  'google-key'  ")

	modelKey, err := LoadCredentials(t.TempDir()).RequireModelKey()
	require.NoError(t, err)
	assert.Equal(t, "google-key", modelKey)
}

func TestLoadCredentials_FirstDirectoryWins(t *testing.T) {
	clearKeys(t)
	first, second := t.TempDir(), t.TempDir()
	writeEnv(t, first, "GEMINI_API_KEY=first\n")
	writeEnv(t, second, "GEMINI_API_KEY=second\nUSAJOBS_API_KEY=second-jobs\n")

	creds := LoadCredentials(first, second)

	modelKey, err := creds.RequireModelKey()
	require.NoError(t, err)
	assert.Equal(t, "first", modelKey)

	jobsKey, ok := creds.JobSearchKey()
	assert.True(t, ok)
	assert.Equal(t, "second-jobs", jobsKey)
}

func TestRequireModelKey_Missing(t *testing.T) {
	clearKeys(t)
	dir := t.TempDir()

	creds := LoadCredentials(dir)
	_, err := creds.RequireModelKey()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{filepath.Join(dir, ".env")}, cfgErr.Locations)
	assert.Contains(t, err.Error(), "Gemini API key is missing.")
	assert.Contains(t, err.Error(), filepath.Join(dir, ".env"))
	assert.Contains(t, err.Error(), "https://aistudio.google.com/apikey")
}

func TestJobSearchKey_Optional(t *testing.T) {
	clearKeys(t)

	key, ok := LoadCredentials(t.TempDir()).JobSearchKey()
	assert.False(t, ok)
	assert.Empty(t, key)
}

func TestLoadManually(t *testing.T) {
	clearKeys(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "odd.env")
	require.NoError(t, os.WriteFile(path, []byte("# comment\r\nGEMINI_API_KEY = 'spaced'\r\nnot a pair\r\n"), 0644))

	loadManually(path)
	assert.Equal(t, "spaced", os.Getenv(EnvGeminiKey))
}

func TestLocations(t *testing.T) {
	clearKeys(t)
	dir := t.TempDir()
	creds := LoadCredentials(dir, dir, "")

	assert.Equal(t, []string{filepath.Join(dir, ".env")}, creds.Locations())

	_, err := creds.RequireModelKey()
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, creds.Locations(), cfgErr.Locations)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "value", normalize(`  "value"  `))
	assert.Equal(t, "value", normalize(`'value'`))
	assert.Equal(t, `"mismatched'`, normalize(`"mismatched'`))
	assert.Equal(t, "", normalize(`""`))
	assert.Equal(t, `"`, normalize(`"`))
}
