package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvJobSearchKey = "USAJOBS_API_KEY"
	EnvGeminiKey    = "GEMINI_API_KEY"
	EnvGoogleKey    = "GOOGLE_API_KEY"
)

// ConfigError reports a missing required credential.
type ConfigError struct {
	Key       string
	Locations []string // .env files that were searched
}

func (e *ConfigError) Error() string {
	locs := "(unknown)"
	if len(e.Locations) > 0 {
		locs = strings.Join(e.Locations, "; ")
	}
	return "Gemini API key is missing.\n\n" +
		"• Put " + e.Key + "=your_key in a .env file (one variable per line, no spaces around =).\n" +
		"• App looked for .env here: " + locs + "\n" +
		"• Get a key: https://aistudio.google.com/apikey"
}

// Credentials holds the API keys resolved from the environment and .env files.
type Credentials struct {
	jobSearchKey string
	modelKey     string
	locations    []string
}

// LoadCredentials loads .env from each directory (skipping missing files), then reads
// the keys from the environment. Variables already set in the environment win.
// With no directories, the executable's directory, the working directory and its
// parent are searched.
func LoadCredentials(dirs ...string) *Credentials {
	if len(dirs) == 0 {
		dirs = DefaultEnvDirs()
	}

	var locations []string
	seen := make(map[string]bool)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, ".env")
		if seen[path] {
			continue
		}
		seen[path] = true
		locations = append(locations, path)

		if info, err := os.Stat(path); err != nil || info.IsDir() {
			continue
		}
		// godotenv.Load never overrides variables that are already set
		if err := godotenv.Load(path); err != nil {
			loadManually(path)
		}
	}

	return &Credentials{
		jobSearchKey: normalizeEnv(EnvJobSearchKey),
		modelKey:     firstNonEmpty(normalizeEnv(EnvGeminiKey), normalizeEnv(EnvGoogleKey)),
		locations:    locations,
	}
}

// JobSearchKey returns the USAJOBS key, if any.
func (c *Credentials) JobSearchKey() (string, bool) {
	return c.jobSearchKey, c.jobSearchKey != ""
}

// RequireModelKey returns the Gemini key or a *ConfigError naming the searched locations.
func (c *Credentials) RequireModelKey() (string, error) {
	if c.modelKey == "" {
		return "", &ConfigError{Key: EnvGeminiKey, Locations: c.locations}
	}
	return c.modelKey, nil
}

// Locations returns the .env paths that were searched.
func (c *Credentials) Locations() []string {
	return c.locations
}

// DefaultEnvDirs returns the executable's directory, the working directory and its parent.
func DefaultEnvDirs() []string {
	var dirs []string
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd, filepath.Dir(cwd))
	}
	return dirs
}

// loadManually is the fallback for files godotenv rejects: it reads simple KEY=VALUE
// lines, skipping comments and anything it cannot parse.
func loadManually(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(strings.ReplaceAll(line, "\r", ""))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), normalize(v)
		if k == "" || v == "" || os.Getenv(k) != "" {
			continue
		}
		_ = os.Setenv(k, v)
	}
}

func normalizeEnv(key string) string {
	return normalize(os.Getenv(key))
}

// normalize trims whitespace and one pair of matching surrounding quotes.
func normalize(v string) string {
	s := strings.TrimSpace(v)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
