// Package prompts provides a loader for the embedded stage prompt definitions.
// Each definition carries the agent persona and a template with {{.Key}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// Prompt describes one stage prompt.
type Prompt struct {
	Role           string `json:"role"`
	Goal           string `json:"goal"`
	Backstory      string `json:"backstory"`
	Template       string `json:"template"`
	ExpectedOutput string `json:"expected_output"`
}

var (
	cache   = make(map[string]map[string]Prompt)
	cacheMu sync.RWMutex
)

// Get retrieves a prompt by filename and key.
// The filename should not include the path (e.g., "stages.json").
func Get(filename, key string) (Prompt, error) {
	prompts, err := loadFile(filename)
	if err != nil {
		return Prompt{}, err
	}

	prompt, exists := prompts[key]
	if !exists {
		return Prompt{}, fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	if prompt.Template == "" {
		return Prompt{}, fmt.Errorf("prompt %q in %s has an empty template", key, filename)
	}

	return prompt, nil
}

// Render fills the prompt template with data and appends the expected output criteria.
func (p Prompt) Render(data map[string]string) string {
	text := Format(p.Template, data)
	if p.ExpectedOutput == "" {
		return text
	}
	return strings.TrimRight(text, "\n") +
		"\n\nThis is the expected criteria for your final answer: " + p.ExpectedOutput +
		"\nYou MUST return the actual complete content as the final answer, not a summary."
}

// System returns the persona sent as the model's system instruction, or "" when the
// prompt defines none.
func (p Prompt) System() string {
	var parts []string
	if p.Role != "" {
		parts = append(parts, "You are "+p.Role+".")
	}
	if p.Backstory != "" {
		parts = append(parts, p.Backstory)
	}
	if p.Goal != "" {
		parts = append(parts, "Your personal goal is: "+p.Goal)
	}
	return strings.Join(parts, "\n")
}

// Format replaces placeholders in the form {{.Key}} with values from data.
// Values are inserted verbatim; placeholders inside inserted values are not expanded.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// clearCache drops loaded prompt files.
func clearCache() {
	cacheMu.Lock()
	cache = make(map[string]map[string]Prompt)
	cacheMu.Unlock()
}

func loadFile(filename string) (map[string]Prompt, error) {
	cacheMu.RLock()
	if prompts, exists := cache[filename]; exists {
		cacheMu.RUnlock()
		return prompts, nil
	}
	cacheMu.RUnlock()

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var prompts map[string]Prompt
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	cacheMu.Lock()
	cache[filename] = prompts
	cacheMu.Unlock()

	return prompts, nil
}
