// Package llm provides the text-generation client used by the pipeline stages.
// The client is constructed once by the caller and passed to every stage.
package llm

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Default model identifiers used by the stages
const (
	ModelFlash   = "gemini-2.0-flash"
	ModelFlash25 = "gemini-2.5-flash"
)

// Config holds the client configuration
type Config struct {
	Provider     Provider
	DefaultModel string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider:     ProviderGemini,
		DefaultModel: ModelFlash,
	}
}

// Request is a single generation call.
type Request struct {
	Model       string
	Temperature *float32 // nil leaves the provider default
	System      string   // optional system instruction
	Prompt      string
}

// Temperature returns a pointer to t, for use in Request literals.
func Temperature(t float32) *float32 {
	return &t
}

// ResolveModel returns the request model, falling back to the configured default
func (c *Config) ResolveModel(model string) string {
	if model != "" {
		return model
	}
	return c.DefaultModel
}
