package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.0-flash", config.DefaultModel)
}

func TestResolveModel(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "gemini-2.5-flash", config.ResolveModel(ModelFlash25))
	assert.Equal(t, "gemini-2.0-flash", config.ResolveModel(""))

	empty := &Config{Provider: ProviderGemini}
	assert.Equal(t, "", empty.ResolveModel(""))
}

func TestTemperature(t *testing.T) {
	temp := Temperature(0.6)
	if assert.NotNil(t, temp) {
		assert.InDelta(t, 0.6, *temp, 1e-6)
	}
}
