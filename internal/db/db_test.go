package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArtifactStepConstants(t *testing.T) {
	steps := []string{
		StepJobRecord,
		StepAnalysis,
		StepTailoring,
		StepOutreach,
		StepExtractedFields,
	}

	seen := make(map[string]bool)
	for _, step := range steps {
		assert.NotEmpty(t, step, "step constant should not be empty")
		assert.False(t, seen[step], "duplicate step %s", step)
		seen[step] = true
	}
}

func TestRunType(t *testing.T) {
	run := Run{
		JobTitle: "Data Analyst",
		Agency:   "Department of Labor",
		Status:   StatusRunning,
	}

	assert.Equal(t, "Data Analyst", run.JobTitle)
	assert.Equal(t, "running", run.Status)
	assert.Nil(t, run.CompletedAt)
	assert.Nil(t, run.ErrorMessage)
}

func TestSchemaSQL(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS pipeline_runs")
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS artifacts")
	assert.True(t, strings.Contains(schemaSQL, "UNIQUE (run_id, step)"))
}
