package pipeline

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/job-hunt-assistant/internal/agents"
)

// Result is the outcome of one pipeline run.
type Result struct {
	RunID           uuid.UUID
	JobTitle        string
	Agency          string
	State           State
	Rejected        bool
	Message         string
	Stages          []agents.Output // raw stage outputs, in run order
	Fields          ExtractedFields
	CoverLetterPath string
	Warnings        []string

	stored bool
}

// stageHeadings titles each stage section in String.
var stageHeadings = map[string]string{
	agents.StageAnalysis:  "Job Analysis",
	agents.StageTailoring: "Resume & Cover Letter",
	agents.StageOutreach:  "Outreach Message",
}

// Output returns the raw output of the named stage, or "".
func (r *Result) Output(stage string) string {
	for _, out := range r.Stages {
		if out.Stage == stage {
			return out.Raw
		}
	}
	return ""
}

// String returns the rejection message, or the raw output of the last stage (the
// outreach message) unchanged.
func (r *Result) String() string {
	if r.Rejected {
		return r.Message
	}
	if len(r.Stages) == 0 {
		return ""
	}
	return r.Stages[len(r.Stages)-1].Raw
}

// Combined returns every stage output as a markdown section, in run order.
// A rejected result yields the rejection message.
func (r *Result) Combined() string {
	if r.Rejected {
		return r.Message
	}

	var sb strings.Builder
	for i, out := range r.Stages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		heading := stageHeadings[out.Stage]
		if heading == "" {
			heading = out.Stage
		}
		sb.WriteString("## ")
		sb.WriteString(heading)
		sb.WriteString("\n\n")
		sb.WriteString(strings.TrimSpace(out.Raw))
	}
	return sb.String()
}
