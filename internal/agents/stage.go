// Package agents defines the language-model stages run by the pipeline:
// job analysis, resume/cover-letter tailoring and outreach drafting.
package agents

import (
	"context"
	"fmt"

	"github.com/jonathan/job-hunt-assistant/internal/llm"
	"github.com/jonathan/job-hunt-assistant/internal/prompts"
)

const promptFile = "stages.json"

// Stage names
const (
	StageAnalysis  = "analysis"
	StageTailoring = "tailoring"
	StageOutreach  = "outreach"
)

// Request is the input shared by all stages. Each stage reads only the fields it needs.
type Request struct {
	JobSummary string
	ResumeText string
	AgencyName string
	UserBio    string
}

// Output is the raw completion produced by one stage.
type Output struct {
	Stage string `json:"stage"`
	Model string `json:"model"`
	Raw   string `json:"raw"`
}

// Stage is one prompt template bound to a model.
type Stage struct {
	Name        string
	PromptKey   string
	Model       string
	Temperature *float32
	inputs      func(Request) map[string]string
}

// Prompt returns the stage's prompt definition.
func (s Stage) Prompt() (prompts.Prompt, error) {
	return prompts.Get(promptFile, s.PromptKey)
}

// BuildPrompt renders the stage template for req.
func (s Stage) BuildPrompt(req Request) (string, error) {
	_, text, err := s.render(req)
	return text, err
}

func (s Stage) render(req Request) (prompts.Prompt, string, error) {
	if s.inputs == nil {
		return prompts.Prompt{}, "", fmt.Errorf("stage %q has no prompt inputs", s.Name)
	}
	p, err := s.Prompt()
	if err != nil {
		return prompts.Prompt{}, "", err
	}
	return p, p.Render(s.inputs(req)), nil
}

// Run renders the prompt and performs a single generation call with the stage persona
// as the system instruction. The completion is returned unchanged.
func (s Stage) Run(ctx context.Context, client llm.Client, req Request) (*Output, error) {
	p, prompt, err := s.render(req)
	if err != nil {
		return nil, err
	}

	text, err := client.GenerateContent(ctx, llm.Request{
		Model:       s.Model,
		Temperature: s.Temperature,
		System:      p.System(),
		Prompt:      prompt,
	})
	if err != nil {
		return nil, &StageError{Stage: s.Name, Model: s.Model, Cause: err}
	}

	return &Output{Stage: s.Name, Model: s.Model, Raw: text}, nil
}

// Analysis breaks a job description into responsibilities, skills and qualifications.
func Analysis() Stage {
	return Stage{
		Name:      StageAnalysis,
		PromptKey: "analyze-job",
		Model:     llm.ModelFlash,
		inputs: func(r Request) map[string]string {
			return map[string]string{"JobDescription": r.JobSummary}
		},
	}
}

// Tailoring writes a resume summary and cover letter separated by markers.
func Tailoring() Stage {
	return Stage{
		Name:        StageTailoring,
		PromptKey:   "tailor-resume",
		Model:       llm.ModelFlash,
		Temperature: llm.Temperature(0.6),
		inputs: func(r Request) map[string]string {
			return map[string]string{
				"JobSummary": r.JobSummary,
				"ResumeText": r.ResumeText,
			}
		},
	}
}

// Outreach drafts a short message to a recruiter or hiring manager.
func Outreach() Stage {
	return Stage{
		Name:        StageOutreach,
		PromptKey:   "draft-outreach",
		Model:       llm.ModelFlash25,
		Temperature: llm.Temperature(0.5),
		inputs: func(r Request) map[string]string {
			return map[string]string{
				"JobSummary": r.JobSummary,
				"AgencyName": r.AgencyName,
				"UserBio":    r.UserBio,
			}
		},
	}
}

// Models overrides per-stage model names; empty values keep the defaults.
type Models struct {
	Analysis  string
	Tailoring string
	Outreach  string
}

// Default returns the stages in pipeline order: analysis, tailoring, outreach.
func Default(models Models) []Stage {
	stages := []Stage{Analysis(), Tailoring(), Outreach()}
	overrides := []string{models.Analysis, models.Tailoring, models.Outreach}
	for i, m := range overrides {
		if m != "" {
			stages[i].Model = m
		}
	}
	return stages
}
