// Package pipeline runs the three language-model stages for one selected job and
// hands the extracted results to the persistence collaborators.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/job-hunt-assistant/internal/agents"
	"github.com/jonathan/job-hunt-assistant/internal/db"
	"github.com/jonathan/job-hunt-assistant/internal/llm"
	"github.com/jonathan/job-hunt-assistant/internal/markers"
	"github.com/jonathan/job-hunt-assistant/internal/usajobs"
)

// RejectionMessage is returned when a job record has no job summary.
const RejectionMessage = "❌ Job summary not found."

// State is a pipeline lifecycle state.
type State string

// Pipeline states. Rejected, Completed and CompletedWithError are terminal.
const (
	StateIdle               State = "idle"
	StateValidating         State = "validating"
	StateRunning            State = "running"
	StateRejected           State = "rejected"
	StateCompleted          State = "completed"
	StateCompletedWithError State = "completed_with_error"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	RunID   string `json:"run_id"`
	State   State  `json:"state"`
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// ApplicationLogger records one application per successful run.
type ApplicationLogger interface {
	LogApplication(jobTitle, agency, resumeSummary string) error
}

// CoverLetterWriter stores the extracted cover letter.
type CoverLetterWriter interface {
	SaveCoverLetter(jobTitle, agency, text string) (string, error)
}

// RunStore mirrors runs and stage outputs to a database. *db.DB implements it.
type RunStore interface {
	CreateRun(ctx context.Context, runID uuid.UUID, jobID, jobTitle, agency string) error
	SaveTextArtifact(ctx context.Context, runID uuid.UUID, step, text string) error
	SaveArtifact(ctx context.Context, runID uuid.UUID, step string, content any) error
	CompleteRun(ctx context.Context, runID uuid.UUID, status, errMsg string) error
}

// Options configures a Runner. ApplicationLog and CoverLetters are required.
type Options struct {
	Stages         []agents.Stage // defaults to agents.Default
	ApplicationLog ApplicationLogger
	CoverLetters   CoverLetterWriter
	Store          RunStore // optional
	OnProgress     ProgressCallback
	Out            io.Writer   // step lines; defaults to io.Discard
	Logger         *log.Logger // warnings; defaults to log.Default()
}

// Runner executes the pipeline. The LLM client is owned by the caller and shared
// across runs.
type Runner struct {
	client llm.Client
	opts   Options
}

// NewRunner creates a runner around an already constructed client.
func NewRunner(client llm.Client, opts Options) (*Runner, error) {
	if client == nil {
		return nil, fmt.Errorf("LLM client is required")
	}
	if opts.ApplicationLog == nil || opts.CoverLetters == nil {
		return nil, fmt.Errorf("application log and cover letter writer are required")
	}
	if len(opts.Stages) == 0 {
		opts.Stages = agents.Default(agents.Models{})
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Runner{client: client, opts: opts}, nil
}

// RunPipeline runs the pipeline for one job and returns the result text: the
// rejection message, or the raw outreach output.
func (r *Runner) RunPipeline(ctx context.Context, job *usajobs.JobRecord, resumeText, userBio string) (string, error) {
	result, err := r.Run(ctx, job, resumeText, userBio)
	if err != nil {
		return "", err
	}
	return result.String(), nil
}

// Run validates the job, runs every stage in order, extracts the tailored fields and
// persists them. A job without a summary yields a rejected result and no stage calls.
// A stage error stops the run and is returned with no result. The client's error
// arrives wrapped once in *agents.StageError, so errors.Is and errors.As still match it.
func (r *Runner) Run(ctx context.Context, job *usajobs.JobRecord, resumeText, userBio string) (*Result, error) {
	if job == nil {
		job = &usajobs.JobRecord{}
	}
	result := &Result{
		RunID:    uuid.New(),
		JobTitle: job.Title(),
		Agency:   job.Agency(),
		State:    StateIdle,
	}

	r.transition(result, StateValidating, "", "Validating job record")
	summary := job.Summary()
	if summary == "" {
		result.Rejected = true
		result.Message = RejectionMessage
		r.transition(result, StateRejected, "", RejectionMessage)
		return result, nil
	}

	r.transition(result, StateRunning, "", fmt.Sprintf("Running %d stages for %s", len(r.opts.Stages), result.JobTitle))
	r.startRun(ctx, result, job)

	req := agents.Request{
		JobSummary: summary,
		ResumeText: resumeText,
		AgencyName: result.Agency,
		UserBio:    userBio,
	}

	total := len(r.opts.Stages)
	for i, stage := range r.opts.Stages {
		_, _ = fmt.Fprintf(r.opts.Out, "Step %d/%d: %s (%s)...\n", i+1, total, stepLabel(stage.Name), stage.Model)
		r.emit(result, stage.Name, fmt.Sprintf("Running %s stage", stage.Name))

		out, err := stage.Run(ctx, r.client, req)
		if err != nil {
			r.finishRun(ctx, result, db.StatusFailed, err.Error())
			r.transition(result, StateCompletedWithError, stage.Name, err.Error())
			return nil, err
		}
		result.Stages = append(result.Stages, *out)
		r.saveText(ctx, result, out.Stage, out.Raw)
	}

	result.Fields = ExtractFields(result.Output(agents.StageTailoring))
	r.saveArtifact(ctx, result, db.StepExtractedFields, result.Fields)

	r.persist(result)

	r.finishRun(ctx, result, db.StatusCompleted, "")
	r.transition(result, StateCompleted, "", "Pipeline completed")
	return result, nil
}

var stepLabels = map[string]string{
	agents.StageAnalysis:  "Analyzing job description",
	agents.StageTailoring: "Tailoring resume and cover letter",
	agents.StageOutreach:  "Drafting outreach message",
}

func stepLabel(stage string) string {
	if label, ok := stepLabels[stage]; ok {
		return label
	}
	return "Running " + stage + " stage"
}

// ExtractedFields are the sections carved out of the tailoring stage output.
type ExtractedFields struct {
	ResumeSummary string `json:"resume_summary"`
	CoverLetter   string `json:"cover_letter"`
}

// ExtractFields applies marker extraction to raw tailoring output. The cover letter
// ends at <<END>> only when that marker appears somewhere in the text.
func ExtractFields(raw string) ExtractedFields {
	end := ""
	if strings.Contains(raw, markers.EndMarker) {
		end = markers.EndMarker
	}
	return ExtractedFields{
		ResumeSummary: markers.ExtractBetween(raw, markers.ResumeSummaryMarker, markers.CoverLetterMarker),
		CoverLetter:   markers.ExtractBetween(raw, markers.CoverLetterMarker, end),
	}
}

// persist hands the extracted fields to the collaborators. Failures are warnings.
func (r *Runner) persist(result *Result) {
	if err := r.opts.ApplicationLog.LogApplication(result.JobTitle, result.Agency, result.Fields.ResumeSummary); err != nil {
		r.warn(result, fmt.Sprintf("failed to log application: %v", err))
	}

	path, err := r.opts.CoverLetters.SaveCoverLetter(result.JobTitle, result.Agency, result.Fields.CoverLetter)
	if err != nil {
		r.warn(result, fmt.Sprintf("failed to save cover letter: %v", err))
		return
	}
	result.CoverLetterPath = path
}

func (r *Runner) startRun(ctx context.Context, result *Result, job *usajobs.JobRecord) {
	if r.opts.Store == nil {
		return
	}
	if err := r.opts.Store.CreateRun(ctx, result.RunID, job.ID(), result.JobTitle, result.Agency); err != nil {
		r.warn(result, fmt.Sprintf("failed to create database run: %v", err))
		return
	}
	result.stored = true
	r.saveArtifact(ctx, result, db.StepJobRecord, job)
}

func (r *Runner) finishRun(ctx context.Context, result *Result, status, errMsg string) {
	if !result.stored {
		return
	}
	if err := r.opts.Store.CompleteRun(ctx, result.RunID, status, errMsg); err != nil {
		r.warn(result, fmt.Sprintf("failed to complete database run: %v", err))
	}
}

func (r *Runner) saveText(ctx context.Context, result *Result, step, text string) {
	if !result.stored {
		return
	}
	if err := r.opts.Store.SaveTextArtifact(ctx, result.RunID, step, text); err != nil {
		r.warn(result, fmt.Sprintf("failed to save %s output: %v", step, err))
	}
}

func (r *Runner) saveArtifact(ctx context.Context, result *Result, step string, content any) {
	if !result.stored {
		return
	}
	if err := r.opts.Store.SaveArtifact(ctx, result.RunID, step, content); err != nil {
		r.warn(result, fmt.Sprintf("failed to save %s artifact: %v", step, err))
	}
}

func (r *Runner) warn(result *Result, msg string) {
	result.Warnings = append(result.Warnings, msg)
	r.opts.Logger.Printf("Warning: %s", msg)
}

func (r *Runner) transition(result *Result, state State, stage, message string) {
	result.State = state
	r.emit(result, stage, message)
}

// emit calls the progress callback if configured
func (r *Runner) emit(result *Result, stage, message string) {
	if r.opts.OnProgress != nil {
		r.opts.OnProgress(ProgressEvent{
			RunID:   result.RunID.String(),
			State:   result.State,
			Stage:   stage,
			Message: message,
		})
	}
}
