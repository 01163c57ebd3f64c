package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-hunt-assistant/internal/agents"
	"github.com/jonathan/job-hunt-assistant/internal/config"
	"github.com/jonathan/job-hunt-assistant/internal/db"
	"github.com/jonathan/job-hunt-assistant/internal/llm"
	"github.com/jonathan/job-hunt-assistant/internal/observability"
	"github.com/jonathan/job-hunt-assistant/internal/pipeline"
	"github.com/jonathan/job-hunt-assistant/internal/schemas"
	"github.com/jonathan/job-hunt-assistant/internal/tracking"
	"github.com/jonathan/job-hunt-assistant/internal/usajobs"
)

// Messages shown by the interactive commands.
const (
	msgEmptyResume = "Please enter your resume text."
	msgNoJobs      = "No jobs found for that keyword. Try a different term or leave location blank for nationwide search."
	msgNoSelection = "Please select at least one job."
)

// allStages prints every stage output instead of only the outreach message.
var allStages bool

func registerOutputFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&allStages, "all-stages", false, "Print the analysis and tailoring outputs along with the outreach message")
}

// searchFlags are shared by search and apply.
type searchFlags struct {
	keywords []string
	location string
	limit    int
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.keywords, "keyword", "k", nil, "Job keyword (repeat or comma-separate for several searches)")
	cmd.Flags().StringVarP(&f.location, "location", "l", "", "Location (optional, leave blank for nationwide)")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Results per keyword (max 25, default 10)")
	_ = cmd.MarkFlagRequired("keyword")
}

// loadConfig reads --config when set, applies flag overrides and fills defaults.
func loadConfig(cmd *cobra.Command, search *searchFlags) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
		if verbose {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Loaded config from: %s\n", configPath)
		}
	}

	// Only override if the flag was explicitly set
	if search != nil {
		if cmd.Flags().Changed("location") {
			cfg.Location = search.location
		}
		if cmd.Flags().Changed("limit") {
			cfg.ResultsPerPage = search.limit
		}
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		DataDir:        config.DefaultDataDir,
		ResultsPerPage: usajobs.DefaultResultsPerPage,
		UserAgent:      usajobs.DefaultUserAgent,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
	})
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// searchJobs runs the configured searches and returns the merged records.
func searchJobs(ctx context.Context, cfg config.Config, creds *config.Credentials, keywords []string) ([]usajobs.JobRecord, error) {
	key, _ := creds.JobSearchKey()
	client := usajobs.NewClient(key)
	client.UserAgent = cfg.UserAgent

	params := usajobs.SearchParams{
		Location:       cfg.Location,
		ResultsPerPage: cfg.ResultsPerPage,
	}
	if len(keywords) == 1 {
		params.Keyword = keywords[0]
		return client.Search(ctx, params)
	}
	return client.SearchMany(ctx, keywords, params)
}

// session holds what one pipeline-running command needs.
type session struct {
	runner    *pipeline.Runner
	printer   *observability.Printer
	cfg       config.Config
	allStages bool
	closers   []func()
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// newSession builds the LLM client once and wires the runner to the tracking stores
// and, when a database URL is configured, the run store.
func newSession(ctx context.Context, cfg config.Config, creds *config.Credentials, out io.Writer) (*session, error) {
	apiKey, err := creds.RequireModelKey()
	if err != nil {
		return nil, err
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	s := &session{
		printer:   observability.NewPrinter(out),
		cfg:       cfg,
		allStages: allStages,
		closers:   []func(){func() { _ = client.Close() }},
	}
	if cfg.Verbose {
		_, _ = fmt.Fprintf(out, "Searched for .env in: %s\n", strings.Join(creds.Locations(), ", "))
	}

	opts := pipeline.Options{
		Stages: agents.Default(agents.Models{
			Analysis:  cfg.AnalysisModel,
			Tailoring: cfg.TailoringModel,
			Outreach:  cfg.OutreachModel,
		}),
		ApplicationLog: tracking.NewApplicationLog(cfg.LogPath()),
		CoverLetters:   tracking.NewCoverLetterStore(cfg.CoverLetterPath()),
		Out:            out,
	}

	if cfg.DatabaseURL != "" {
		database, err := connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("Warning: run history disabled: %v", err)
		} else {
			opts.Store = database
			s.closers = append(s.closers, database.Close)
		}
	}

	runner, err := pipeline.NewRunner(client, opts)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.runner = runner
	return s, nil
}

func connectDB(ctx context.Context, url string) (*db.DB, error) {
	database, err := db.Connect(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// runJobs runs the pipeline for each job in order. A failed job is reported and the
// loop continues; the returned error counts the failures.
func (s *session) runJobs(ctx context.Context, out io.Writer, jobs []usajobs.JobRecord, resumeText, userBio string) error {
	failed := 0
	for i := range jobs {
		job := &jobs[i]
		title := job.MatchedObjectDescriptor.PositionTitle

		result, err := s.runner.Run(ctx, job, resumeText, userBio)
		if err != nil {
			failed++
			s.printer.PrintWarning(fmt.Sprintf("Error: %v", err))
			continue
		}

		if s.cfg.Verbose {
			s.printer.PrintResult(title, result)
			continue
		}
		text := result.String()
		if s.allStages {
			text = result.Combined()
		}
		_, _ = fmt.Fprintf(out, "\n## 📄 %s\n\n%s\n", orDefault(title, observability.ResultHeading), text)
		if result.CoverLetterPath != "" {
			_, _ = fmt.Fprintf(out, "\nCover letter saved to %s\n", result.CoverLetterPath)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(jobs))
	}
	return nil
}

// readResume reads resume text from a file, or stdin when path is "-".
// Whitespace-only text is rejected.
func readResume(path string, stdin io.Reader) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read resume: %w", err)
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", errors.New(msgEmptyResume)
	}
	return text, nil
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// promptSelection asks for listing numbers after the listing has been printed.
func promptSelection(in io.Reader, out io.Writer) (string, error) {
	_, _ = fmt.Fprint(out, "Select jobs to apply to (e.g. 1,3 or 2-4 or all; empty to skip): ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read selection: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// parseSelection turns "1,3", "2-4" or "all" into zero-based indices into n listings.
// Indices are de-duplicated and kept in ascending order.
func parseSelection(s string, n int) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.EqualFold(s, "all") {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	seen := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi := part, part
		if a, b, ok := strings.Cut(part, "-"); ok {
			lo, hi = strings.TrimSpace(a), strings.TrimSpace(b)
		}
		from, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("invalid selection %q", part)
		}
		to, err := strconv.Atoi(hi)
		if err != nil {
			return nil, fmt.Errorf("invalid selection %q", part)
		}
		if from > to {
			return nil, fmt.Errorf("invalid selection range %q", part)
		}
		if from < 1 || to > n {
			return nil, fmt.Errorf("selection %q out of range (1-%d)", part, n)
		}
		for i := from; i <= to; i++ {
			seen[i-1] = true
		}
	}

	indices := make([]int, 0, len(seen))
	for i := range seen {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices, nil
}

// decodeJobRecords validates data against the job record schema and decodes either a
// single record or an array of records.
func decodeJobRecords(data []byte) ([]usajobs.JobRecord, error) {
	if err := schemas.ValidateJobRecords(data); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var records []usajobs.JobRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to parse job records: %w", err)
		}
		return records, nil
	}

	var record usajobs.JobRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse job record: %w", err)
	}
	return []usajobs.JobRecord{record}, nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
