package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-hunt-assistant/internal/db"
)

var historyCommand = &cobra.Command{
	Use:   "history",
	Short: "List recorded pipeline runs, or show the outputs of one run",
	Long: `Reads the run history mirrored to PostgreSQL. Requires a database URL via the
config file, --db-url or the DATABASE_URL environment variable.`,
	RunE: runHistory,
}

var (
	historyDBURL string
	historyRunID string
	historyLimit int
)

func init() {
	historyCommand.Flags().StringVar(&historyDBURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	historyCommand.Flags().StringVar(&historyRunID, "run-id", "", "Show the stage outputs of this run")
	historyCommand.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to list")

	rootCmd.AddCommand(historyCommand)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = historyDBURL
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	database, err := connectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if historyRunID != "" {
		runID, err := uuid.Parse(historyRunID)
		if err != nil {
			return fmt.Errorf("invalid run id: %w", err)
		}
		return showRun(cmd, database, runID)
	}

	runs, err := database.ListRuns(ctx, historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RUN ID\tSTATUS\tCREATED\tJOB\tAGENCY")
	for _, r := range runs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Status, r.CreatedAt.Format("2006-01-02 15:04"), r.JobTitle, r.Agency)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, database *db.DB, runID uuid.UUID) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	run, err := database.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s not found", runID)
	}

	_, _ = fmt.Fprintf(out, "%s - %s (%s)\n", run.JobTitle, run.Agency, run.Status)
	if run.ErrorMessage != nil {
		_, _ = fmt.Fprintf(out, "Error: %s\n", *run.ErrorMessage)
	}

	for _, step := range []string{db.StepAnalysis, db.StepTailoring, db.StepOutreach} {
		text, err := database.GetTextArtifact(ctx, runID, step)
		if err != nil {
			return err
		}
		if text == "" {
			continue
		}
		_, _ = fmt.Fprintf(out, "\n## %s\n\n%s\n", step, text)
	}
	return nil
}
