package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-hunt-assistant/internal/config"
	"github.com/jonathan/job-hunt-assistant/internal/observability"
)

var searchCommand = &cobra.Command{
	Use:   "search",
	Short: "Search USAJOBS and list matching positions",
	Long: `Searches USAJOBS for each --keyword and prints a numbered listing.

Use --save to write the raw records to a JSON file that "run --job" accepts.`,
	RunE: runSearch,
}

var (
	searchOpts searchFlags
	searchSave string
)

func init() {
	searchOpts.register(searchCommand)
	searchCommand.Flags().StringVarP(&searchSave, "save", "o", "", "Write the matching records to this JSON file")

	rootCmd.AddCommand(searchCommand)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, &searchOpts)
	if err != nil {
		return err
	}

	creds := config.LoadCredentials()
	jobs, err := searchJobs(cmd.Context(), cfg, creds, searchOpts.keywords)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(jobs) == 0 {
		_, _ = fmt.Fprintln(out, msgNoJobs)
		return nil
	}
	observability.NewPrinter(out).PrintJobList(jobs)

	if searchSave != "" {
		data, err := json.MarshalIndent(jobs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal job records: %w", err)
		}
		if err := os.WriteFile(searchSave, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", searchSave, err)
		}
		_, _ = fmt.Fprintf(out, "Saved %d job records to %s\n", len(jobs), searchSave)
	}
	return nil
}
