package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-hunt-assistant/internal/config"
	"github.com/jonathan/job-hunt-assistant/internal/observability"
	"github.com/jonathan/job-hunt-assistant/internal/usajobs"
)

var applyCommand = &cobra.Command{
	Use:   "apply",
	Short: "Search USAJOBS and run the pipeline for selected listings",
	Long: `Searches USAJOBS, lists the results and runs the analysis, tailoring and outreach
stages for each listing chosen with --select (e.g. "1,3", "2-4" or "all"). Without
--select on a terminal, the selection is asked for after the listing is shown.

Each successful run appends a row to the application log and saves the cover letter.`,
	RunE: runApply,
}

var (
	applyOpts   searchFlags
	applyResume string
	applyBio    string
	applySelect string
)

func init() {
	applyOpts.register(applyCommand)
	applyCommand.Flags().StringVarP(&applyResume, "resume", "r", "", "Path to resume text file (\"-\" reads stdin)")
	applyCommand.Flags().StringVarP(&applyBio, "bio", "b", "", "Short bio, e.g. \"Data analyst with 3 years in public sector\"")
	applyCommand.Flags().StringVarP(&applySelect, "select", "s", "", "Listings to apply to: \"1,3\", \"2-4\" or \"all\" (asked for after the listing when omitted on a terminal)")
	registerOutputFlags(applyCommand)

	_ = applyCommand.MarkFlagRequired("resume")

	rootCmd.AddCommand(applyCommand)
}

func runApply(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd, &applyOpts)
	if err != nil {
		return err
	}

	// The resume is checked before any network call
	resumeText, err := readResume(applyResume, cmd.InOrStdin())
	if err != nil {
		return err
	}

	creds := config.LoadCredentials()
	jobs, err := searchJobs(ctx, cfg, creds, applyOpts.keywords)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		_, _ = fmt.Fprintln(out, msgNoJobs)
		return nil
	}

	printer := observability.NewPrinter(out)
	printer.PrintJobList(jobs)

	selection := applySelect
	if strings.TrimSpace(selection) == "" && applyResume != "-" && isTerminal(cmd.InOrStdin()) {
		selection, err = promptSelection(cmd.InOrStdin(), out)
		if err != nil {
			return err
		}
	}

	indices, err := parseSelection(selection, len(jobs))
	if err != nil {
		return err
	}
	if len(indices) == 0 {
		printer.PrintWarning(msgNoSelection)
		return nil
	}

	selected := make([]usajobs.JobRecord, 0, len(indices))
	for _, i := range indices {
		selected = append(selected, jobs[i])
	}

	sess, err := newSession(ctx, cfg, creds, out)
	if err != nil {
		return err
	}
	defer sess.Close()

	return sess.runJobs(ctx, out, selected, resumeText, applyBio)
}
