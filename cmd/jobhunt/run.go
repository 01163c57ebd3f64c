package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-hunt-assistant/internal/config"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline for job records saved by \"search --save\"",
	Long: `Runs the analysis, tailoring and outreach stages for each record in a JSON file.
The file holds a single USAJOBS search result item or an array of them and is
validated against the job record schema before any model call.`,
	RunE: runPipelineCmd,
}

var (
	runJob    string
	runResume string
	runBio    string
)

func init() {
	runCommand.Flags().StringVarP(&runJob, "job", "j", "", "Path to job record JSON file")
	runCommand.Flags().StringVarP(&runResume, "resume", "r", "", "Path to resume text file (\"-\" reads stdin)")
	runCommand.Flags().StringVarP(&runBio, "bio", "b", "", "Short bio used in the outreach message")
	registerOutputFlags(runCommand)

	_ = runCommand.MarkFlagRequired("job")
	_ = runCommand.MarkFlagRequired("resume")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	resumeText, err := readResume(runResume, cmd.InOrStdin())
	if err != nil {
		return err
	}

	data, err := os.ReadFile(runJob)
	if err != nil {
		return fmt.Errorf("failed to read job file: %w", err)
	}
	jobs, err := decodeJobRecords(data)
	if err != nil {
		return fmt.Errorf("invalid job file %s: %w", runJob, err)
	}

	sess, err := newSession(ctx, cfg, config.LoadCredentials(), out)
	if err != nil {
		return err
	}
	defer sess.Close()

	return sess.runJobs(ctx, out, jobs, resumeText, runBio)
}
