// Package main provides the jobhunt CLI: search USAJOBS, then generate a tailored resume
// summary, cover letter and outreach message for the selected listings.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "jobhunt",
	Short:        "Job Hunt Assistant",
	Long:         "Search USAJOBS, select listings, and run the pipeline to get a tailored resume summary, cover letter, and outreach message.",
	SilenceUsage: true,
}

var (
	configPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (.yaml, .yml or .json); flags override its values")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print each stage output in a box")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
