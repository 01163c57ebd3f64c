// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/job-hunt-assistant/internal/agents"
	"github.com/jonathan/job-hunt-assistant/internal/pipeline"
	"github.com/jonathan/job-hunt-assistant/internal/usajobs"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxSummaryChars caps the summary preview in job listings
	maxSummaryChars = 160
)

// Listing fallbacks when a descriptor field is absent.
const (
	ListingTitle  = "Job Title"
	ListingAgency = "Agency"
	ResultHeading = "Job"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

var stageTitles = map[string]string{
	agents.StageAnalysis:  "JOB ANALYSIS",
	agents.StageTailoring: "RESUME & COVER LETTER",
	agents.StageOutreach:  "OUTREACH MESSAGE",
}

// Printer handles formatted CLI output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content. Long lines are wrapped.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, part := range wrap(line, inner) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(part, inner))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJobList prints a numbered listing of search results.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintJobList(jobs []usajobs.JobRecord) {
	if len(jobs) == 0 {
		return
	}

	fmt.Fprintln(p.out, headingStyle.Render("Available Jobs"))
	for i := range jobs {
		d := jobs[i].MatchedObjectDescriptor
		title := orFallback(d.PositionTitle, ListingTitle)
		agency := orFallback(d.OrganizationName, ListingAgency)

		fmt.Fprintf(p.out, "%2d. %s - %s\n", i+1, title, agency)
		if d.PositionLocationDisplay != "" {
			fmt.Fprintf(p.out, "    %s\n", dimStyle.Render(d.PositionLocationDisplay))
		}
		if summary := usajobs.PlainText(jobs[i].Summary()); summary != "" {
			fmt.Fprintf(p.out, "    %s\n", truncateRunes(summary, maxSummaryChars))
		}
	}
}

// PrintResult prints one pipeline result under the job title heading.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintResult(title string, result *pipeline.Result) {
	if result == nil {
		return
	}

	fmt.Fprintln(p.out, headingStyle.Render("📄 "+orFallback(title, ResultHeading)))
	if result.Rejected {
		fmt.Fprintln(p.out, warnStyle.Render(result.Message))
		return
	}

	for _, out := range result.Stages {
		name := stageTitles[out.Stage]
		if name == "" {
			name = strings.ToUpper(out.Stage)
		}
		p.printBox(fmt.Sprintf("%s (%s)", name, out.Model), strings.TrimSpace(out.Raw))
	}

	if result.CoverLetterPath != "" {
		fmt.Fprintf(p.out, "Cover letter saved to %s\n", result.CoverLetterPath)
	}
	for _, w := range result.Warnings {
		fmt.Fprintln(p.out, warnStyle.Render("Warning: "+w))
	}
}

// PrintWarning prints a highlighted warning line.
func (p *Printer) PrintWarning(msg string) {
	_, _ = fmt.Fprintln(p.out, warnStyle.Render(msg))
}

func orFallback(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func pad(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// wrap splits line into chunks of at most width runes, breaking on spaces when possible.
func wrap(line string, width int) []string {
	r := []rune(line)
	if len(r) <= width {
		return []string{line}
	}

	var parts []string
	for len(r) > width {
		cut := width
		for i := width; i > width/2; i-- {
			if r[i] == ' ' {
				cut = i
				break
			}
		}
		parts = append(parts, strings.TrimRight(string(r[:cut]), " "))
		r = []rune(strings.TrimLeft(string(r[cut:]), " "))
	}
	if len(r) > 0 {
		parts = append(parts, string(r))
	}
	return parts
}
