package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatSARIF = "sarif"
)

func validateFormat(format string) error {
	switch format {
	case "", formatTable, formatJSON, formatSARIF:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

type colorFunc func(a ...any) string

// Printer renders an AuditReport.
type Printer struct {
	stdout  io.Writer
	verbose bool
	yellow  colorFunc
	red     colorFunc
	bold    colorFunc
}

func NewPrinter(stdout io.Writer, verbose bool) *Printer {
	return &Printer{
		stdout:  stdout,
		verbose: verbose,
		yellow:  color.New(color.FgYellow).SprintFunc(),
		red:     color.New(color.FgRed).SprintFunc(),
		bold:    color.New(color.Bold).SprintFunc(),
	}
}

func (p *Printer) Print(report *AuditReport, format, workflowFilePath string) error {
	switch format {
	case formatJSON:
		return p.JSON(report)
	case formatSARIF:
		return p.SARIF(report, workflowFilePath)
	default:
		return p.Table(report)
	}
}

func latestVersion(row *ComparisonResult) string {
	if row.LatestTag == "" {
		return "unknown"
	}
	return row.LatestTag
}

// Table prints a human readable report.
// Up to date actions and the table of all actions are printed only in verbose mode.
func (p *Printer) Table(report *AuditReport) error {
	fmt.Fprint(p.stdout, "Checking through actions for updates:\n---\n\n")
	for _, row := range report.Rows {
		switch {
		case row.Err != nil:
			msg := fmt.Sprintf("[Unknown] %s couldn't be checked: %s", row.Reference.Key(), row.Reason())
			if row.LatestName != "" {
				msg += fmt.Sprintf(" (latest: %s)", row.LatestName)
			}
			fmt.Fprintln(p.stdout, p.red(msg))
		case row.IsCurrent:
			if p.verbose {
				fmt.Fprintf(p.stdout, "%s is up to date\n", row.Reference.Name)
			}
		default:
			fmt.Fprintln(p.stdout, p.yellow(fmt.Sprintf("[Update] %s has a new version: %s", row.Reference.Name, row.LatestName)))
		}
	}
	fmt.Fprintln(p.stdout)

	if p.verbose {
		fmt.Fprint(p.stdout, p.bold("Actions:")+"\n\n")
		w := tabwriter.NewWriter(p.stdout, 0, 0, 2, ' ', 0) //nolint:mnd
		fmt.Fprintln(w, "Action\tCurrent Version\tLatest Version")
		for _, row := range report.Rows {
			fmt.Fprintf(w, "%s\t%s\t%s\n", row.Reference.Name, row.Reference.Ref, latestVersion(row))
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("write the table: %w", err)
		}
		fmt.Fprintln(p.stdout)
	}

	suffix := "s"
	if report.Outdated == 1 {
		suffix = ""
	}
	fmt.Fprint(p.stdout, p.bold("Results:")+"\n\n")
	fmt.Fprintf(p.stdout, "%d outdated action%s. Try \"actcheck --fix\" to update them.\n", report.Outdated, suffix)
	return nil
}

type jsonReport struct {
	Actions  []*jsonRow `json:"actions"`
	Outdated int        `json:"outdated"`
}

type jsonRow struct {
	Action         string `json:"action"`
	CurrentVersion string `json:"current_version"`
	LatestVersion  string `json:"latest_version,omitempty"`
	LatestName     string `json:"latest_name,omitempty"`
	UpToDate       bool   `json:"up_to_date"`
	Line           int    `json:"line"`
	Error          string `json:"error,omitempty"`
}

func (p *Printer) JSON(report *AuditReport) error {
	out := &jsonReport{
		Actions:  make([]*jsonRow, len(report.Rows)),
		Outdated: report.Outdated,
	}
	for i, row := range report.Rows {
		out.Actions[i] = &jsonRow{
			Action:         row.Reference.Name,
			CurrentVersion: row.Reference.Ref,
			LatestVersion:  row.LatestTag,
			LatestName:     row.LatestName,
			UpToDate:       row.IsCurrent,
			Line:           row.Reference.Line,
			Error:          row.Reason(),
		}
	}
	encoder := json.NewEncoder(p.stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("encode the report as JSON: %w", err)
	}
	return nil
}
