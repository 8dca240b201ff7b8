package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/seoscan/internal/config"
	"github.com/nao1215/seoscan/internal/database"
	"github.com/nao1215/seoscan/internal/model"
)

const noIssuesMessage = "No issues"

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [output-dir]",
		Short: "Compare the latest scan with an earlier one",
		Long: `Compare diffs two saved runs of the same output directory by issue
fingerprint and shows:
- issues that are new in the latest run
- issues that were resolved since the earlier run
- the change in errors, warnings and notices

Runs are saved by 'seoscan scan' unless --no-history is given. The output
directory defaults to "dist".

Examples:
  # Compare the latest two runs of dist/
  seoscan compare dist/

  # List the saved runs of dist/
  seoscan compare --list dist/

  # Compare the latest run with a specific earlier run
  seoscan compare --with-run-id 3f2a... dist/

  # Markdown for a pull request comment
  seoscan compare --markdown dist/

  # List every output directory with saved runs
  seoscan compare --list-targets`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List saved runs of the output directory")
	cmd.Flags().BoolP("list-targets", "L", false,
		"List every output directory with saved runs")
	cmd.Flags().StringP("with-run-id", "i", "",
		"Compare the latest run with this run (see --list)")
	cmd.Flags().BoolP("json", "j", false,
		"Output the comparison as JSON")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the comparison as Markdown")

	cmd.Flags().String("db-dir", config.XDGDataDir(), "History database directory")
	_ = cmd.Flags().MarkHidden("db-dir")

	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

func runCompareCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	listTargets, err := flags.GetBool("list-targets")
	if err != nil {
		return err
	}
	listRuns, err := flags.GetBool("list")
	if err != nil {
		return err
	}
	withRunID, err := flags.GetString("with-run-id")
	if err != nil {
		return err
	}
	jsonOutput, err := flags.GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := flags.GetBool("markdown")
	if err != nil {
		return err
	}
	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return err
	}

	target := config.DefaultOutputDir
	if len(args) > 0 {
		target = args[0]
	}
	target = historyKey(target)

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	switch {
	case listTargets:
		return listSavedTargets(ctx, out, db)
	case listRuns:
		return listSavedRuns(ctx, out, db, target)
	}

	comparison, err := compareRuns(ctx, db, target, withRunID)
	if err != nil {
		return err
	}

	switch {
	case jsonOutput:
		return outputComparisonJSON(out, comparison)
	case markdownOutput:
		return outputComparisonMarkdown(out, comparison)
	default:
		return outputComparisonText(out, comparison)
	}
}

func listSavedTargets(ctx context.Context, out io.Writer, db *database.HistoryDB) error {
	targets, err := db.ListTargets(ctx)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		fmt.Fprintln(out, "No saved runs found.")
		fmt.Fprintln(out, "\nUse 'seoscan scan <output-dir>' to audit a site.")
		return nil
	}

	fmt.Fprintf(out, "Output directories with saved runs (%d):\n\n", len(targets))
	for _, t := range targets {
		fmt.Fprintf(out, "  • %s\n", t)
	}
	fmt.Fprintln(out, "\nUse 'seoscan compare --list <output-dir>' to see the runs of a directory.")
	return nil
}

func listSavedRuns(ctx context.Context, out io.Writer, db *database.HistoryDB, target string) error {
	runs, err := db.ListRuns(ctx, target)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintf(out, "No saved runs for %s\n", target)
		return nil
	}

	fmt.Fprintf(out, "Runs of %s (%d):\n\n", target, len(runs))

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run ID", "Date", "Issues"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			run.RunID,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			formatCounts(run.Stats),
		})
	}
	t.Render()

	fmt.Fprintln(out, "\nUse 'seoscan compare --with-run-id <id> <output-dir>' to compare with a specific run.")
	return nil
}

// formatCounts renders severity counts as E:1 W:2 N:3.
func formatCounts(stats model.Stats) string {
	var parts []string
	if v := stats.Count(model.SeverityError); v > 0 {
		parts = append(parts, "E:"+strconv.Itoa(v))
	}
	if v := stats.Count(model.SeverityWarning); v > 0 {
		parts = append(parts, "W:"+strconv.Itoa(v))
	}
	if v := stats.Count(model.SeverityNotice); v > 0 {
		parts = append(parts, "N:"+strconv.Itoa(v))
	}
	if len(parts) == 0 {
		return noIssuesMessage
	}
	return strings.Join(parts, " ")
}

// compareRuns diffs the latest run of target with the run before it, or
// with withRunID when given.
func compareRuns(ctx context.Context, db *database.HistoryDB, target, withRunID string) (*database.Comparison, error) {
	if withRunID == "" {
		runs, err := db.LatestRuns(ctx, target, 2)
		if err != nil {
			return nil, err
		}
		if len(runs) < 2 {
			return nil, fmt.Errorf("at least 2 saved runs of %s are required for comparison (found %d)", target, len(runs))
		}
		return database.Compare(runs[1], runs[0]), nil
	}

	previous, err := db.GetRun(ctx, withRunID)
	if err != nil {
		return nil, err
	}
	if previous.Target != target {
		return nil, fmt.Errorf("run %s belongs to %s, not %s", withRunID, previous.Target, target)
	}

	latest, err := db.LatestRuns(ctx, target, 1)
	if err != nil {
		return nil, err
	}
	if len(latest) == 0 {
		return nil, fmt.Errorf("no saved runs of %s", target)
	}
	if latest[0].RunID == previous.RunID {
		return nil, errors.New("the selected run is the latest run; choose an earlier one")
	}
	return database.Compare(previous, latest[0]), nil
}

func outputComparisonJSON(out io.Writer, c *database.Comparison) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(c)
}

func outputComparisonMarkdown(out io.Writer, c *database.Comparison) error {
	md := markdown.NewMarkdown(out)

	md.H1f("Scan Comparison: %s", c.Target)
	md.PlainText("")
	md.PlainTextf("**Status:** %s", formatDirection(c.Direction))
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Previous", "Current", "Change"},
		Rows: [][]string{
			{"Date", c.Previous.DateScanned.Format("2006-01-02 15:04"), c.Current.DateScanned.Format("2006-01-02 15:04"), "-"},
			{"Errors", strconv.Itoa(c.Previous.Errors), strconv.Itoa(c.Current.Errors), formatDelta(c.Delta[model.SeverityError.String()])},
			{"Warnings", strconv.Itoa(c.Previous.Warnings), strconv.Itoa(c.Current.Warnings), formatDelta(c.Delta[model.SeverityWarning.String()])},
			{"Notices", strconv.Itoa(c.Previous.Notices), strconv.Itoa(c.Current.Notices), formatDelta(c.Delta[model.SeverityNotice.String()])},
			{"**Total**", "**" + strconv.Itoa(c.Previous.Total) + "**", "**" + strconv.Itoa(c.Current.Total) + "**", "**" + formatDelta(c.Current.Total-c.Previous.Total) + "**"},
		},
	})
	md.PlainText("")

	if len(c.New) > 0 {
		md.H2f("New Issues (%d)", len(c.New))
		md.PlainText("")
		md.BulletList(issueLines(c.New, false)...)
		md.PlainText("")
	}
	if len(c.Resolved) > 0 {
		md.H2f("Resolved Issues (%d)", len(c.Resolved))
		md.PlainText("")
		md.BulletList(issueLines(c.Resolved, true)...)
		md.PlainText("")
	}
	if c.Unchanged > 0 {
		md.HorizontalRule()
		md.PlainTextf("*%d issues unchanged*", c.Unchanged)
	}
	return md.Build()
}

func issueLines(issues []model.Issue, struck bool) []string {
	lines := make([]string, len(issues))
	for i, issue := range issues {
		line := fmt.Sprintf("**[%s]** %s %s", issue.Severity, markdown.Code(issue.RuleID), markdown.Code(issueLocation(issue)))
		if struck {
			line = "~~" + line + "~~"
		}
		lines[i] = line
	}
	return lines
}

func outputComparisonText(out io.Writer, c *database.Comparison) error {
	fmt.Fprintf(out, "Scan Comparison: %s\n", c.Target)
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintf(out, "\nStatus: %s\n", formatDirection(c.Direction))
	fmt.Fprintf(out, "\nPrevious run: %s  %s\n", c.Previous.DateScanned.Local().Format("2006-01-02 15:04:05"), c.Previous.RunID)
	fmt.Fprintf(out, "Current run:  %s  %s\n\n", c.Current.DateScanned.Local().Format("2006-01-02 15:04:05"), c.Current.RunID)

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Severity", "Previous", "Current", "Change"})
	t.AppendRow(table.Row{"Error", c.Previous.Errors, c.Current.Errors, formatDelta(c.Delta[model.SeverityError.String()])})
	t.AppendRow(table.Row{"Warning", c.Previous.Warnings, c.Current.Warnings, formatDelta(c.Delta[model.SeverityWarning.String()])})
	t.AppendRow(table.Row{"Notice", c.Previous.Notices, c.Current.Notices, formatDelta(c.Delta[model.SeverityNotice.String()])})
	t.AppendFooter(table.Row{"Total", c.Previous.Total, c.Current.Total, formatDelta(c.Current.Total - c.Previous.Total)})
	t.Render()

	if len(c.New) > 0 {
		fmt.Fprintf(out, "\nNew Issues (%d):\n", len(c.New))
		for _, issue := range c.New {
			fmt.Fprintf(out, "  [+] [%s] %s %s\n", issue.Severity, issue.RuleID, issueLocation(issue))
		}
	}
	if len(c.Resolved) > 0 {
		fmt.Fprintf(out, "\nResolved Issues (%d):\n", len(c.Resolved))
		for _, issue := range c.Resolved {
			fmt.Fprintf(out, "  [-] [%s] %s %s\n", issue.Severity, issue.RuleID, issueLocation(issue))
		}
	}
	if c.Unchanged > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d issues\n", c.Unchanged)
	}
	return nil
}

func issueLocation(issue model.Issue) string {
	if issue.Line > 0 {
		return issue.RelativePath + ":" + strconv.Itoa(issue.Line)
	}
	return issue.RelativePath
}

func formatDirection(direction string) string {
	switch direction {
	case database.DirectionImproved:
		return "IMPROVED (fewer or less severe issues)"
	case database.DirectionWorsened:
		return "WORSENED (more or more severe issues)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
