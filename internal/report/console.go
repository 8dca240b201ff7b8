package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/nao1215/seoscan/internal/model"
)

// ConsoleWriter outputs a human-readable report for terminals. Issues are
// grouped by file in the order they are given.
type ConsoleWriter struct {
	baseWriter

	// color enables ANSI colors. Colors are also dropped when the
	// process output is not a terminal.
	color bool

	errorColor   *color.Color
	warningColor *color.Color
	noticeColor  *color.Color
	fileColor    *color.Color
	dimColor     *color.Color
}

// ConsoleWriterOption configures a ConsoleWriter.
type ConsoleWriterOption func(*ConsoleWriter)

// WithColor enables or disables colored output.
func WithColor(enabled bool) ConsoleWriterOption {
	return func(w *ConsoleWriter) {
		w.color = enabled
	}
}

// NewConsoleWriter creates a ConsoleWriter that outputs to the given writer.
func NewConsoleWriter(output io.Writer, opts ...ConsoleWriterOption) *ConsoleWriter {
	w := &ConsoleWriter{
		baseWriter: newBaseWriter(output),
		color:      true,
	}
	for _, opt := range opts {
		opt(w)
	}

	w.errorColor = color.New(color.FgRed, color.Bold)
	w.warningColor = color.New(color.FgYellow, color.Bold)
	w.noticeColor = color.New(color.FgCyan)
	w.fileColor = color.New(color.Underline)
	w.dimColor = color.New(color.Faint)
	if !w.color {
		for _, c := range []*color.Color{w.errorColor, w.warningColor, w.noticeColor, w.fileColor, w.dimColor} {
			c.DisableColor()
		}
	}
	return w
}

// Write outputs the result in human-readable format.
func (w *ConsoleWriter) Write(result *model.AuditResult) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writeSummary(&sb, result)
	w.writeIssues(&sb, result)
	w.writeFooter(&sb, result)

	return io.WriteString(w.output, sb.String())
}

func (w *ConsoleWriter) writeHeader(sb *strings.Builder, result *model.AuditResult) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                           SEOSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Output Dir:  %s\n", result.Target)
	if result.BaseURL != "" {
		fmt.Fprintf(sb, "Base URL:    %s\n", result.BaseURL)
	}
	fmt.Fprintf(sb, "Scan Date:   %s\n", result.DateScanned.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Duration:    %s\n", result.Duration.Round(time.Millisecond))
	if result.Error != "" {
		fmt.Fprintf(sb, "Status:      %s\n", w.errorColor.Sprint("ERROR - "+result.Error))
	}
	sb.WriteString("\n")
}

// writeSummary renders totals and per-severity counts as a table.
func (w *ConsoleWriter) writeSummary(sb *strings.Builder, result *model.AuditResult) {
	stats := result.Stats

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Pages", "Images", "Links", "Errors", "Warnings", "Notices", "Total"})
	t.AppendRow(table.Row{
		humanize.Comma(int64(stats.TotalPages)),
		humanize.Comma(int64(stats.TotalImages)),
		humanize.Comma(int64(stats.TotalLinks)),
		stats.Count(model.SeverityError),
		stats.Count(model.SeverityWarning),
		stats.Count(model.SeverityNotice),
		stats.TotalIssues,
	})
	sb.WriteString(t.Render())
	sb.WriteString("\n\n")

	if categories := stats.Categories(); len(categories) > 0 {
		parts := make([]string, 0, len(categories))
		for _, c := range categories {
			parts = append(parts, fmt.Sprintf("%s %d", c, stats.ByCategory[c]))
		}
		fmt.Fprintf(sb, "By category: %s\n\n", strings.Join(parts, ", "))
	}
}

func (w *ConsoleWriter) writeIssues(sb *strings.Builder, result *model.AuditResult) {
	if !result.HasIssues() {
		sb.WriteString("No issues found.\n\n")
		return
	}

	for i, issue := range result.Issues {
		if i == 0 || issue.RelativePath != result.Issues[i-1].RelativePath {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(w.fileColor.Sprint(issue.RelativePath))
			sb.WriteString("\n")
		}
		w.writeIssue(sb, issue)
	}
	sb.WriteString("\n")
}

func (w *ConsoleWriter) writeIssue(sb *strings.Builder, issue model.Issue) {
	line := "-"
	if issue.Line > 0 {
		line = strconv.Itoa(issue.Line)
	}
	fmt.Fprintf(sb, "  %5s  %s  %s  %s\n",
		line,
		w.severityColor(issue.Severity).Sprintf("%-7s", strings.ToLower(severityLabel(issue.Severity))),
		issue.Message,
		w.dimColor.Sprint(issue.RuleID),
	)
	if issue.Actual != "" || issue.Expected != "" {
		fmt.Fprintf(sb, "         actual: %s, expected: %s\n", valueOrDash(issue.Actual), valueOrDash(issue.Expected))
	}
	if issue.Element != "" {
		fmt.Fprintf(sb, "         %s\n", w.dimColor.Sprint(truncateString(issue.Element, 100)))
	}
}

func (w *ConsoleWriter) writeFooter(sb *strings.Builder, result *model.AuditResult) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")

	stats := result.Stats
	summary := fmt.Sprintf("%d %s (%d errors, %d warnings, %d notices)",
		stats.TotalIssues, plural(stats.TotalIssues, "issue", "issues"),
		stats.Count(model.SeverityError),
		stats.Count(model.SeverityWarning),
		stats.Count(model.SeverityNotice),
	)
	switch {
	case stats.Count(model.SeverityError) > 0:
		sb.WriteString(w.errorColor.Sprint(summary))
	case stats.Count(model.SeverityWarning) > 0:
		sb.WriteString(w.warningColor.Sprint(summary))
	default:
		sb.WriteString(summary)
	}
	sb.WriteString("\n")

	if result.Suppressed > 0 || result.Disabled > 0 {
		fmt.Fprintf(sb, "%d suppressed by exclusions, %d from disabled rules\n", result.Suppressed, result.Disabled)
	}
	sb.WriteString("\n")
}

func (w *ConsoleWriter) severityColor(s model.Severity) *color.Color {
	switch s {
	case model.SeverityError:
		return w.errorColor
	case model.SeverityWarning:
		return w.warningColor
	default:
		return w.noticeColor
	}
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
