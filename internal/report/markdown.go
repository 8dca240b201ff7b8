package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/seoscan/internal/model"
)

// MarkdownWriter outputs the result as a Markdown document, suitable for
// pull request comments and job summaries.
type MarkdownWriter struct {
	baseWriter
	version string
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, version string) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		version:    version,
	}
}

// Write outputs the result in Markdown format.
func (w *MarkdownWriter) Write(result *model.AuditResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeSummary(md, result)
	w.writeFindings(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.AuditResult) {
	md.H1("seoscan Report")
	md.PlainText("")

	rows := [][]string{
		{"Output Dir", markdown.Code(result.Target)},
	}
	if result.BaseURL != "" {
		rows = append(rows, []string{"Base URL", result.BaseURL})
	}
	rows = append(rows,
		[]string{"Scan Date", result.DateScanned.Format("2006-01-02 15:04:05 MST")},
		[]string{"Duration", result.Duration.Round(time.Millisecond).String()},
		[]string{"Pages", strconv.Itoa(result.Stats.TotalPages)},
		[]string{"Images", strconv.Itoa(result.Stats.TotalImages)},
		[]string{"Links", strconv.Itoa(result.Stats.TotalLinks)},
		[]string{"Status", statusText(result)},
	)
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func statusText(result *model.AuditResult) string {
	if result.Error != "" {
		return "❌ Error - " + result.Error
	}
	return "✅ Complete"
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, result *model.AuditResult) {
	stats := result.Stats

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows: [][]string{
			{"🔴 Error", strconv.Itoa(stats.Count(model.SeverityError))},
			{"🟡 Warning", strconv.Itoa(stats.Count(model.SeverityWarning))},
			{"🔵 Notice", strconv.Itoa(stats.Count(model.SeverityNotice))},
			{"**Total**", "**" + strconv.Itoa(stats.TotalIssues) + "**"},
		},
	})
	md.PlainText("")

	if categories := stats.Categories(); len(categories) > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Issues by Category"),
			piechart.WithShowData(true),
		)
		for _, c := range categories {
			chart.LabelAndIntValue(c, uint64(stats.ByCategory[c]))
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch {
	case stats.Count(model.SeverityError) > 0:
		md.Cautionf("%d error(s) affect indexing or link integrity.", stats.Count(model.SeverityError))
	case stats.Count(model.SeverityWarning) > 0:
		md.Warningf("%d warning(s) found.", stats.Count(model.SeverityWarning))
	case stats.TotalIssues > 0:
		md.Note("Only notices found.")
	default:
		md.Tip("No issues found.")
	}
	md.PlainText("")

	if result.Suppressed > 0 || result.Disabled > 0 {
		md.PlainTextf("%d issue(s) suppressed by exclusions, %d from disabled rules.", result.Suppressed, result.Disabled)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, result *model.AuditResult) {
	md.H2("Findings")
	md.PlainText("")

	if !result.HasIssues() {
		md.PlainText("No issues found.")
		md.PlainText("")
		return
	}

	sections := []struct {
		level  model.Severity
		header string
	}{
		{model.SeverityError, "🔴 Errors"},
		{model.SeverityWarning, "🟡 Warnings"},
		{model.SeverityNotice, "🔵 Notices"},
	}

	for _, sec := range sections {
		issues := result.IssuesBySeverity(sec.level)
		if len(issues) == 0 {
			continue
		}
		md.H3f("%s (%d)", sec.header, len(issues))
		md.PlainText("")
		w.writeIssueTable(md, issues)
	}

	w.writeFixHints(md, result.Issues)
}

func (w *MarkdownWriter) writeIssueTable(md *markdown.Markdown, issues []model.Issue) {
	rows := make([][]string, len(issues))
	for i, issue := range issues {
		rows[i] = []string{
			markdown.Code(issue.RuleID),
			markdown.Code(location(issue)),
			escapeCell(truncateString(issueMessage(issue), 120)),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rule", "Location", "Message"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFixHints lists the fix hint of every rule that fired, once.
func (w *MarkdownWriter) writeFixHints(md *markdown.Markdown, issues []model.Issue) {
	seen := make(map[string]struct{})
	md.H2("How to Fix")
	md.PlainText("")
	for _, issue := range issues {
		if _, ok := seen[issue.RuleID]; ok || issue.FixHint == "" {
			continue
		}
		seen[issue.RuleID] = struct{}{}
		md.Details(issue.RuleID+": "+issue.RuleName, issue.FixHint)
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	if w.version != "" {
		md.PlainTextf("*Report generated by [seoscan](https://github.com/nao1215/seoscan) %s*", w.version)
		return
	}
	md.PlainText("*Report generated by [seoscan](https://github.com/nao1215/seoscan)*")
}

// escapeCell keeps a value from breaking the table layout.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
