package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/seoscan/internal/model"
)

// GitHubWriter outputs GitHub Actions workflow commands. Every issue
// becomes one annotation line and the stats are printed in a collapsible
// group.
type GitHubWriter struct {
	baseWriter
}

// NewGitHubWriter creates a GitHubWriter that outputs to the given writer.
func NewGitHubWriter(output io.Writer) *GitHubWriter {
	return &GitHubWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs one annotation per issue followed by the summary group.
func (w *GitHubWriter) Write(result *model.AuditResult) (int, error) {
	var sb strings.Builder

	for _, issue := range result.Issues {
		sb.WriteString(annotation(result.Target, issue))
		sb.WriteString("\n")
	}

	stats := result.Stats
	fmt.Fprintf(&sb, "::group::seoscan summary for %s\n", escapeProperty(result.Target))
	fmt.Fprintf(&sb, "Pages: %d, Images: %d, Links: %d\n", stats.TotalPages, stats.TotalImages, stats.TotalLinks)
	fmt.Fprintf(&sb, "Errors: %d, Warnings: %d, Notices: %d, Total: %d\n",
		stats.Count(model.SeverityError),
		stats.Count(model.SeverityWarning),
		stats.Count(model.SeverityNotice),
		stats.TotalIssues,
	)
	for _, c := range stats.Categories() {
		fmt.Fprintf(&sb, "  %s: %d\n", c, stats.ByCategory[c])
	}
	if result.Suppressed > 0 || result.Disabled > 0 {
		fmt.Fprintf(&sb, "Suppressed: %d, Disabled: %d\n", result.Suppressed, result.Disabled)
	}
	sb.WriteString("::endgroup::\n")

	return io.WriteString(w.output, sb.String())
}

// annotation renders ::{level} file=..,line=..,title=..::message.
func annotation(target string, issue model.Issue) string {
	var sb strings.Builder
	sb.WriteString("::")
	sb.WriteString(annotationLevel(issue.Severity))
	sb.WriteString(" file=")
	sb.WriteString(escapeProperty(artifactURI(target, issue.RelativePath)))
	if issue.Line > 0 {
		fmt.Fprintf(&sb, ",line=%d", issue.Line)
	}
	sb.WriteString(",title=")
	sb.WriteString(escapeProperty(issue.RuleID))
	sb.WriteString("::")

	msg := issueMessage(issue)
	if issue.FixHint != "" {
		msg += "\n" + issue.FixHint
	}
	sb.WriteString(escapeData(msg))
	return sb.String()
}

func annotationLevel(s model.Severity) string {
	switch s {
	case model.SeverityError:
		return "error"
	case model.SeverityWarning:
		return "warning"
	default:
		return "notice"
	}
}

// escapeData escapes a workflow command message.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}

// escapeProperty escapes a workflow command property value, which also
// may not contain the property delimiters.
func escapeProperty(s string) string {
	s = escapeData(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	return strings.ReplaceAll(s, ",", "%2C")
}
