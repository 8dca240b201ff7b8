package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/nao1215/seoscan/internal/config"
	"github.com/nao1215/seoscan/internal/model"
)

// ErrUnknownFormat is returned by New for a format without a writer.
var ErrUnknownFormat = errors.New("unknown report format")

// Writer renders an audit result to its destination.
type Writer interface {
	// Write outputs the result and returns the number of bytes written.
	Write(result *model.AuditResult) (int, error)
}

// MultiWriter writes every result to several Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the result to all Writers and stops at the first error.
func (m *MultiWriter) Write(result *model.AuditResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter holds the destination shared by all writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// options collects the settings New passes on to the writer it builds.
type options struct {
	noColor bool
	version string
}

// Option configures the writer built by New.
type Option func(*options)

// WithNoColor disables ANSI colors in console output.
func WithNoColor(noColor bool) Option {
	return func(o *options) {
		o.noColor = noColor
	}
}

// WithToolVersion sets the version reported as the SARIF driver version
// and in report footers.
func WithToolVersion(version string) Option {
	return func(o *options) {
		o.version = version
	}
}

// New returns the writer for format, one of the config.Format* names.
func New(format string, output io.Writer, opts ...Option) (Writer, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	switch format {
	case config.FormatConsole, "":
		return NewConsoleWriter(output, WithColor(!o.noColor)), nil
	case config.FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case config.FormatSARIF:
		return NewSARIFWriter(output, o.version), nil
	case config.FormatGitHub:
		return NewGitHubWriter(output), nil
	case config.FormatMarkdown:
		return NewMarkdownWriter(output, o.version), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// severityLabel returns the upper-case label used in text output.
func severityLabel(s model.Severity) string {
	switch s {
	case model.SeverityError:
		return "ERROR"
	case model.SeverityWarning:
		return "WARNING"
	default:
		return "NOTICE"
	}
}

// location renders the path and line of an issue as path:line.
func location(issue model.Issue) string {
	if issue.Line > 0 {
		return fmt.Sprintf("%s:%d", issue.RelativePath, issue.Line)
	}
	return issue.RelativePath
}

// truncateString cuts s to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	if len([]rune(s)) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return model.Truncate(s, maxLen)
	}
	return model.Truncate(s, maxLen-3) + "..."
}
