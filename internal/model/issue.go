package model

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Fingerprint limits.
const (
	// FingerprintElementLength is the number of runes of the element
	// excerpt that take part in the fingerprint.
	FingerprintElementLength = 100

	// MaxElementLength caps the excerpt stored on an issue.
	MaxElementLength = 200

	fingerprintSeparator = "::"
)

// Issue is one triggered rule instance. Issues are built with NewIssue and
// are not modified afterwards.
type Issue struct {
	RuleID       string   `json:"ruleId"`
	RuleName     string   `json:"ruleName"`
	Category     string   `json:"category"`
	Severity     Severity `json:"severity"`
	File         string   `json:"file"`
	RelativePath string   `json:"relativePath"`
	Line         int      `json:"line,omitempty"`
	Element      string   `json:"element,omitempty"`
	Actual       string   `json:"actual,omitempty"`
	Expected     string   `json:"expected,omitempty"`
	Message      string   `json:"message"`
	FixHint      string   `json:"fixHint,omitempty"`
	Fingerprint  string   `json:"fingerprint"`
}

// IssueOption sets an optional field while an issue is being built.
type IssueOption func(*Issue)

// WithLine records the 1-based source line of the offending element.
func WithLine(line int) IssueOption {
	return func(i *Issue) {
		if line > 0 {
			i.Line = line
		}
	}
}

// WithElement records an excerpt of the offending element.
func WithElement(element string) IssueOption {
	return func(i *Issue) {
		i.Element = Truncate(strings.TrimSpace(element), MaxElementLength)
	}
}

// WithValues records the observed value and the value the rule expects.
func WithValues(actual, expected string) IssueOption {
	return func(i *Issue) {
		i.Actual = actual
		i.Expected = expected
	}
}

// WithMessage replaces the default message (the rule name).
func WithMessage(message string) IssueOption {
	return func(i *Issue) {
		i.Message = message
	}
}

// NewIssue builds an issue for ruleID, filling name, category, severity and
// fix hint from the catalog, and computes its fingerprint.
func NewIssue(ruleID, file, relativePath string, opts ...IssueOption) Issue {
	info := GetRuleInfo(ruleID)
	issue := Issue{
		RuleID:       ruleID,
		RuleName:     info.Name,
		Category:     info.Category,
		Severity:     info.Severity,
		File:         file,
		RelativePath: relativePath,
		Message:      info.Name,
		FixHint:      info.FixHint,
	}
	for _, opt := range opts {
		opt(&issue)
	}
	issue.Fingerprint = Fingerprint(issue.RuleID, issue.RelativePath, issue.Element, issue.Line)
	return issue
}

// Fingerprint returns the identity key of an issue:
//
//	ruleId::relativePath[::element(<=100 runes)][::L<line>]
func Fingerprint(ruleID, relativePath, element string, line int) string {
	var sb strings.Builder
	sb.WriteString(ruleID)
	sb.WriteString(fingerprintSeparator)
	sb.WriteString(relativePath)
	if element != "" {
		sb.WriteString(fingerprintSeparator)
		sb.WriteString(Truncate(element, FingerprintElementLength))
	}
	if line > 0 {
		sb.WriteString(fingerprintSeparator)
		sb.WriteString("L")
		sb.WriteString(strconv.Itoa(line))
	}
	return sb.String()
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// SortIssues orders issues by relative path, line, rule id and fingerprint,
// which makes every report deterministic.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.RelativePath != b.RelativePath {
			return a.RelativePath < b.RelativePath
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		return a.Fingerprint < b.Fingerprint
	})
}

// DeduplicateIssues drops issues whose fingerprint was already seen,
// keeping the first occurrence.
func DeduplicateIssues(issues []Issue) []Issue {
	seen := make(map[string]struct{}, len(issues))
	result := make([]Issue, 0, len(issues))
	for _, issue := range issues {
		if _, ok := seen[issue.Fingerprint]; ok {
			continue
		}
		seen[issue.Fingerprint] = struct{}{}
		result = append(result, issue)
	}
	return result
}
