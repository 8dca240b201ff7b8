package model

import (
	"sort"
	"time"
)

// AuditResult is the final, filtered outcome of an audit. Every report
// format renders it and the run history stores it.
type AuditResult struct {
	// RunID identifies the run in the history database.
	RunID string `json:"runId,omitempty"`

	Target      string        `json:"target"`
	BaseURL     string        `json:"baseUrl"`
	DateScanned time.Time     `json:"dateScanned"`
	Duration    time.Duration `json:"duration"`

	Stats  Stats   `json:"stats"`
	Issues []Issue `json:"issues"`

	// Disabled and Suppressed count issues removed by disabled rules and
	// exclusion rules.
	Disabled   int `json:"disabled"`
	Suppressed int `json:"suppressed"`

	Error string `json:"error,omitempty"`
}

// Stats aggregates an audit.
type Stats struct {
	TotalPages  int            `json:"totalPages"`
	TotalImages int            `json:"totalImages"`
	TotalLinks  int            `json:"totalLinks"`
	TotalIssues int            `json:"totalIssues"`
	BySeverity  map[string]int `json:"bySeverity"`
	ByCategory  map[string]int `json:"byCategory"`
}

// NewStats counts pages, images and links from site (which may be nil) and
// issues by severity and category.
func NewStats(site *SiteIndex, issues []Issue) Stats {
	stats := Stats{
		TotalIssues: len(issues),
		BySeverity: map[string]int{
			SeverityError.String():   0,
			SeverityWarning.String(): 0,
			SeverityNotice.String():  0,
		},
		ByCategory: make(map[string]int),
	}
	if site != nil {
		stats.TotalPages = len(site.Pages)
		stats.TotalImages = site.ImageCount()
		stats.TotalLinks = site.LinkCount()
	}
	for _, issue := range issues {
		stats.BySeverity[issue.Severity.String()]++
		stats.ByCategory[issue.Category]++
	}
	return stats
}

// Count returns the number of issues of the given severity.
func (s Stats) Count(severity Severity) int {
	return s.BySeverity[severity.String()]
}

// Categories returns the categories with at least one issue, sorted by
// descending count and then by name.
func (s Stats) Categories() []string {
	categories := make([]string, 0, len(s.ByCategory))
	for c, n := range s.ByCategory {
		if n > 0 {
			categories = append(categories, c)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		a, b := s.ByCategory[categories[i]], s.ByCategory[categories[j]]
		if a != b {
			return a > b
		}
		return categories[i] < categories[j]
	})
	return categories
}

// HasIssues reports whether any issue remains.
func (r *AuditResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// IssuesBySeverity returns the issues of one severity in report order.
func (r *AuditResult) IssuesBySeverity(severity Severity) []Issue {
	result := make([]Issue, 0)
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			result = append(result, issue)
		}
	}
	return result
}

// CountAtLeast returns the number of issues at or above severity.
func (r *AuditResult) CountAtLeast(severity Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity >= severity {
			n++
		}
	}
	return n
}
