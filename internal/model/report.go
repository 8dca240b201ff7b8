package model

import "time"

// Audit is the working state of one audit run over one output root.
// Pipeline steps fill it in order: the index, the raw issues, the filtered
// issues and finally the summary.
type Audit struct {
	// Target is the output root as given by the user.
	Target string `json:"target"`

	// BaseURL is the configured canonical base URL.
	BaseURL string `json:"baseUrl"`

	// DateScanned is when the audit started.
	DateScanned time.Time `json:"dateScanned"`

	// Duration is how long the audit took.
	Duration time.Duration `json:"duration"`

	// Site is the index built by the indexing step.
	Site *SiteIndex `json:"-"`

	// RawIssues holds every issue the rules produced, before filtering.
	RawIssues []Issue `json:"-"`

	// Issues holds the issues left after disabled rules and exclusions.
	Issues []Issue `json:"issues"`

	// Disabled is the number of issues dropped because their rule is disabled.
	Disabled int `json:"disabled"`

	// Suppressed is the number of issues dropped by exclusion rules.
	Suppressed int `json:"suppressed"`

	// Result is the summary produced by the last step.
	Result *AuditResult `json:"-"`

	// PerformedSteps lists the steps that ran.
	PerformedSteps []string `json:"performedSteps,omitempty"`

	// Error is the last step error, if any.
	Error error `json:"-"`

	// ErrorMessage is Error as text for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewAudit creates an audit for an output root.
func NewAudit(target string) *Audit {
	return &Audit{
		Target:      target,
		DateScanned: time.Now(),
	}
}

// AddIssues appends raw issues.
func (a *Audit) AddIssues(issues ...Issue) {
	a.RawIssues = append(a.RawIssues, issues...)
}

// Summarize builds the AuditResult from the current state and stores it.
func (a *Audit) Summarize() *AuditResult {
	result := &AuditResult{
		Target:      a.Target,
		BaseURL:     a.BaseURL,
		DateScanned: a.DateScanned,
		Duration:    a.Duration,
		Issues:      a.Issues,
		Disabled:    a.Disabled,
		Suppressed:  a.Suppressed,
		Error:       a.ErrorMessage,
	}
	if result.Issues == nil {
		result.Issues = []Issue{}
	}
	result.Stats = NewStats(a.Site, result.Issues)
	a.Result = result
	return result
}
