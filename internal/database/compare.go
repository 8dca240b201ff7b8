package database

import (
	"time"

	"github.com/nao1215/seoscan/internal/model"
)

// Direction of a comparison.
const (
	DirectionImproved  = "improved"
	DirectionWorsened  = "worsened"
	DirectionUnchanged = "unchanged"
)

// RunSummary is the part of a run shown next to a comparison.
type RunSummary struct {
	RunID       string    `json:"runId"`
	DateScanned time.Time `json:"dateScanned"`
	Total       int       `json:"total"`
	Errors      int       `json:"errors"`
	Warnings    int       `json:"warnings"`
	Notices     int       `json:"notices"`
}

// Comparison is the fingerprint diff of two runs of one output directory.
type Comparison struct {
	Target    string        `json:"target"`
	Previous  RunSummary    `json:"previous"`
	Current   RunSummary    `json:"current"`
	New       []model.Issue `json:"new"`
	Resolved  []model.Issue `json:"resolved"`
	Unchanged int           `json:"unchanged"`

	// Delta holds current minus previous counts per severity name.
	Delta     map[string]int `json:"delta"`
	Direction string         `json:"direction"`
}

// Compare diffs previous and current by issue fingerprint. New and
// resolved issues keep the order of the run they come from.
func Compare(previous, current *model.AuditResult) *Comparison {
	c := &Comparison{
		Target:   current.Target,
		Previous: summarize(previous),
		Current:  summarize(current),
		New:      []model.Issue{},
		Resolved: []model.Issue{},
		Delta:    make(map[string]int),
	}

	before := fingerprints(previous.Issues)
	after := fingerprints(current.Issues)

	for _, issue := range current.Issues {
		if _, ok := before[issue.Fingerprint]; ok {
			c.Unchanged++
			continue
		}
		c.New = append(c.New, issue)
	}
	for _, issue := range previous.Issues {
		if _, ok := after[issue.Fingerprint]; !ok {
			c.Resolved = append(c.Resolved, issue)
		}
	}

	for _, s := range model.AllSeverities() {
		c.Delta[s.String()] = current.Stats.Count(s) - previous.Stats.Count(s)
	}

	switch prev, cur := score(c.Previous), score(c.Current); {
	case cur < prev:
		c.Direction = DirectionImproved
	case cur > prev:
		c.Direction = DirectionWorsened
	default:
		c.Direction = DirectionUnchanged
	}
	return c
}

func summarize(r *model.AuditResult) RunSummary {
	return RunSummary{
		RunID:       r.RunID,
		DateScanned: r.DateScanned,
		Total:       len(r.Issues),
		Errors:      r.Stats.Count(model.SeverityError),
		Warnings:    r.Stats.Count(model.SeverityWarning),
		Notices:     r.Stats.Count(model.SeverityNotice),
	}
}

// score weights errors over warnings over notices.
func score(s RunSummary) int {
	return s.Errors*100 + s.Warnings*10 + s.Notices
}

func fingerprints(issues []model.Issue) map[string]struct{} {
	set := make(map[string]struct{}, len(issues))
	for _, issue := range issues {
		set[issue.Fingerprint] = struct{}{}
	}
	return set
}
