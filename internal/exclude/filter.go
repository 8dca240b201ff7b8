package exclude

import "github.com/nao1215/seoscan/internal/model"

// FilterExcludedIssues returns the issues no exclusion rule matches and the
// number of suppressed issues. The order of the kept issues is preserved.
func FilterExcludedIssues(issues []model.Issue, m *Matcher) ([]model.Issue, int) {
	if m == nil || m.Len() == 0 {
		return issues, 0
	}
	kept := make([]model.Issue, 0, len(issues))
	for _, issue := range issues {
		if m.IsExcluded(issue) {
			continue
		}
		kept = append(kept, issue)
	}
	return kept, len(issues) - len(kept)
}

// FilterDisabledRules drops every issue whose rule id is disabled and
// returns the number dropped.
func FilterDisabledRules(issues []model.Issue, disabled []string) ([]model.Issue, int) {
	if len(disabled) == 0 {
		return issues, 0
	}
	off := make(map[string]struct{}, len(disabled))
	for _, id := range disabled {
		off[id] = struct{}{}
	}
	kept := make([]model.Issue, 0, len(issues))
	for _, issue := range issues {
		if _, ok := off[issue.RuleID]; ok {
			continue
		}
		kept = append(kept, issue)
	}
	return kept, len(issues) - len(kept)
}
