package rules

import (
	"strconv"

	"github.com/nao1215/seoscan/internal/model"
)

// CheckAccessibility checks form labels, id uniqueness and the main landmark.
func CheckAccessibility(_ *Env, page *model.PageRecord) []model.Issue {
	var issues []model.Issue

	for _, in := range page.UnlabeledInputs {
		issues = append(issues, pageIssue(page, "a11y/input-missing-label", model.WithElement(in.Element)))
	}

	counts := make(map[string]int, len(page.IDs))
	for _, id := range page.IDs {
		counts[id]++
	}
	reported := make(map[string]struct{})
	for _, id := range page.IDs {
		if counts[id] < 2 {
			continue
		}
		if _, ok := reported[id]; ok {
			continue
		}
		reported[id] = struct{}{}
		issues = append(issues, pageIssue(page, "a11y/duplicate-id",
			model.WithElement(`id="`+id+`"`),
			model.WithValues(strconv.Itoa(counts[id])+" elements", "1 element")))
	}

	if !page.HasMainLandmark {
		issues = append(issues, pageIssue(page, "a11y/main-landmark-missing"))
	}
	return issues
}
