package rules

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/nao1215/seoscan/internal/model"
)

// CheckHeadings checks the h1 and the heading hierarchy.
func CheckHeadings(_ *Env, page *model.PageRecord) []model.Issue {
	var issues []model.Issue

	h1s := page.H1s()
	switch {
	case len(h1s) == 0:
		issues = append(issues, pageIssue(page, "headings/h1-missing"))
	case len(h1s) > 1:
		issues = append(issues, pageIssue(page, "headings/h1-multiple",
			model.WithValues(strconv.Itoa(len(h1s)), "1")))
	}

	for i, h := range page.HeadingOrder {
		if h.Level == 1 {
			if h.Text == "" {
				issues = append(issues, pageIssue(page, "headings/h1-empty", model.WithLine(h.Line)))
			} else if n := utf8.RuneCountInString(h.Text); n > H1MaxLength {
				issues = append(issues, pageIssue(page, "headings/h1-too-long",
					model.WithElement(h.Text),
					model.WithLine(h.Line),
					model.WithValues(chars(n), fmt.Sprintf("at most %d characters", H1MaxLength))))
			}
		} else if h.Text == "" {
			issues = append(issues, pageIssue(page, "headings/empty",
				model.WithElement(headingTag(h.Level)),
				model.WithLine(h.Line)))
		}

		if i == 0 {
			if h.Level != 1 && len(h1s) > 0 {
				issues = append(issues, pageIssue(page, "headings/first-not-h1",
					model.WithElement(headingTag(h.Level)),
					model.WithLine(h.Line)))
			}
			continue
		}

		prev := page.HeadingOrder[i-1].Level
		if h.Level > prev+1 {
			issues = append(issues, pageIssue(page, "headings/skipped-level",
				model.WithElement(headingTag(h.Level)+" "+h.Text),
				model.WithLine(h.Line),
				model.WithValues(headingTag(prev)+" -> "+headingTag(h.Level), headingTag(prev+1)),
				model.WithMessage(fmt.Sprintf("Heading level skipped from h%d to h%d", prev, h.Level))))
		}
	}
	return issues
}

func headingTag(level int) string {
	return "h" + strconv.Itoa(level)
}
