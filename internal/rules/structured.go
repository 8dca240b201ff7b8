package rules

import (
	"strings"

	"github.com/nao1215/seoscan/internal/model"
)

// CheckStructuredData checks JSON-LD blocks and validates them against the
// registered schemas.
func CheckStructuredData(env *Env, page *model.PageRecord) []model.Issue {
	if len(page.JSONLD) == 0 {
		if page.IsNoindex() {
			return nil
		}
		return []model.Issue{pageIssue(page, "structured-data/missing")}
	}

	var issues []model.Issue
	for _, block := range page.JSONLD {
		if block.Invalid() {
			issues = append(issues, pageIssue(page, "structured-data/invalid-json",
				model.WithElement(block.Raw),
				model.WithMessage("Invalid JSON-LD: "+block.ParseError)))
			continue
		}

		typeLabel := strings.Join(block.Types, ",")
		if _, ok := block.Data["@context"]; !ok {
			issues = append(issues, pageIssue(page, "structured-data/missing-context",
				model.WithElement(typeLabel)))
		}
		if len(block.Types) == 0 {
			issues = append(issues, pageIssue(page, "structured-data/missing-type",
				model.WithElement(block.Raw)))
			continue
		}

		if env.Validator == nil {
			continue
		}
		for _, typ := range block.Types {
			registered, violations := env.Validator.Validate(typ, block.Data)
			if !registered {
				continue
			}
			for _, v := range violations {
				issues = append(issues, pageIssue(page, "structured-data/schema-violation",
					model.WithElement(typ+" "+v.Path+" "+v.Keyword),
					model.WithValues(v.Path, v.Keyword),
					model.WithMessage(typ+": "+v.String())))
			}
		}
	}

	if page.IsArticle && !page.HasAuthorInfo {
		issues = append(issues, pageIssue(page, "structured-data/article-author-missing"))
	}
	return issues
}
