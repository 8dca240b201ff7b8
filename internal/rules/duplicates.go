package rules

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/nao1215/seoscan/internal/model"
)

// CheckDuplicates reports pages sharing a title, description, h1,
// canonical URL or main content.
func CheckDuplicates(_ context.Context, env *Env, site *model.SiteIndex) []model.Issue {
	var issues []model.Issue
	issues = append(issues, duplicateGroups(site, site.Titles, "duplicates/title", nil)...)
	issues = append(issues, duplicateGroups(site, site.Descriptions, "duplicates/description", nil)...)
	issues = append(issues, duplicateGroups(site, site.H1s, "duplicates/h1", nil)...)
	issues = append(issues, duplicateGroups(site, site.Canonicals, "duplicates/canonical", canonicalFilter(env))...)
	issues = append(issues, duplicateContent(site)...)
	return issues
}

// groupFilter narrows a group of pages sharing a value to those that are
// reported.
type groupFilter func(pages []string) []string

func duplicateGroups(site *model.SiteIndex, groups map[string][]string, ruleID string, filter groupFilter) []model.Issue {
	var issues []model.Issue
	for _, value := range sortedKeys(groups) {
		pages := groups[value]
		if len(pages) < 2 {
			continue
		}
		if filter != nil {
			pages = filter(pages)
		}
		issues = append(issues, duplicateIssues(site, pages, ruleID, value)...)
	}
	return issues
}

// canonicalFilter treats pages under distinct language prefixes as
// translations of one page. They are reported only when there are more of
// them than configured languages.
func canonicalFilter(env *Env) groupFilter {
	return func(pages []string) []string {
		var variants, others []string
		for _, rel := range pages {
			if HasLanguagePrefix(rel) {
				variants = append(variants, rel)
			} else {
				others = append(others, rel)
			}
		}
		if len(variants) > env.LanguageCount() {
			return pages
		}
		if len(others) >= 2 {
			return others
		}
		return nil
	}
}

func duplicateContent(site *model.SiteIndex) []model.Issue {
	var issues []model.Issue
	for _, digest := range sortedKeys(site.Contents) {
		pages := site.Contents[digest]
		if len(pages) < 2 {
			continue
		}
		for _, rel := range pages {
			page := site.Pages[rel]
			issues = append(issues, pageIssue(page, "duplicates/content",
				model.WithValues(fmt.Sprintf("same main content as %d other page(s)", len(pages)-1), "unique content"),
				model.WithMessage("Main content duplicated on: "+strings.Join(others(pages, rel), ", "))))
		}
	}
	return issues
}

func duplicateIssues(site *model.SiteIndex, pages []string, ruleID, value string) []model.Issue {
	if len(pages) < 2 {
		return nil
	}
	info := model.GetRuleInfo(ruleID)
	issues := make([]model.Issue, 0, len(pages))
	for _, rel := range pages {
		page, ok := site.Pages[rel]
		if !ok {
			continue
		}
		issues = append(issues, pageIssue(page, ruleID,
			model.WithElement(value),
			model.WithValues(fmt.Sprintf("shared with %d other page(s)", len(pages)-1), "unique"),
			model.WithMessage(info.Name+", also on: "+strings.Join(others(pages, rel), ", "))))
	}
	return issues
}

func others(pages []string, self string) []string {
	out := make([]string, 0, len(pages)-1)
	for _, rel := range pages {
		if rel != self {
			out = append(out, rel)
		}
	}
	return out
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
