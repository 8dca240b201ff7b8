package rules

import (
	"strconv"
	"strings"

	"github.com/nao1215/seoscan/internal/domain"
	"github.com/nao1215/seoscan/internal/model"
)

// genericLinkTexts say nothing about the link target.
var genericLinkTexts = map[string]struct{}{
	"click here": {},
	"here":       {},
	"read more":  {},
	"more":       {},
	"learn more": {},
	"link":       {},
	"this page":  {},
	"continue":   {},
	"this":       {},
}

// CheckLinks checks every link of a page.
func CheckLinks(env *Env, page *model.PageRecord) []model.Issue {
	var issues []model.Issue

	if len(page.Links) > MaxLinksPerPage {
		issues = append(issues, pageIssue(page, "links/excessive",
			model.WithValues(strconv.Itoa(len(page.Links)), "at most "+strconv.Itoa(MaxLinksPerPage))))
	}

	for _, link := range page.Links {
		issues = append(issues, checkLink(env, page, link)...)
	}
	return issues
}

func checkLink(env *Env, page *model.PageRecord, link model.Link) []model.Issue {
	var issues []model.Issue
	opts := []model.IssueOption{model.WithElement(linkElement(link)), model.WithLine(link.Line)}
	lower := strings.ToLower(link.Href)

	switch {
	case link.Href == "":
		issues = append(issues, pageIssue(page, "links/empty-href", opts...))
	case strings.HasPrefix(lower, "javascript:"):
		issues = append(issues, pageIssue(page, "links/javascript-href", opts...))
	}

	text := link.AccessibleText()
	if text == "" {
		issues = append(issues, pageIssue(page, "links/no-text", opts...))
	} else if _, ok := genericLinkTexts[strings.ToLower(strings.Trim(text, " .…>»"))]; ok {
		issues = append(issues, pageIssue(page, "links/generic-text",
			append(opts, model.WithValues(text, "descriptive link text"))...))
	}

	if strings.EqualFold(link.Target, "_blank") && link.IsExternal &&
		!link.HasRel("noopener") && !link.HasRel("noreferrer") {
		issues = append(issues, pageIssue(page, "links/unsafe-blank-target", opts...))
	}

	if !link.IsInternal {
		return issues
	}

	if link.HasRel("nofollow") {
		issues = append(issues, pageIssue(page, "links/internal-nofollow", opts...))
	}
	if domain.IsAbsolute(link.Href) {
		if env.Classifier.Scheme() == "https" && domain.IsHTTP(link.Href) {
			issues = append(issues, pageIssue(page, "links/internal-http", opts...))
		}
		if env.Classifier.Classify(link.Href).Issue == domain.KindWWWMismatch {
			issues = append(issues, pageIssue(page, "links/www-mismatch",
				append(opts, model.WithValues(domain.Hostname(link.Href), env.Classifier.ExpectedHostname()))...))
		}
	}
	return issues
}

// linkElement renders a stable excerpt for a link.
func linkElement(link model.Link) string {
	return `<a href="` + link.Href + `">`
}
