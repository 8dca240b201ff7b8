package rules

import (
	"context"

	"github.com/nao1215/seoscan/internal/model"
)

// CheckOrphans reports pages that no other page links to. Home pages and
// pages excluded from indexing are exempt.
func CheckOrphans(ctx context.Context, env *Env, site *model.SiteIndex) []model.Issue {
	reached := Reachable(env, site)

	var issues []model.Issue
	for _, page := range site.SortedPages() {
		if ctx.Err() != nil {
			return issues
		}
		if IsHomepage(page.RelativePath) || page.IsNoindex() {
			continue
		}
		if _, ok := reached[page.RelativePath]; ok {
			continue
		}
		issues = append(issues, pageIssue(page, "links/orphan-page"))
	}
	return issues
}

// Reachable returns the files reached by internal links from other pages.
func Reachable(env *Env, site *model.SiteIndex) map[string]struct{} {
	reached := make(map[string]struct{})
	for _, page := range site.Pages {
		for _, link := range page.Links {
			if !link.IsInternal {
				continue
			}
			file, found, ok := resolveFile(site, page.RelativePath, link.Href)
			if !ok || !found || file == page.RelativePath {
				continue
			}
			reached[file] = struct{}{}
		}
	}
	return reached
}

// CheckBrokenLinks reports internal links whose target is not in the
// output tree.
func CheckBrokenLinks(ctx context.Context, env *Env, site *model.SiteIndex) []model.Issue {
	var issues []model.Issue
	for _, page := range site.SortedPages() {
		if ctx.Err() != nil {
			return issues
		}
		for _, link := range page.Links {
			if !link.IsInternal || !isLocalReference(env, link.Href) {
				continue
			}
			file, found, ok := resolveFile(site, page.RelativePath, link.Href)
			if !ok || found || site.HasDir(file) {
				continue
			}
			issues = append(issues, pageIssue(page, "links/broken-internal",
				model.WithElement(linkElement(link)),
				model.WithLine(link.Line),
				model.WithValues(file, "an existing file")))
		}
	}
	return issues
}
