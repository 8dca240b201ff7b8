package rules

import (
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/nao1215/seoscan/internal/domain"
	"github.com/nao1215/seoscan/internal/model"
)

// CheckTechnical checks doctype, favicon, canonical and document size.
func CheckTechnical(env *Env, page *model.PageRecord) []model.Issue {
	var issues []model.Issue

	if !page.HasDoctype {
		issues = append(issues, pageIssue(page, "technical/doctype-missing"))
	}
	if !page.HasFavicon {
		issues = append(issues, pageIssue(page, "technical/favicon-missing"))
	}
	if page.Size > MaxHTMLBytes {
		issues = append(issues, pageIssue(page, "technical/html-too-large",
			model.WithValues(humanize.IBytes(uint64(page.Size)), "at most "+humanize.IBytes(MaxHTMLBytes))))
	}

	return append(issues, checkCanonical(env, page)...)
}

func checkCanonical(env *Env, page *model.PageRecord) []model.Issue {
	canonical := page.Canonical
	if canonical == "" {
		if page.IsNoindex() {
			return nil
		}
		return []model.Issue{pageIssue(page, "technical/canonical-missing",
			model.WithValues("", page.URL))}
	}

	if !domain.IsAbsolute(canonical) {
		return []model.Issue{pageIssue(page, "technical/canonical-relative",
			model.WithElement(canonical))}
	}

	c := env.Classifier
	if !c.CanValidate() {
		return nil
	}

	r := c.Classify(canonical)
	switch r.Issue {
	case domain.KindWrongDomain:
		return []model.Issue{pageIssue(page, "technical/canonical-wrong-domain",
			model.WithElement(canonical), model.WithValues(r.Hostname, r.ExpectedHostname))}
	case domain.KindWWWMismatch:
		return []model.Issue{pageIssue(page, "technical/canonical-www-mismatch",
			model.WithElement(canonical), model.WithValues(r.Hostname, r.ExpectedHostname))}
	case domain.KindSubdomain:
		return []model.Issue{pageIssue(page, "technical/canonical-subdomain",
			model.WithElement(canonical), model.WithValues(r.Hostname, r.ExpectedHostname))}
	}

	var issues []model.Issue
	if c.Scheme() == "https" && domain.IsHTTP(canonical) {
		issues = append(issues, pageIssue(page, "technical/canonical-http",
			model.WithElement(canonical)))
	}
	if !sameURL(canonical, page.URL) {
		issues = append(issues, pageIssue(page, "technical/canonical-points-elsewhere",
			model.WithElement(canonical), model.WithValues(canonical, page.URL)))
	}
	return issues
}

// sameURL compares two absolute URLs ignoring scheme, host case and a
// trailing slash.
func sameURL(a, b string) bool {
	return normalizeURL(a) == normalizeURL(b)
}

func normalizeURL(raw string) string {
	host := domain.Hostname(raw)
	_, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return strings.TrimSuffix(raw, "/")
	}
	path := ""
	if i := strings.Index(rest, "/"); i >= 0 {
		path = rest[i:]
	}
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSuffix(path, "/")
	path = strings.TrimSuffix(path, ".html")
	path = strings.TrimSuffix(path, "/index")
	return host + path
}
