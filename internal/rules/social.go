package rules

import (
	"strings"

	"github.com/nao1215/seoscan/internal/domain"
	"github.com/nao1215/seoscan/internal/model"
)

// validTwitterCards are the accepted twitter:card values.
var validTwitterCards = map[string]struct{}{
	"summary":             {},
	"summary_large_image": {},
	"app":                 {},
	"player":              {},
}

// requiredOpenGraph maps Open Graph properties to their missing-rule id.
var requiredOpenGraph = []struct {
	property string
	ruleID   string
}{
	{"og:title", "social/og-title-missing"},
	{"og:description", "social/og-description-missing"},
	{"og:image", "social/og-image-missing"},
	{"og:url", "social/og-url-missing"},
	{"og:type", "social/og-type-missing"},
}

// CheckSocial checks Open Graph and Twitter card tags. Pages excluded from
// indexing are not shared and are skipped.
func CheckSocial(env *Env, page *model.PageRecord) []model.Issue {
	if page.IsNoindex() {
		return nil
	}

	var issues []model.Issue
	for _, req := range requiredOpenGraph {
		if page.OpenGraph[req.property] == "" {
			issues = append(issues, pageIssue(page, req.ruleID))
		}
	}

	if img := page.OpenGraph["og:image"]; img != "" && !domain.IsAbsolute(img) {
		issues = append(issues, pageIssue(page, "social/og-image-relative",
			model.WithElement(img), model.WithValues(img, "an absolute URL")))
	}

	// A subdomain or foreign og:url may be intentional, only the www flip
	// is reported.
	if u := page.OpenGraph["og:url"]; u != "" {
		if r := env.Classifier.Classify(u); r.Issue == domain.KindWWWMismatch {
			issues = append(issues, pageIssue(page, "social/og-url-www-mismatch",
				model.WithElement(u), model.WithValues(r.Hostname, r.ExpectedHostname)))
		}
	}

	card, ok := page.Twitter["twitter:card"]
	switch {
	case !ok || card == "":
		issues = append(issues, pageIssue(page, "social/twitter-card-missing"))
	default:
		if _, valid := validTwitterCards[strings.ToLower(card)]; !valid {
			issues = append(issues, pageIssue(page, "social/twitter-card-invalid",
				model.WithElement(card), model.WithValues(card, "summary, summary_large_image, app or player")))
		}
	}
	return issues
}
