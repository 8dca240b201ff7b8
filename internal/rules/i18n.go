package rules

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/nao1215/seoscan/internal/domain"
	"github.com/nao1215/seoscan/internal/model"
)

const xDefault = "x-default"

// CheckHreflang checks the hreflang annotations of a page.
func CheckHreflang(env *Env, page *model.PageRecord) []model.Issue {
	if len(page.Hreflangs) == 0 {
		return nil
	}

	var issues []model.Issue
	seen := make(map[string]struct{}, len(page.Hreflangs))
	hasSelf, hasDefault := false, false

	for _, h := range page.Hreflangs {
		element := `hreflang="` + h.Lang + `" href="` + h.URL + `"`
		lang := strings.ToLower(h.Lang)

		if lang == xDefault {
			hasDefault = true
		} else if _, err := language.Parse(h.Lang); err != nil {
			issues = append(issues, pageIssue(page, "i18n/hreflang-invalid-code",
				model.WithElement(element), model.WithValues(h.Lang, "an ISO 639-1 code with optional region")))
		}

		if _, dup := seen[lang]; dup {
			issues = append(issues, pageIssue(page, "i18n/hreflang-duplicate-lang", model.WithElement(element)))
		}
		seen[lang] = struct{}{}

		if !domain.IsAbsolute(h.URL) {
			issues = append(issues, pageIssue(page, "i18n/hreflang-relative-url",
				model.WithElement(element), model.WithValues(h.URL, "an absolute URL")))
			continue
		}

		// Alternates on other hosts may be legitimate; only flag the www flip.
		if r := env.Classifier.Classify(h.URL); r.Issue == domain.KindWWWMismatch {
			issues = append(issues, pageIssue(page, "i18n/hreflang-www-mismatch",
				model.WithElement(element), model.WithValues(r.Hostname, r.ExpectedHostname)))
		}
		if sameURL(h.URL, page.URL) {
			hasSelf = true
		}
	}

	if !hasSelf && env.Classifier.CanValidate() {
		issues = append(issues, pageIssue(page, "i18n/hreflang-missing-self", model.WithValues("", page.URL)))
	}
	if !hasDefault {
		issues = append(issues, pageIssue(page, "i18n/hreflang-missing-x-default"))
	}
	return issues
}
