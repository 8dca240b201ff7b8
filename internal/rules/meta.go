package rules

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/nao1215/seoscan/internal/model"
)

// CheckMeta checks title, description, viewport, charset, lang and robots.
func CheckMeta(env *Env, page *model.PageRecord) []model.Issue {
	var issues []model.Issue
	issues = append(issues, checkTitle(page)...)
	issues = append(issues, checkDescription(page)...)
	issues = append(issues, checkViewport(page)...)
	issues = append(issues, checkCharset(page)...)
	issues = append(issues, checkLang(env, page)...)

	if page.IsNoindex() {
		issues = append(issues, pageIssue(page, "meta/robots-noindex", model.WithElement(page.MetaRobots)))
	}
	if page.IsNofollow() {
		issues = append(issues, pageIssue(page, "meta/robots-nofollow", model.WithElement(page.MetaRobots)))
	}
	return issues
}

func checkTitle(page *model.PageRecord) []model.Issue {
	var issues []model.Issue
	if page.TitleCount > 1 {
		issues = append(issues, pageIssue(page, "meta/title-multiple",
			model.WithValues(strconv.Itoa(page.TitleCount), "1")))
	}
	if page.Title == "" {
		return append(issues, pageIssue(page, "meta/title-missing"))
	}

	n := utf8.RuneCountInString(page.Title)
	switch {
	case n < TitleMinLength:
		issues = append(issues, pageIssue(page, "meta/title-too-short",
			model.WithElement(page.Title),
			model.WithValues(chars(n), rangeOf(TitleMinLength, TitleMaxLength))))
	case n > TitleMaxLength:
		issues = append(issues, pageIssue(page, "meta/title-too-long",
			model.WithElement(page.Title),
			model.WithValues(chars(n), rangeOf(TitleMinLength, TitleMaxLength))))
	}
	return issues
}

func checkDescription(page *model.PageRecord) []model.Issue {
	if page.MetaDescription == "" {
		return []model.Issue{pageIssue(page, "meta/description-missing")}
	}

	var issues []model.Issue
	n := utf8.RuneCountInString(page.MetaDescription)
	switch {
	case n < DescriptionMinLength:
		issues = append(issues, pageIssue(page, "meta/description-too-short",
			model.WithValues(chars(n), rangeOf(DescriptionMinLength, DescriptionMaxLength))))
	case n > DescriptionMaxLength:
		issues = append(issues, pageIssue(page, "meta/description-too-long",
			model.WithValues(chars(n), rangeOf(DescriptionMinLength, DescriptionMaxLength))))
	}

	if page.Title != "" && strings.EqualFold(page.Title, page.MetaDescription) {
		issues = append(issues, pageIssue(page, "meta/description-equals-title",
			model.WithElement(page.MetaDescription)))
	}
	return issues
}

func checkViewport(page *model.PageRecord) []model.Issue {
	if page.Viewport == "" {
		return []model.Issue{pageIssue(page, "meta/viewport-missing")}
	}

	var issues []model.Issue
	props := parseViewport(page.Viewport)
	if !strings.EqualFold(props["width"], "device-width") {
		issues = append(issues, pageIssue(page, "meta/viewport-not-responsive",
			model.WithElement(page.Viewport),
			model.WithValues(page.Viewport, "width=device-width")))
	}

	zoomLocked := strings.EqualFold(props["user-scalable"], "no") || props["user-scalable"] == "0"
	if maxScale, err := strconv.ParseFloat(props["maximum-scale"], 64); err == nil && maxScale <= 1 {
		zoomLocked = true
	}
	if zoomLocked {
		issues = append(issues, pageIssue(page, "meta/viewport-zoom-disabled",
			model.WithElement(page.Viewport)))
	}
	return issues
}

// parseViewport splits "a=b, c=d" into lower-case keys.
func parseViewport(content string) map[string]string {
	props := make(map[string]string)
	for _, part := range strings.FieldsFunc(content, func(r rune) bool { return r == ',' || r == ';' }) {
		k, v, _ := strings.Cut(part, "=")
		props[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return props
}

func checkCharset(page *model.PageRecord) []model.Issue {
	switch {
	case page.Charset == "":
		return []model.Issue{pageIssue(page, "meta/charset-missing")}
	case !isUTF8(page.Charset):
		return []model.Issue{pageIssue(page, "meta/charset-not-utf8",
			model.WithValues(page.Charset, "utf-8"))}
	}
	return nil
}

func isUTF8(charset string) bool {
	return strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8")
}

func checkLang(env *Env, page *model.PageRecord) []model.Issue {
	if page.Lang == "" {
		return []model.Issue{pageIssue(page, "meta/lang-missing")}
	}

	tag, err := language.Parse(page.Lang)
	if err != nil {
		return []model.Issue{pageIssue(page, "meta/lang-invalid",
			model.WithValues(page.Lang, "a BCP 47 language tag"))}
	}

	if len(env.Languages) > 0 && !languageConfigured(env.Languages, tag) {
		return []model.Issue{pageIssue(page, "meta/lang-not-configured",
			model.WithValues(page.Lang, strings.Join(env.Languages, ", ")))}
	}
	return nil
}

// languageConfigured compares base languages, so "en-US" matches "en".
func languageConfigured(languages []string, tag language.Tag) bool {
	base, _ := tag.Base()
	return slices.ContainsFunc(languages, func(l string) bool {
		configured, err := language.Parse(l)
		if err != nil {
			return strings.EqualFold(l, tag.String())
		}
		b, _ := configured.Base()
		return b == base
	})
}

func chars(n int) string {
	return fmt.Sprintf("%d characters", n)
}

func rangeOf(lo, hi int) string {
	return fmt.Sprintf("%d-%d characters", lo, hi)
}
