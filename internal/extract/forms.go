package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/seoscan/internal/model"
)

// HTML element name constants for form field detection.
const (
	htmlElementInput    = "input"
	htmlElementSelect   = "select"
	htmlElementTextarea = "textarea"
)

// exemptInputTypes never need a label.
var exemptInputTypes = map[string]struct{}{
	"hidden": {},
	"submit": {},
	"button": {},
	"reset":  {},
	"image":  {},
}

// extractForms records form controls that have no accessible label.
func extractForms(doc *goquery.Document, page *model.PageRecord) {
	labelFor := make(map[string]struct{})
	doc.Find("label[for]").Each(func(_ int, s *goquery.Selection) {
		if id := strings.TrimSpace(s.AttrOr("for", "")); id != "" {
			labelFor[id] = struct{}{}
		}
	})

	selector := strings.Join([]string{htmlElementInput, htmlElementSelect, htmlElementTextarea}, ", ")
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		inputType := strings.ToLower(strings.TrimSpace(s.AttrOr("type", "")))
		if tag == htmlElementInput {
			if _, ok := exemptInputTypes[inputType]; ok {
				return
			}
		}

		id := strings.TrimSpace(s.AttrOr("id", ""))
		if hasLabel(s, id, labelFor) {
			return
		}

		page.UnlabeledInputs = append(page.UnlabeledInputs, model.FormInput{
			Tag:     tag,
			Type:    inputType,
			Name:    strings.TrimSpace(s.AttrOr("name", "")),
			ID:      id,
			Element: startTag(s),
		})
	})
}

func hasLabel(s *goquery.Selection, id string, labelFor map[string]struct{}) bool {
	if id != "" {
		if _, ok := labelFor[id]; ok {
			return true
		}
	}
	if s.ParentsFiltered("label").Length() > 0 {
		return true
	}
	for _, attr := range []string{"aria-label", "aria-labelledby", "title"} {
		if strings.TrimSpace(s.AttrOr(attr, "")) != "" {
			return true
		}
	}
	return false
}
