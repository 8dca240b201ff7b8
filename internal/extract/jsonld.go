package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/seoscan/internal/model"
)

const jsonLDType = "application/ld+json"

// ArticleTypes are the schema.org types that make a page an article.
var ArticleTypes = map[string]struct{}{
	"Article":            {},
	"NewsArticle":        {},
	"BlogPosting":        {},
	"TechArticle":        {},
	"ScholarlyArticle":   {},
	"Report":             {},
	"SocialMediaPosting": {},
	"LiveBlogPosting":    {},
}

// extractJSONLD parses every ld+json script. A script that does not parse
// becomes a block carrying only the parse error. Top-level arrays and
// @graph members become one block each; graph members inherit @context.
func extractJSONLD(doc *goquery.Document, page *model.PageRecord) {
	doc.Find("script[type]").Each(func(_ int, s *goquery.Selection) {
		if !strings.EqualFold(strings.TrimSpace(s.AttrOr("type", "")), jsonLDType) {
			return
		}
		raw := strings.TrimSpace(s.Text())

		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			page.JSONLD = append(page.JSONLD, model.JSONLDBlock{ParseError: err.Error(), Raw: raw})
			return
		}
		page.JSONLD = append(page.JSONLD, flattenJSONLD(v, nil, raw)...)
	})
}

func flattenJSONLD(v any, context any, raw string) []model.JSONLDBlock {
	switch t := v.(type) {
	case []any:
		var blocks []model.JSONLDBlock
		for _, item := range t {
			blocks = append(blocks, flattenJSONLD(item, context, raw)...)
		}
		return blocks
	case map[string]any:
		if ctx, ok := t["@context"]; ok {
			context = ctx
		}
		if graph, ok := t["@graph"].([]any); ok {
			return flattenJSONLD(graph, context, raw)
		}
		if _, ok := t["@context"]; !ok && context != nil {
			t["@context"] = context
		}
		return []model.JSONLDBlock{{Data: t, Types: typesOf(t), Raw: raw}}
	default:
		return nil
	}
}

// typesOf returns @type as a list whether it is a scalar or an array.
func typesOf(obj map[string]any) []string {
	switch t := obj["@type"].(type) {
	case string:
		return []string{t}
	case []any:
		var types []string
		for _, item := range t {
			if s, ok := item.(string); ok {
				types = append(types, s)
			}
		}
		return types
	default:
		return nil
	}
}

func isArticle(page *model.PageRecord) bool {
	if strings.EqualFold(page.OpenGraph["og:type"], "article") {
		return true
	}
	for _, block := range page.JSONLD {
		for _, typ := range block.Types {
			if _, ok := ArticleTypes[typ]; ok {
				return true
			}
		}
	}
	return false
}

func hasAuthorInfo(doc *goquery.Document, page *model.PageRecord) bool {
	if metaProperty(doc, "article:author") != "" {
		return true
	}
	for _, block := range page.JSONLD {
		if author, ok := block.Data["author"]; ok && author != nil {
			return true
		}
	}
	return false
}
