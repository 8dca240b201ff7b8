package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/seoscan/internal/model"
)

const (
	ogPrefix      = "og:"
	twitterPrefix = "twitter:"
)

// extractHead reads title, meta tags, link relations and the html lang.
func extractHead(doc *goquery.Document, page *model.PageRecord) {
	titles := doc.Find("title").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Closest("svg").Length() == 0
	})
	page.TitleCount = titles.Length()
	if page.TitleCount > 0 {
		page.Title = normalizeSpace(titles.First().Text())
	}

	page.Lang = strings.TrimSpace(doc.Find("html").First().AttrOr("lang", ""))

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content := strings.TrimSpace(s.AttrOr("content", ""))

		if charset, ok := s.Attr("charset"); ok {
			page.Charset = strings.TrimSpace(charset)
		}
		if equiv := strings.ToLower(s.AttrOr("http-equiv", "")); equiv == "content-type" && page.Charset == "" {
			page.Charset = charsetFromContentType(content)
		}

		name := strings.ToLower(strings.TrimSpace(s.AttrOr("name", "")))
		property := strings.ToLower(strings.TrimSpace(s.AttrOr("property", "")))

		switch name {
		case "description":
			if page.MetaDescription == "" {
				page.MetaDescription = normalizeSpace(content)
			}
		case "robots":
			page.MetaRobots = content
		case "viewport":
			page.Viewport = content
		}

		// Open Graph uses property; twitter cards are found under both.
		if strings.HasPrefix(property, ogPrefix) {
			setOnce(page.OpenGraph, property, content)
		}
		for _, key := range []string{name, property} {
			if strings.HasPrefix(key, twitterPrefix) {
				setOnce(page.Twitter, key, content)
			}
		}
	})

	doc.Find("link[rel]").Each(func(_ int, s *goquery.Selection) {
		rels := strings.Fields(strings.ToLower(s.AttrOr("rel", "")))
		href := strings.TrimSpace(s.AttrOr("href", ""))

		for _, rel := range rels {
			switch rel {
			case "canonical":
				if page.Canonical == "" {
					page.Canonical = href
				}
			case "icon", "apple-touch-icon":
				page.HasFavicon = true
			case "alternate":
				if lang, ok := s.Attr("hreflang"); ok {
					page.Hreflangs = append(page.Hreflangs, model.Hreflang{
						Lang: strings.TrimSpace(lang),
						URL:  href,
					})
				}
			}
		}
	})
}

// metaProperty returns the content of the first meta tag whose property or
// name equals key.
func metaProperty(doc *goquery.Document, key string) string {
	var value string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		p := strings.ToLower(s.AttrOr("property", s.AttrOr("name", "")))
		if p == key {
			value = strings.TrimSpace(s.AttrOr("content", ""))
			return false
		}
		return true
	})
	return value
}

func charsetFromContentType(content string) string {
	for _, part := range strings.Split(content, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if ok && strings.EqualFold(strings.TrimSpace(k), "charset") {
			return strings.Trim(strings.TrimSpace(v), `"'`)
		}
	}
	return ""
}

func setOnce(m map[string]string, key, value string) {
	if _, ok := m[key]; !ok {
		m[key] = value
	}
}
