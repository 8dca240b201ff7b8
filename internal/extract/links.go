package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/seoscan/internal/domain"
	"github.com/nao1215/seoscan/internal/model"
)

// specialSchemes are hrefs that neither navigate inside nor outside the site.
var specialSchemes = []string{"mailto:", "tel:", "javascript:", "data:", "sms:"}

// extractLinks collects every <a href> with its scope.
func (e *Extractor) extractLinks(doc *goquery.Document, page *model.PageRecord, lines lineIndex) {
	doc.Find("a").Each(func(i int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)

		var alts []string
		s.Find("img[alt]").Each(func(_ int, img *goquery.Selection) {
			if alt := strings.TrimSpace(img.AttrOr("alt", "")); alt != "" {
				alts = append(alts, alt)
			}
		})

		link := model.Link{
			Href:      href,
			Text:      normalizeSpace(s.Text()),
			AriaLabel: strings.TrimSpace(s.AttrOr("aria-label", "")),
			Title:     strings.TrimSpace(s.AttrOr("title", "")),
			Rel:       strings.TrimSpace(s.AttrOr("rel", "")),
			Target:    strings.TrimSpace(s.AttrOr("target", "")),
			ImageAlt:  strings.Join(alts, " "),
			Line:      lines.line("a", i, s.Get(0)),
		}
		link.IsInternal, link.IsExternal = e.classifyHref(href)
		page.Links = append(page.Links, link)
	})
}

// classifyHref decides the navigation scope of href. Relative hrefs are
// internal without any lookup. Absolute hrefs are internal only for the
// canonical host or its www twin; a same-apex subdomain is external.
func (e *Extractor) classifyHref(href string) (internal, external bool) {
	lower := strings.ToLower(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return false, false
	}
	for _, scheme := range specialSchemes {
		if strings.HasPrefix(lower, scheme) {
			return false, false
		}
	}

	if IsRelativeHref(href) {
		return true, false
	}

	r := e.classifier.Classify(href)
	if r.IsValid || r.Issue == domain.KindWWWMismatch {
		return true, false
	}
	return false, true
}

// IsRelativeHref reports whether href has neither a scheme nor an authority.
func IsRelativeHref(href string) bool {
	if strings.HasPrefix(href, "//") {
		return false
	}
	if strings.HasPrefix(href, "/") || strings.HasPrefix(href, "./") || strings.HasPrefix(href, "../") {
		return true
	}
	return !domain.IsAbsolute(href) && !hasScheme(href)
}

// hasScheme reports whether href starts with an RFC 3986 scheme.
func hasScheme(href string) bool {
	i := strings.Index(href, ":")
	if i <= 0 {
		return false
	}
	for j, r := range href[:i] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case j > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// extractImages collects every <img>. Absent attributes stay nil.
func extractImages(doc *goquery.Document, page *model.PageRecord, lines lineIndex) {
	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		page.Images = append(page.Images, model.Image{
			Src:    strings.TrimSpace(s.AttrOr("src", "")),
			Alt:    optionalAttr(s, "alt"),
			Width:  optionalAttr(s, "width"),
			Height: optionalAttr(s, "height"),
			Line:   lines.line("img", i, s.Get(0)),
		})
	})
}

// extractVideos collects every <video>, falling back to its first <source>.
func extractVideos(doc *goquery.Document, page *model.PageRecord, lines lineIndex) {
	doc.Find("video").Each(func(i int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" {
			src = strings.TrimSpace(s.Find("source[src]").First().AttrOr("src", ""))
		}
		page.Videos = append(page.Videos, model.Video{
			Src:    src,
			Poster: strings.TrimSpace(s.AttrOr("poster", "")),
			Line:   lines.line("video", i, s.Get(0)),
		})
	})
}

func optionalAttr(s *goquery.Selection, name string) *string {
	v, ok := s.Attr(name)
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	return &v
}
