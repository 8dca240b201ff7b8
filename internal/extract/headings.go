package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/seoscan/internal/model"
)

// extractHeadings walks h1..h6 once in document order, filling both the
// per-level lists and the ordered sequence.
func extractHeadings(doc *goquery.Document, page *model.PageRecord, lines lineIndex) {
	var seen [model.HeadingLevels]int

	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		level := int(tag[1] - '0')
		text := normalizeSpace(s.Text())

		page.Headings[level-1] = append(page.Headings[level-1], text)
		page.HeadingOrder = append(page.HeadingOrder, model.Heading{
			Level: level,
			Text:  text,
			Line:  lines.line(tag, seen[level-1], s.Get(0)),
		})
		seen[level-1]++
	})
}
