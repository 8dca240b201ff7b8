package extract

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/nao1215/seoscan/internal/domain"
	"github.com/nao1215/seoscan/internal/model"
)

// ErrOutsideRoot is returned when a file does not live below the output root.
var ErrOutsideRoot = errors.New("file is outside the output root")

// Extractor builds page records. It holds no mutable state and may be used
// from many goroutines at once.
type Extractor struct {
	classifier *domain.Classifier
}

// New returns an Extractor classifying links with classifier.
func New(classifier *domain.Classifier) *Extractor {
	return &Extractor{classifier: classifier}
}

// Extract parses raw, the content of the file at path below root.
func (e *Extractor) Extract(path string, raw []byte, root string) (*model.PageRecord, error) {
	rel, err := RelativePath(root, path)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", rel, err)
	}

	page := &model.PageRecord{
		Path:         path,
		RelativePath: rel,
		URL:          PageURL(e.classifier.BaseURL(), rel),
		Raw:          string(raw),
		Size:         int64(len(raw)),
		OpenGraph:    make(map[string]string),
		Twitter:      make(map[string]string),
		HasDoctype:   hasDoctype(doc),
	}

	lines := indexLines(raw)
	lines.reconcile(doc.Get(0))

	extractHead(doc, page)
	extractHeadings(doc, page, lines)
	e.extractLinks(doc, page, lines)
	extractImages(doc, page, lines)
	extractVideos(doc, page, lines)
	extractForms(doc, page)
	extractJSONLD(doc, page)
	extractContent(doc, page)
	extractIDs(doc, page)

	page.IsArticle = isArticle(page)
	page.HasAuthorInfo = hasAuthorInfo(doc, page)

	return page, nil
}

// RelativePath returns path relative to root with forward slashes.
func RelativePath(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return rel, nil
}

func hasDoctype(doc *goquery.Document) bool {
	for _, root := range doc.Nodes {
		for c := root.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.DoctypeNode {
				return true
			}
		}
	}
	return false
}

// extractIDs records every non-empty id attribute in document order.
func extractIDs(doc *goquery.Document, page *model.PageRecord) {
	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		if id := strings.TrimSpace(s.AttrOr("id", "")); id != "" {
			page.IDs = append(page.IDs, id)
		}
	})
}

// normalizeSpace collapses runs of whitespace into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// startTag renders the start tag of the first node in s with its attributes
// in source order. It is used as a stable element excerpt.
func startTag(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	n := s.Get(0)

	var b strings.Builder
	b.WriteString("<")
	b.WriteString(n.Data)
	for _, a := range n.Attr {
		b.WriteString(" ")
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	return b.String()
}
