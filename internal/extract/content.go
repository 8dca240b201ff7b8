package extract

import (
	"encoding/hex"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/crypto/sha3"
	"golang.org/x/net/html"

	"github.com/nao1215/seoscan/internal/model"
)

// MinDigestWords is the smallest main text that gets a content digest.
// Shorter pages share boilerplate too easily to be compared.
const MinDigestWords = 50

const mainSelector = `main, [role="main"]`

// nonText elements do not contribute words.
var nonText = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"template": {},
}

// extractContent counts the words of the main landmark, or of body when
// there is none, and digests the normalized text.
func extractContent(doc *goquery.Document, page *model.PageRecord) {
	scope := doc.Find(mainSelector).First()
	page.HasMainLandmark = scope.Length() > 0
	if !page.HasMainLandmark {
		scope = doc.Find("body").First()
	}
	if scope.Length() == 0 {
		return
	}

	var b strings.Builder
	for _, n := range scope.Nodes {
		collectText(n, &b)
	}
	words := strings.Fields(b.String())
	page.WordCount = len(words)

	if page.WordCount >= MinDigestWords {
		sum := sha3.Sum256([]byte(strings.ToLower(strings.Join(words, " "))))
		page.ContentDigest = hex.EncodeToString(sum[:])
	}
}

// collectText writes every visible text node below n separated by spaces,
// so adjacent block elements do not glue words together.
func collectText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		b.WriteString(" ")
		return
	case html.ElementNode:
		if _, skip := nonText[n.Data]; skip {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
