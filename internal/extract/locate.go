package extract

import (
	"bytes"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// tagStart is one start tag as written in the source.
type tagStart struct {
	line  int
	attrs string
}

// lineIndex maps a lower-case tag name to its start tags in source order.
// The k-th element of a tag in the parsed document is located by the k-th
// entry, but only while the tree builder kept the source elements of that
// tag one to one.
type lineIndex map[string][]tagStart

// indexLines tokenizes raw once and records where every start tag begins.
func indexLines(raw []byte) lineIndex {
	idx := make(lineIndex)
	z := html.NewTokenizer(bytes.NewReader(raw))
	line := 1

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return idx
		}
		newlines := bytes.Count(z.Raw(), []byte{'\n'})
		if tt == html.StartTagToken || tt == html.SelfClosingTagToken {
			name, more := z.TagName()
			tag := string(name)
			var attrs []html.Attribute
			for more {
				var key, val []byte
				key, val, more = z.TagAttr()
				attrs = append(attrs, html.Attribute{Key: string(key), Val: string(val)})
			}
			idx[tag] = append(idx[tag], tagStart{line: line, attrs: attrSignature(attrs)})
		}
		line += newlines
	}
}

// reconcile forgets the tags whose element count in the parsed tree differs
// from the source. Misnested markup makes the parser clone, insert or drop
// elements, and positional lookups for those tags would be off by one or
// more from that point on.
func (l lineIndex) reconcile(root *html.Node) {
	counts := make(map[string]int, len(l))
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			counts[n.Data]++
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	for tag, starts := range l {
		if counts[tag] != len(starts) {
			delete(l, tag)
		}
	}
}

// line returns the source line of the i-th tag element n, or 0 when the
// position is unknown or n does not carry the attributes of that start tag.
func (l lineIndex) line(tag string, i int, n *html.Node) int {
	starts := l[tag]
	if i < 0 || i >= len(starts) {
		return 0
	}
	if n != nil && attrSignature(n.Attr) != starts[i].attrs {
		return 0
	}
	return starts[i].line
}

// attrSignature is an order-independent key for an attribute list. The
// first occurrence of a repeated attribute wins, as in the parser.
func attrSignature(attrs []html.Attribute) string {
	seen := make(map[string]struct{}, len(attrs))
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + ":" + key
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		parts = append(parts, key+"="+a.Val)
	}
	sort.Strings(parts)
	return strings.Join(parts, "\x00")
}
