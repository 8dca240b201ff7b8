package model

import "strings"

// HeadingLevels is the number of heading levels (h1..h6).
const HeadingLevels = 6

// Heading is one heading element in document order.
type Heading struct {
	// Level is 1 for h1 through 6 for h6.
	Level int    `json:"level"`
	Text  string `json:"text"`
	Line  int    `json:"line,omitempty"`
}

// Link is one <a href> element.
type Link struct {
	Href      string `json:"href"`
	Text      string `json:"text"`
	AriaLabel string `json:"ariaLabel,omitempty"`
	Title     string `json:"title,omitempty"`
	Rel       string `json:"rel,omitempty"`
	Target    string `json:"target,omitempty"`

	// ImageAlt is the joined alt text of images inside the link. It counts
	// as accessible text.
	ImageAlt string `json:"imageAlt,omitempty"`

	IsInternal bool `json:"isInternal"`
	IsExternal bool `json:"isExternal"`
	Line       int  `json:"line,omitempty"`
}

// AccessibleText returns the first non-empty of text, aria-label, title and
// contained image alt text.
func (l Link) AccessibleText() string {
	for _, s := range []string{l.Text, l.AriaLabel, l.Title, l.ImageAlt} {
		if strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// HasRel reports whether the rel attribute contains token.
func (l Link) HasRel(token string) bool {
	for _, r := range strings.Fields(strings.ToLower(l.Rel)) {
		if r == token {
			return true
		}
	}
	return false
}

// Image is one <img> element. Nil pointers mean the attribute is absent,
// which is different from an empty value (alt="" marks a decorative image).
type Image struct {
	Src    string  `json:"src"`
	Alt    *string `json:"alt,omitempty"`
	Width  *string `json:"width,omitempty"`
	Height *string `json:"height,omitempty"`
	Line   int     `json:"line,omitempty"`
}

// Video is one <video> element. Src falls back to the first <source src>.
type Video struct {
	Src    string `json:"src,omitempty"`
	Poster string `json:"poster,omitempty"`
	Line   int    `json:"line,omitempty"`
}

// FormInput is an input, select or textarea without an accessible label.
type FormInput struct {
	Tag     string `json:"tag"`
	Type    string `json:"type,omitempty"`
	Name    string `json:"name,omitempty"`
	ID      string `json:"id,omitempty"`
	Element string `json:"element"`
}

// Hreflang is one <link rel="alternate" hreflang> pair.
type Hreflang struct {
	Lang string `json:"lang"`
	URL  string `json:"url"`
}

// JSONLDBlock is one object from an ld+json script. A block whose script
// could not be parsed carries ParseError and no Data.
type JSONLDBlock struct {
	Data       map[string]any `json:"data,omitempty"`
	Types      []string       `json:"types,omitempty"`
	ParseError string         `json:"parseError,omitempty"`
	Raw        string         `json:"-"`
}

// Invalid reports whether the block is a parse-failure sentinel.
func (b JSONLDBlock) Invalid() bool {
	return b.ParseError != ""
}

// PageRecord holds the facts extracted from one HTML file. It is built once
// during indexing and only read afterwards.
type PageRecord struct {
	// Path is the absolute file path.
	Path string `json:"path"`

	// RelativePath is the slash-separated path below the output root.
	RelativePath string `json:"relativePath"`

	// URL is the public URL of the page derived from the base URL.
	URL string `json:"url"`

	// Raw is the unmodified markup.
	Raw string `json:"-"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	Title           string `json:"title"`
	TitleCount      int    `json:"titleCount"`
	MetaDescription string `json:"metaDescription"`
	MetaRobots      string `json:"metaRobots,omitempty"`
	Canonical       string `json:"canonical,omitempty"`
	Charset         string `json:"charset,omitempty"`
	Lang            string `json:"lang,omitempty"`
	Viewport        string `json:"viewport,omitempty"`

	// Headings holds heading texts per level; index 0 is h1.
	Headings [HeadingLevels][]string `json:"headings"`

	// HeadingOrder holds every heading in document order.
	HeadingOrder []Heading `json:"headingOrder,omitempty"`

	OpenGraph map[string]string `json:"openGraph,omitempty"`
	Twitter   map[string]string `json:"twitter,omitempty"`
	Hreflangs []Hreflang        `json:"hreflangs,omitempty"`

	Links           []Link        `json:"links,omitempty"`
	Images          []Image       `json:"images,omitempty"`
	Videos          []Video       `json:"videos,omitempty"`
	UnlabeledInputs []FormInput   `json:"unlabeledInputs,omitempty"`
	JSONLD          []JSONLDBlock `json:"jsonLd,omitempty"`

	HasFavicon      bool `json:"hasFavicon"`
	HasDoctype      bool `json:"hasDoctype"`
	HasMainLandmark bool `json:"hasMainLandmark"`
	IsArticle       bool `json:"isArticle"`
	HasAuthorInfo   bool `json:"hasAuthorInfo"`

	WordCount int `json:"wordCount"`

	// ContentDigest is a hex digest of the normalized main text. Empty for
	// pages too short to compare.
	ContentDigest string `json:"contentDigest,omitempty"`

	// IDs lists every id attribute value in document order.
	IDs []string `json:"ids,omitempty"`
}

// H1s returns the h1 texts of the page.
func (p *PageRecord) H1s() []string {
	return p.Headings[0]
}

// IsNoindex reports whether meta robots contains noindex.
func (p *PageRecord) IsNoindex() bool {
	return strings.Contains(strings.ToLower(p.MetaRobots), "noindex")
}

// IsNofollow reports whether meta robots contains nofollow.
func (p *PageRecord) IsNofollow() bool {
	return strings.Contains(strings.ToLower(p.MetaRobots), "nofollow")
}
