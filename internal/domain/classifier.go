package domain

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
)

// Kind is the reason a hostname does not match the canonical authority.
type Kind string

const (
	// KindNone means the hostname matched or could not be validated.
	KindNone Kind = ""
	// KindWrongDomain is an unrelated hostname.
	KindWrongDomain Kind = "wrong_domain"
	// KindWWWMismatch differs from the expected hostname only by "www.".
	KindWWWMismatch Kind = "www_mismatch"
	// KindSubdomain is another hostname below the main domain.
	KindSubdomain Kind = "subdomain"
)

const wwwPrefix = "www."

// Result is the classification of one URL.
type Result struct {
	// IsValid is true when the hostname equals the expected hostname, or
	// when the URL is relative or the base URL could not be parsed.
	IsValid bool `json:"isValid"`

	// Hostname is the case-folded hostname of the candidate. It is empty for
	// relative URLs.
	Hostname string `json:"hostname,omitempty"`

	ExpectedHostname string `json:"expectedHostname"`
	MainDomain       string `json:"mainDomain"`

	// Issue is set when IsValid is false.
	Issue Kind `json:"issue,omitempty"`
}

// IsRelative reports whether the candidate had no authority.
func (r Result) IsRelative() bool {
	return r.Hostname == ""
}

// Classifier classifies URLs against one base URL.
type Classifier struct {
	base             *url.URL
	expectedHostname string
	mainDomain       string
}

// New returns a Classifier for baseURL. mainDomain optionally overrides the
// apex domain used for subdomain detection. An unparseable base URL yields
// a classifier that accepts everything.
func New(baseURL, mainDomain string) *Classifier {
	c := &Classifier{}

	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Hostname() == "" {
		return c
	}
	c.base = u
	c.expectedHostname = fold(u.Hostname())

	apex := c.expectedHostname
	if mainDomain = strings.TrimSpace(mainDomain); mainDomain != "" {
		apex = fold(mainDomain)
	}
	c.mainDomain = StripWWW(apex)
	return c
}

// CanValidate reports whether the base URL was usable.
func (c *Classifier) CanValidate() bool {
	return c.base != nil
}

// ExpectedHostname returns the case-folded base hostname with any "www."
// prefix preserved.
func (c *Classifier) ExpectedHostname() string {
	return c.expectedHostname
}

// MainDomain returns the case-folded apex domain without "www.".
func (c *Classifier) MainDomain() string {
	return c.mainDomain
}

// BaseURL returns the base URL without a trailing slash, or "" when the
// base URL could not be parsed.
func (c *Classifier) BaseURL() string {
	if c.base == nil {
		return ""
	}
	return strings.TrimSuffix(c.base.String(), "/")
}

// Scheme returns the scheme of the base URL.
func (c *Classifier) Scheme() string {
	if c.base == nil {
		return ""
	}
	return strings.ToLower(c.base.Scheme)
}

// Classify classifies the authority of raw.
func (c *Classifier) Classify(raw string) Result {
	result := Result{
		IsValid:          true,
		ExpectedHostname: c.expectedHostname,
		MainDomain:       c.mainDomain,
	}

	host := Hostname(raw)
	if host == "" {
		return result
	}
	result.Hostname = host

	if c.base == nil {
		return result
	}

	if host == c.expectedHostname {
		return result
	}

	result.IsValid = false
	bare := StripWWW(host)
	expectedBare := StripWWW(c.expectedHostname)

	switch {
	case bare == expectedBare:
		result.Issue = KindWWWMismatch
	case (bare == c.mainDomain || strings.HasSuffix(bare, "."+c.mainDomain)) && bare != expectedBare:
		result.Issue = KindSubdomain
	default:
		result.Issue = KindWrongDomain
	}
	return result
}

// IsInternal reports whether raw points at the canonical authority,
// tolerating a www flip. Relative URLs are internal.
func (c *Classifier) IsInternal(raw string) bool {
	r := c.Classify(raw)
	return r.IsValid || r.Issue == KindWWWMismatch
}

// Hostname returns the case-folded hostname of raw, or "" when raw has no
// authority or does not parse.
func Hostname(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return fold(u.Hostname())
}

// IsAbsolute reports whether raw carries a scheme and an authority, or is
// protocol-relative.
func IsAbsolute(raw string) bool {
	return Hostname(raw) != ""
}

// IsHTTP reports whether raw uses the plain http scheme.
func IsHTTP(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, "http")
}

// StripWWW removes a leading "www." from host.
func StripWWW(host string) string {
	return strings.TrimPrefix(host, wwwPrefix)
}

// fold case-folds a hostname. A Caser is not safe for concurrent use, so a
// new one is built per call.
func fold(s string) string {
	return cases.Fold().String(s)
}
