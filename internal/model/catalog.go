package model

import (
	"sort"
	"strings"
)

// Rule categories.
const (
	CategoryMeta           = "meta"
	CategoryTechnical      = "technical"
	CategoryHeadings       = "headings"
	CategoryContent        = "content"
	CategoryLinks          = "links"
	CategoryImages         = "images"
	CategoryMedia          = "media"
	CategoryAccessibility  = "a11y"
	CategorySocial         = "social"
	CategoryI18n           = "i18n"
	CategoryStructuredData = "structured-data"
	CategoryDuplicates     = "duplicates"
	CategoryRobots         = "robots"
	CategorySitemap        = "sitemap"
)

// RuleInfo is the static metadata of one rule.
type RuleInfo struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Severity Severity `json:"severity"`
	FixHint  string   `json:"fixHint"`
}

// ruleCatalog maps rule ids to their metadata. The category is derived from
// the id prefix when the catalog is read.
var ruleCatalog = map[string]RuleInfo{
	// meta
	"meta/title-missing": {
		Name: "Missing page title", Severity: SeverityError,
		FixHint: "Add a unique <title> element inside <head>.",
	},
	"meta/title-too-short": {
		Name: "Title too short", Severity: SeverityWarning,
		FixHint: "Write a descriptive title of 30 to 60 characters.",
	},
	"meta/title-too-long": {
		Name: "Title too long", Severity: SeverityWarning,
		FixHint: "Shorten the title to 60 characters or less so it is not truncated in results.",
	},
	"meta/title-multiple": {
		Name: "Multiple title elements", Severity: SeverityWarning,
		FixHint: "Keep exactly one <title> element in <head>.",
	},
	"meta/description-missing": {
		Name: "Missing meta description", Severity: SeverityError,
		FixHint: "Add <meta name=\"description\"> summarizing the page in 120 to 160 characters.",
	},
	"meta/description-too-short": {
		Name: "Meta description too short", Severity: SeverityWarning,
		FixHint: "Expand the description to at least 120 characters.",
	},
	"meta/description-too-long": {
		Name: "Meta description too long", Severity: SeverityWarning,
		FixHint: "Shorten the description to 160 characters or less.",
	},
	"meta/description-equals-title": {
		Name: "Meta description repeats the title", Severity: SeverityNotice,
		FixHint: "Write a description that adds information beyond the title.",
	},
	"meta/viewport-missing": {
		Name: "Missing viewport meta tag", Severity: SeverityError,
		FixHint: "Add <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">.",
	},
	"meta/viewport-not-responsive": {
		Name: "Viewport is not responsive", Severity: SeverityWarning,
		FixHint: "Include width=device-width in the viewport content.",
	},
	"meta/viewport-zoom-disabled": {
		Name: "Viewport disables zoom", Severity: SeverityWarning,
		FixHint: "Remove user-scalable=no and maximum-scale values below 2.",
	},
	"meta/charset-missing": {
		Name: "Missing charset declaration", Severity: SeverityWarning,
		FixHint: "Add <meta charset=\"utf-8\"> as the first element in <head>.",
	},
	"meta/charset-not-utf8": {
		Name: "Charset is not UTF-8", Severity: SeverityNotice,
		FixHint: "Serve and declare documents as UTF-8.",
	},
	"meta/lang-missing": {
		Name: "Missing html lang attribute", Severity: SeverityError,
		FixHint: "Set the lang attribute on <html>, for example lang=\"en\".",
	},
	"meta/lang-invalid": {
		Name: "Invalid html lang attribute", Severity: SeverityWarning,
		FixHint: "Use a valid BCP 47 language tag such as en, en-US or pt-BR.",
	},
	"meta/lang-not-configured": {
		Name: "Page language is not a configured language", Severity: SeverityNotice,
		FixHint: "Add the language to the configured languages or fix the lang attribute.",
	},
	"meta/robots-noindex": {
		Name: "Page is excluded from indexing", Severity: SeverityNotice,
		FixHint: "Remove noindex from meta robots if the page should appear in search results.",
	},
	"meta/robots-nofollow": {
		Name: "Page links are not followed", Severity: SeverityNotice,
		FixHint: "Remove nofollow from meta robots unless crawlers must ignore every link on the page.",
	},

	// technical
	"technical/doctype-missing": {
		Name: "Missing doctype", Severity: SeverityWarning,
		FixHint: "Start the document with <!DOCTYPE html> to avoid quirks mode.",
	},
	"technical/favicon-missing": {
		Name: "Missing favicon", Severity: SeverityNotice,
		FixHint: "Add <link rel=\"icon\"> pointing to a favicon.",
	},
	"technical/canonical-missing": {
		Name: "Missing canonical link", Severity: SeverityWarning,
		FixHint: "Add <link rel=\"canonical\"> with the absolute preferred URL of the page.",
	},
	"technical/canonical-relative": {
		Name: "Canonical URL is relative", Severity: SeverityWarning,
		FixHint: "Use an absolute URL including scheme and host in the canonical link.",
	},
	"technical/canonical-wrong-domain": {
		Name: "Canonical URL points to another domain", Severity: SeverityError,
		FixHint: "Point the canonical link at the configured site domain.",
	},
	"technical/canonical-www-mismatch": {
		Name: "Canonical URL www mismatch", Severity: SeverityError,
		FixHint: "Use the same www or non-www host as the configured base URL.",
	},
	"technical/canonical-subdomain": {
		Name: "Canonical URL points to a subdomain", Severity: SeverityWarning,
		FixHint: "Confirm the subdomain is intended or canonicalize to the main host.",
	},
	"technical/canonical-http": {
		Name: "Canonical URL uses HTTP", Severity: SeverityWarning,
		FixHint: "Use https in the canonical URL.",
	},
	"technical/canonical-points-elsewhere": {
		Name: "Canonical URL points to a different page", Severity: SeverityNotice,
		FixHint: "Confirm that this page is meant to consolidate into another URL.",
	},
	"technical/html-too-large": {
		Name: "HTML document is very large", Severity: SeverityWarning,
		FixHint: "Reduce inline scripts, styles and markup to keep the document small.",
	},

	// headings
	"headings/h1-missing": {
		Name: "Missing H1 heading", Severity: SeverityError,
		FixHint: "Add one <h1> describing the main topic of the page.",
	},
	"headings/h1-multiple": {
		Name: "Multiple H1 headings", Severity: SeverityWarning,
		FixHint: "Keep a single <h1> and demote the others.",
	},
	"headings/h1-empty": {
		Name: "Empty H1 heading", Severity: SeverityError,
		FixHint: "Give the <h1> visible text.",
	},
	"headings/h1-too-long": {
		Name: "H1 heading too long", Severity: SeverityNotice,
		FixHint: "Keep the H1 at 70 characters or less.",
	},
	"headings/skipped-level": {
		Name: "Heading level skipped", Severity: SeverityWarning,
		FixHint: "Do not skip heading levels; nest headings one level at a time.",
	},
	"headings/first-not-h1": {
		Name: "First heading is not H1", Severity: SeverityNotice,
		FixHint: "Start the heading outline with an <h1>.",
	},
	"headings/empty": {
		Name: "Empty heading", Severity: SeverityWarning,
		FixHint: "Remove empty headings or give them text.",
	},

	// content
	"content/thin": {
		Name: "Thin content", Severity: SeverityWarning,
		FixHint: "Expand the main content to at least 300 words or mark the page noindex.",
	},

	// links
	"links/empty-href": {
		Name: "Link with empty href", Severity: SeverityWarning,
		FixHint: "Give the link a real destination or use a <button> for actions.",
	},
	"links/javascript-href": {
		Name: "Link uses javascript: URL", Severity: SeverityWarning,
		FixHint: "Use a real URL for navigation and a <button> for scripted actions.",
	},
	"links/no-text": {
		Name: "Link has no accessible text", Severity: SeverityError,
		FixHint: "Add link text, an aria-label or alt text on a contained image.",
	},
	"links/generic-text": {
		Name: "Link text is not descriptive", Severity: SeverityNotice,
		FixHint: "Replace generic text such as \"click here\" with words describing the destination.",
	},
	"links/unsafe-blank-target": {
		Name: "External link opens a new tab without noopener", Severity: SeverityWarning,
		FixHint: "Add rel=\"noopener\" or rel=\"noreferrer\" to links with target=\"_blank\".",
	},
	"links/internal-nofollow": {
		Name: "Internal link marked nofollow", Severity: SeverityNotice,
		FixHint: "Remove rel=\"nofollow\" from links to your own pages.",
	},
	"links/internal-http": {
		Name: "Internal link uses HTTP", Severity: SeverityWarning,
		FixHint: "Link to internal pages over https or with a root-relative path.",
	},
	"links/www-mismatch": {
		Name: "Internal link www mismatch", Severity: SeverityWarning,
		FixHint: "Use the same www or non-www host as the base URL, or a root-relative path.",
	},
	"links/excessive": {
		Name: "Too many links on the page", Severity: SeverityNotice,
		FixHint: "Keep the number of links per page under 300.",
	},
	"links/orphan-page": {
		Name: "Orphan page", Severity: SeverityWarning,
		FixHint: "Link to this page from at least one other page, or mark it noindex.",
	},
	"links/broken-internal": {
		Name: "Broken internal link", Severity: SeverityError,
		FixHint: "Fix the link target or create the missing page.",
	},

	// images
	"images/src-missing": {
		Name: "Image without src", Severity: SeverityError,
		FixHint: "Give every <img> a src attribute.",
	},
	"images/alt-missing": {
		Name: "Image missing alt attribute", Severity: SeverityError,
		FixHint: "Describe the image in an alt attribute, or use alt=\"\" for decorative images.",
	},
	"images/alt-too-long": {
		Name: "Image alt text too long", Severity: SeverityNotice,
		FixHint: "Keep alt text under 125 characters and move long descriptions into the page.",
	},
	"images/alt-filename": {
		Name: "Image alt text is a file name", Severity: SeverityWarning,
		FixHint: "Replace the file name with a description of the image.",
	},
	"images/dimensions-missing": {
		Name: "Image missing width or height", Severity: SeverityWarning,
		FixHint: "Set width and height attributes to prevent layout shift.",
	},
	"images/file-missing": {
		Name: "Image file not found", Severity: SeverityError,
		FixHint: "Add the image to the build output or fix the src path.",
	},
	"images/oversized": {
		Name: "Image file is large", Severity: SeverityWarning,
		FixHint: "Compress the image or serve a modern format such as WebP or AVIF.",
	},
	"images/exif-metadata": {
		Name: "Image carries EXIF metadata", Severity: SeverityNotice,
		FixHint: "Strip EXIF metadata from published images.",
	},
	"images/exif-gps": {
		Name: "Image carries GPS coordinates", Severity: SeverityWarning,
		FixHint: "Remove GPS tags from the image before publishing.",
	},

	// media
	"media/video-no-poster": {
		Name: "Video without poster", Severity: SeverityNotice,
		FixHint: "Add a poster image so the video has a preview before playback.",
	},
	"media/video-no-source": {
		Name: "Video without source", Severity: SeverityWarning,
		FixHint: "Set a src attribute or a <source> child on the video.",
	},

	// accessibility
	"a11y/input-missing-label": {
		Name: "Form control without label", Severity: SeverityError,
		FixHint: "Associate a <label for>, wrap the control in a <label>, or set aria-label.",
	},
	"a11y/duplicate-id": {
		Name: "Duplicate id attribute", Severity: SeverityError,
		FixHint: "Make every id unique within the document.",
	},
	"a11y/main-landmark-missing": {
		Name: "Missing main landmark", Severity: SeverityWarning,
		FixHint: "Wrap the primary content in <main> or role=\"main\".",
	},

	// social
	"social/og-title-missing": {
		Name: "Missing og:title", Severity: SeverityWarning,
		FixHint: "Add <meta property=\"og:title\">.",
	},
	"social/og-description-missing": {
		Name: "Missing og:description", Severity: SeverityWarning,
		FixHint: "Add <meta property=\"og:description\">.",
	},
	"social/og-image-missing": {
		Name: "Missing og:image", Severity: SeverityWarning,
		FixHint: "Add <meta property=\"og:image\"> with an absolute image URL.",
	},
	"social/og-url-missing": {
		Name: "Missing og:url", Severity: SeverityNotice,
		FixHint: "Add <meta property=\"og:url\"> matching the canonical URL.",
	},
	"social/og-type-missing": {
		Name: "Missing og:type", Severity: SeverityNotice,
		FixHint: "Add <meta property=\"og:type\">, for example website or article.",
	},
	"social/og-image-relative": {
		Name: "og:image is not absolute", Severity: SeverityWarning,
		FixHint: "Use an absolute https URL for og:image.",
	},
	"social/og-url-www-mismatch": {
		Name: "og:url www mismatch", Severity: SeverityWarning,
		FixHint: "Use the same www or non-www host as the base URL in og:url.",
	},
	"social/twitter-card-missing": {
		Name: "Missing twitter:card", Severity: SeverityNotice,
		FixHint: "Add <meta name=\"twitter:card\" content=\"summary_large_image\">.",
	},
	"social/twitter-card-invalid": {
		Name: "Invalid twitter:card type", Severity: SeverityWarning,
		FixHint: "Use summary, summary_large_image, app or player.",
	},

	// i18n
	"i18n/hreflang-invalid-code": {
		Name: "Invalid hreflang code", Severity: SeverityError,
		FixHint: "Use a valid language code (ISO 639-1, optionally with region) or x-default.",
	},
	"i18n/hreflang-relative-url": {
		Name: "hreflang URL is relative", Severity: SeverityError,
		FixHint: "Use absolute URLs in hreflang alternate links.",
	},
	"i18n/hreflang-www-mismatch": {
		Name: "hreflang URL www mismatch", Severity: SeverityWarning,
		FixHint: "Use the same www or non-www host as the base URL in hreflang links.",
	},
	"i18n/hreflang-missing-self": {
		Name: "hreflang set does not reference the page", Severity: SeverityWarning,
		FixHint: "Include a self-referencing hreflang link for the page's own language.",
	},
	"i18n/hreflang-missing-x-default": {
		Name: "hreflang set without x-default", Severity: SeverityNotice,
		FixHint: "Add <link rel=\"alternate\" hreflang=\"x-default\">.",
	},
	"i18n/hreflang-duplicate-lang": {
		Name: "Duplicate hreflang language", Severity: SeverityWarning,
		FixHint: "Declare each language once per page.",
	},

	// structured data
	"structured-data/missing": {
		Name: "No structured data", Severity: SeverityNotice,
		FixHint: "Describe the page with a JSON-LD block using schema.org vocabulary.",
	},
	"structured-data/invalid-json": {
		Name: "Invalid JSON-LD", Severity: SeverityError,
		FixHint: "Fix the JSON syntax of the ld+json script.",
	},
	"structured-data/missing-context": {
		Name: "JSON-LD without schema.org context", Severity: SeverityWarning,
		FixHint: "Set \"@context\": \"https://schema.org\".",
	},
	"structured-data/missing-type": {
		Name: "JSON-LD without @type", Severity: SeverityError,
		FixHint: "Set @type on every JSON-LD object.",
	},
	"structured-data/schema-violation": {
		Name: "JSON-LD schema violation", Severity: SeverityWarning,
		FixHint: "Add the required properties with the expected value types.",
	},
	"structured-data/article-author-missing": {
		Name: "Article without author", Severity: SeverityWarning,
		FixHint: "Add article:author meta or an author property in the Article JSON-LD.",
	},

	// duplicates
	"duplicates/title": {
		Name: "Duplicate title", Severity: SeverityWarning,
		FixHint: "Give every page a unique title.",
	},
	"duplicates/description": {
		Name: "Duplicate meta description", Severity: SeverityWarning,
		FixHint: "Give every page a unique meta description.",
	},
	"duplicates/h1": {
		Name: "Duplicate H1", Severity: SeverityNotice,
		FixHint: "Make the H1 specific to each page.",
	},
	"duplicates/canonical": {
		Name: "Duplicate canonical URL", Severity: SeverityError,
		FixHint: "Each indexable page should declare its own canonical URL.",
	},
	"duplicates/content": {
		Name: "Duplicate page content", Severity: SeverityWarning,
		FixHint: "Merge the pages or point one canonical at the other.",
	},

	// robots
	"robots/missing": {
		Name: "Missing robots.txt", Severity: SeverityError,
		FixHint: "Add robots.txt to the output root.",
	},
	"robots/sitemap-directive-missing": {
		Name: "robots.txt has no Sitemap directive", Severity: SeverityWarning,
		FixHint: "Add Sitemap: <absolute sitemap URL> to robots.txt.",
	},
	"robots/sitemap-wrong-domain": {
		Name: "robots.txt Sitemap points to another domain", Severity: SeverityError,
		FixHint: "Point the Sitemap directive at the configured site domain.",
	},
	"robots/sitemap-www-mismatch": {
		Name: "robots.txt Sitemap www mismatch", Severity: SeverityError,
		FixHint: "Use the same www or non-www host as the base URL.",
	},
	"robots/sitemap-subdomain": {
		Name: "robots.txt Sitemap points to a subdomain", Severity: SeverityWarning,
		FixHint: "Host the sitemap on the main host or confirm the subdomain is intended.",
	},
	"robots/sitemap-not-found": {
		Name: "robots.txt Sitemap file not found", Severity: SeverityError,
		FixHint: "Generate the referenced sitemap or fix the Sitemap URL.",
	},
	"robots/blocks-all": {
		Name: "robots.txt blocks the whole site", Severity: SeverityError,
		FixHint: "Remove \"Disallow: /\" for User-agent: * unless the site must not be indexed.",
	},
	"robots/invalid-line": {
		Name: "Unparseable robots.txt line", Severity: SeverityNotice,
		FixHint: "Write each rule as \"Directive: value\".",
	},

	// sitemap
	"sitemap/missing": {
		Name: "Missing sitemap", Severity: SeverityError,
		FixHint: "Generate sitemap.xml or sitemap-index.xml in the output root.",
	},
	"sitemap/invalid-xml": {
		Name: "Sitemap is not valid XML", Severity: SeverityError,
		FixHint: "Fix the XML syntax of the sitemap.",
	},
	"sitemap/wrong-domain": {
		Name: "Sitemap URL on another domain", Severity: SeverityError,
		FixHint: "List only URLs of the configured site.",
	},
	"sitemap/www-mismatch": {
		Name: "Sitemap URL www mismatch", Severity: SeverityError,
		FixHint: "Use the same www or non-www host as the base URL.",
	},
	"sitemap/subdomain": {
		Name: "Sitemap URL on a subdomain", Severity: SeverityWarning,
		FixHint: "Confirm the subdomain URL belongs in this sitemap.",
	},
	"sitemap/http-mismatch": {
		Name: "Sitemap URL scheme mismatch", Severity: SeverityWarning,
		FixHint: "Use the same scheme as the base URL for every sitemap entry.",
	},
	"sitemap/duplicate-url": {
		Name: "Duplicate sitemap URL", Severity: SeverityWarning,
		FixHint: "List each URL once.",
	},
	"sitemap/invalid-lastmod": {
		Name: "Invalid sitemap lastmod", Severity: SeverityWarning,
		FixHint: "Use W3C datetime format, for example 2024-01-31 or 2024-01-31T10:00:00+00:00.",
	},
	"sitemap/trailing-slash-inconsistent": {
		Name: "Inconsistent trailing slashes in sitemap", Severity: SeverityNotice,
		FixHint: "Use one trailing-slash convention for all URLs.",
	},
	"sitemap/url-not-found": {
		Name: "Sitemap URL has no page", Severity: SeverityError,
		FixHint: "Remove the URL from the sitemap or build the page.",
	},
	"sitemap/noindex-page": {
		Name: "noindex page listed in sitemap", Severity: SeverityWarning,
		FixHint: "Remove noindex pages from the sitemap.",
	},
	"sitemap/page-missing": {
		Name: "Indexable page missing from sitemap", Severity: SeverityNotice,
		FixHint: "Add the page to the sitemap.",
	},
	"sitemap/blocked-by-robots": {
		Name: "Sitemap URL blocked by robots.txt", Severity: SeverityWarning,
		FixHint: "Allow the URL in robots.txt or remove it from the sitemap.",
	},
}

// categoryOf returns the part of a rule id before the first slash.
func categoryOf(ruleID string) string {
	if i := strings.IndexByte(ruleID, '/'); i > 0 {
		return ruleID[:i]
	}
	return ruleID
}

// GetRuleInfo returns the metadata for ruleID. Unknown ids get a warning
// severity, their id as name and the id prefix as category.
func GetRuleInfo(ruleID string) RuleInfo {
	info, ok := ruleCatalog[ruleID]
	if !ok {
		return RuleInfo{
			ID:       ruleID,
			Name:     ruleID,
			Category: categoryOf(ruleID),
			Severity: SeverityWarning,
		}
	}
	info.ID = ruleID
	info.Category = categoryOf(ruleID)
	return info
}

// IsKnownRule reports whether ruleID is in the catalog.
func IsKnownRule(ruleID string) bool {
	_, ok := ruleCatalog[ruleID]
	return ok
}

// Rules returns the whole catalog sorted by id.
func Rules() []RuleInfo {
	rules := make([]RuleInfo, 0, len(ruleCatalog))
	for id := range ruleCatalog {
		rules = append(rules, GetRuleInfo(id))
	}
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].ID < rules[j].ID
	})
	return rules
}
