package rules

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/nao1215/seoscan/internal/domain"
	"github.com/nao1215/seoscan/internal/model"
	"github.com/nao1215/seoscan/internal/schema"
)

func testEnv(languages ...string) *Env {
	return &Env{
		Classifier: domain.New("https://example.com", ""),
		Languages:  languages,
	}
}

// testPage returns a page that passes every page rule.
func testPage(rel string) *model.PageRecord {
	alt := "A descriptive alternative text"
	size := "100"
	url := "https://example.com/" + strings.TrimSuffix(strings.TrimSuffix(rel, "index.html"), ".html")
	p := &model.PageRecord{
		Path:            "/out/" + rel,
		RelativePath:    rel,
		URL:             url,
		Size:            4096,
		Title:           "A page title that is long enough to pass",
		TitleCount:      1,
		MetaDescription: strings.Repeat("d", 140),
		Canonical:       url,
		Charset:         "utf-8",
		Lang:            "en",
		Viewport:        "width=device-width, initial-scale=1",
		OpenGraph: map[string]string{
			"og:title": "t", "og:description": "d", "og:image": "https://example.com/a.png",
			"og:url": url, "og:type": "website",
		},
		Twitter:         map[string]string{"twitter:card": "summary"},
		Images:          []model.Image{{Src: "/a.png", Alt: &alt, Width: &size, Height: &size}},
		JSONLD:          []model.JSONLDBlock{{Data: map[string]any{"@context": "https://schema.org", "@type": "WebPage"}, Types: []string{"WebPage"}}},
		HasFavicon:      true,
		HasDoctype:      true,
		HasMainLandmark: true,
		WordCount:       500,
	}
	p.Headings[0] = []string{"Heading"}
	p.HeadingOrder = []model.Heading{{Level: 1, Text: "Heading", Line: 5}}
	return p
}

func ruleIDs(issues []model.Issue) []string {
	ids := make([]string, 0, len(issues))
	for _, i := range issues {
		ids = append(ids, i.RuleID)
	}
	return ids
}

func countRule(issues []model.Issue, ruleID string) int {
	n := 0
	for _, i := range issues {
		if i.RuleID == ruleID {
			n++
		}
	}
	return n
}

func TestCleanPageHasNoPageIssues(t *testing.T) {
	t.Parallel()

	env := testEnv("en")
	page := testPage("about.html")
	for _, rule := range []PageRule{
		CheckMeta, CheckTechnical, CheckHeadings, CheckContent, CheckLinks,
		CheckImages, CheckMedia, CheckAccessibility, CheckSocial, CheckHreflang, CheckStructuredData,
	} {
		if issues := rule(env, page); len(issues) != 0 {
			t.Errorf("unexpected issues: %v", ruleIDs(issues))
		}
	}
}

func TestDescriptionLengthBoundaries(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		length int
		want   string
	}{
		{119, "meta/description-too-short"},
		{120, ""},
		{160, ""},
		{161, "meta/description-too-long"},
	}

	for _, tc := range testCases {
		t.Run(strconv.Itoa(tc.length), func(t *testing.T) {
			t.Parallel()

			page := testPage("a.html")
			page.MetaDescription = strings.Repeat("é", tc.length)
			issues := CheckMeta(testEnv(), page)

			short := countRule(issues, "meta/description-too-short")
			long := countRule(issues, "meta/description-too-long")
			switch tc.want {
			case "":
				if short+long != 0 {
					t.Errorf("length %d: unexpected %v", tc.length, ruleIDs(issues))
				}
			default:
				if countRule(issues, tc.want) != 1 || short+long != 1 {
					t.Errorf("length %d: expected exactly one %s, got %v", tc.length, tc.want, ruleIDs(issues))
				}
			}
		})
	}
}

func TestHeadingSkipFiresOnce(t *testing.T) {
	t.Parallel()

	page := testPage("a.html")
	page.HeadingOrder = []model.Heading{{Level: 1, Text: "A", Line: 1}, {Level: 3, Text: "B", Line: 2}}
	page.Headings[2] = []string{"B"}

	issues := CheckHeadings(testEnv(), page)
	if n := countRule(issues, "headings/skipped-level"); n != 1 {
		t.Fatalf("expected one skipped-level issue, got %d", n)
	}
	for _, i := range issues {
		if i.RuleID == "headings/skipped-level" {
			if i.Actual != "h1 -> h3" || i.Line != 2 {
				t.Errorf("unexpected issue %+v", i)
			}
		}
	}
}

func TestTitleRules(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		title string
		count int
		want  []string
	}{
		{"missing", "", 0, []string{"meta/title-missing"}},
		{"short", "Short", 1, []string{"meta/title-too-short"}},
		{"long", strings.Repeat("t", 61), 1, []string{"meta/title-too-long"}},
		{"multiple", strings.Repeat("t", 40), 2, []string{"meta/title-multiple"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			page := testPage("a.html")
			page.Title, page.TitleCount = tc.title, tc.count
			got := ruleIDs(checkTitle(page))
			if !slices.Equal(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestViewportAndLang(t *testing.T) {
	t.Parallel()

	page := testPage("a.html")
	page.Viewport = "width=1024, maximum-scale=1.0"
	page.Lang = "fr-FR"
	issues := CheckMeta(testEnv("en", "ja"), page)

	for _, id := range []string{"meta/viewport-not-responsive", "meta/viewport-zoom-disabled", "meta/lang-not-configured"} {
		if countRule(issues, id) != 1 {
			t.Errorf("expected %s, got %v", id, ruleIDs(issues))
		}
	}

	page.Lang = "en-US"
	if countRule(CheckMeta(testEnv("en"), page), "meta/lang-not-configured") != 0 {
		t.Error("region variant of a configured language must be accepted")
	}
}

func TestCanonicalRules(t *testing.T) {
	t.Parallel()

	testCases := map[string]string{
		"/about":                        "technical/canonical-relative",
		"https://other.com/about":       "technical/canonical-wrong-domain",
		"https://www.example.com/a":     "technical/canonical-www-mismatch",
		"https://blog.example.com/a":    "technical/canonical-subdomain",
		"http://example.com/about":      "technical/canonical-http",
		"https://example.com/elsewhere": "technical/canonical-points-elsewhere",
	}
	for canonical, want := range testCases {
		page := testPage("about.html")
		page.Canonical = canonical
		if countRule(CheckTechnical(testEnv(), page), want) != 1 {
			t.Errorf("%s: expected %s", canonical, want)
		}
	}
}

func TestLinkRules(t *testing.T) {
	t.Parallel()

	page := testPage("a.html")
	page.Links = []model.Link{
		{Href: "", Text: "empty", Line: 1},
		{Href: "javascript:void(0)", Text: "js", Line: 2},
		{Href: "/x", Line: 3, IsInternal: true},
		{Href: "/y", Text: "Click here", Line: 4, IsInternal: true},
		{Href: "https://other.com", Text: "Other", Target: "_blank", Line: 5, IsExternal: true},
		{Href: "https://other.com", Text: "Safe", Target: "_blank", Rel: "noopener", Line: 6, IsExternal: true},
		{Href: "/z", Text: "Z", Rel: "nofollow", Line: 7, IsInternal: true},
		{Href: "http://example.com/p", Text: "P", Line: 8, IsInternal: true},
		{Href: "https://www.example.com/p", Text: "W", Line: 9, IsInternal: true},
	}

	issues := CheckLinks(testEnv(), page)
	for _, id := range []string{
		"links/empty-href", "links/javascript-href", "links/no-text", "links/generic-text",
		"links/unsafe-blank-target", "links/internal-nofollow", "links/internal-http", "links/www-mismatch",
	} {
		if countRule(issues, id) != 1 {
			t.Errorf("expected exactly one %s, got %v", id, ruleIDs(issues))
		}
	}
}

func TestImageRules(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 126)
	file := "photo.jpg"
	page := testPage("a.html")
	page.Images = []model.Image{
		{Src: "", Line: 1},
		{Src: "/b.png", Alt: &long, Line: 2},
		{Src: "/photo.jpg", Alt: &file, Line: 3},
	}

	issues := CheckImages(testEnv(), page)
	want := map[string]int{
		"images/src-missing":        1,
		"images/alt-missing":        1,
		"images/alt-too-long":       1,
		"images/alt-filename":       1,
		"images/dimensions-missing": 3,
	}
	for id, n := range want {
		if got := countRule(issues, id); got != n {
			t.Errorf("%s: got %d, want %d", id, got, n)
		}
	}
}

func TestHreflangRules(t *testing.T) {
	t.Parallel()

	page := testPage("a.html")
	page.Hreflangs = []model.Hreflang{
		{Lang: "ja", URL: "https://www.example.com/ja/a"},
		{Lang: "ja", URL: "/ja/a"},
		{Lang: "not_a_code!", URL: "https://blog.example.com/a"},
	}

	issues := CheckHreflang(testEnv(), page)
	for _, id := range []string{
		"i18n/hreflang-www-mismatch", "i18n/hreflang-duplicate-lang", "i18n/hreflang-relative-url",
		"i18n/hreflang-invalid-code", "i18n/hreflang-missing-self", "i18n/hreflang-missing-x-default",
	} {
		if countRule(issues, id) != 1 {
			t.Errorf("expected one %s, got %v", id, ruleIDs(issues))
		}
	}
}

func TestStructuredDataRules(t *testing.T) {
	t.Parallel()

	validator, err := schema.New()
	if err != nil {
		t.Fatal(err)
	}
	env := testEnv()
	env.Validator = validator

	page := testPage("a.html")
	page.IsArticle = true
	page.JSONLD = []model.JSONLDBlock{
		{ParseError: "unexpected end of JSON input", Raw: "{"},
		{Data: map[string]any{"@type": "Article"}, Types: []string{"Article"}},
		{Data: map[string]any{"@context": "https://schema.org"}},
	}

	issues := CheckStructuredData(env, page)
	for _, id := range []string{
		"structured-data/invalid-json", "structured-data/missing-type", "structured-data/article-author-missing",
	} {
		if countRule(issues, id) != 1 {
			t.Errorf("expected one %s, got %v", id, ruleIDs(issues))
		}
	}
	if countRule(issues, "structured-data/missing-context") != 1 {
		t.Errorf("expected the Article block to miss @context, got %v", ruleIDs(issues))
	}
	if countRule(issues, "structured-data/schema-violation") == 0 {
		t.Error("expected a schema violation for an Article without headline")
	}
}

func TestAccessibilityRules(t *testing.T) {
	t.Parallel()

	page := testPage("a.html")
	page.IDs = []string{"a", "b", "a", "a"}
	page.HasMainLandmark = false
	page.UnlabeledInputs = []model.FormInput{{Tag: "input", Element: `<input name="q">`}}

	issues := CheckAccessibility(testEnv(), page)
	if countRule(issues, "a11y/duplicate-id") != 1 {
		t.Errorf("expected one duplicate-id issue per id, got %v", ruleIDs(issues))
	}
	if countRule(issues, "a11y/main-landmark-missing") != 1 || countRule(issues, "a11y/input-missing-label") != 1 {
		t.Errorf("unexpected issues %v", ruleIDs(issues))
	}
}

func TestSocialRules(t *testing.T) {
	t.Parallel()

	page := testPage("a.html")
	page.OpenGraph = map[string]string{"og:image": "/a.png", "og:url": "https://www.example.com/a"}
	page.Twitter = map[string]string{"twitter:card": "large"}

	issues := CheckSocial(testEnv(), page)
	for _, id := range []string{
		"social/og-title-missing", "social/og-description-missing", "social/og-type-missing",
		"social/og-image-relative", "social/og-url-www-mismatch", "social/twitter-card-invalid",
	} {
		if countRule(issues, id) != 1 {
			t.Errorf("expected one %s, got %v", id, ruleIDs(issues))
		}
	}

	page.OpenGraph["og:url"] = "https://blog.example.com/a"
	if countRule(CheckSocial(testEnv(), page), "social/og-url-www-mismatch") != 0 {
		t.Error("subdomain og:url must not be reported")
	}
}

// newSite builds an index from pages without touching the filesystem.
func newSite(pages ...*model.PageRecord) *model.SiteIndex {
	site := model.NewSiteIndex("/out")
	for _, p := range pages {
		site.AddPage(p)
	}
	return site
}

func TestOrphans(t *testing.T) {
	t.Parallel()

	home := testPage("index.html")
	home.Links = []model.Link{{Href: "/linked", IsInternal: true}, {Href: "docs/", IsInternal: true}}
	linked := testPage("linked.html")
	docs := testPage("docs/index.html")
	orphan := testPage("orphan.html")
	orphan.Links = []model.Link{{Href: "orphan.html", IsInternal: true}}
	hidden := testPage("hidden.html")
	hidden.MetaRobots = "noindex"
	jaHome := testPage("ja/index.html")

	issues := CheckOrphans(context.Background(), testEnv(), newSite(home, linked, docs, orphan, hidden, jaHome))
	if len(issues) != 1 || issues[0].RelativePath != "orphan.html" {
		t.Errorf("expected only orphan.html, got %v", issues)
	}
}

func TestResolveFile(t *testing.T) {
	t.Parallel()

	site := newSite(testPage("index.html"), testPage("blog/index.html"), testPage("blog/post.html"))
	site.AddFile("img/a.png")

	testCases := []struct {
		page  string
		href  string
		want  string
		found bool
	}{
		{"index.html", "/", "index.html", true},
		{"index.html", "/blog/", "blog/index.html", true},
		{"index.html", "/blog", "blog/index.html", true},
		{"index.html", "blog/post", "blog/post.html", true},
		{"blog/post.html", "../img/a.png?v=1#x", "img/a.png", true},
		{"blog/post.html", "./post.html#top", "blog/post.html", true},
		{"index.html", "https://example.com/blog/post", "blog/post.html", true},
		{"index.html", "/missing", "missing", false},
	}
	for _, tc := range testCases {
		got, found, ok := resolveFile(site, tc.page, tc.href)
		if !ok || got != tc.want || found != tc.found {
			t.Errorf("resolveFile(%q, %q) = %q, %v, %v", tc.page, tc.href, got, found, ok)
		}
	}

	if _, _, ok := resolveFile(site, "index.html", "../../etc/passwd"); ok {
		t.Error("paths escaping the root must not resolve")
	}
}

func TestBrokenLinks(t *testing.T) {
	t.Parallel()

	home := testPage("index.html")
	home.Links = []model.Link{
		{Href: "/about", IsInternal: true, Line: 3},
		{Href: "/missing", IsInternal: true, Line: 4},
		{Href: "#top"},
		{Href: "?page=2", IsInternal: true},
	}
	issues := CheckBrokenLinks(context.Background(), testEnv(), newSite(home, testPage("about.html")))
	if len(issues) != 1 || issues[0].Line != 4 {
		t.Errorf("expected one broken link on line 4, got %v", issues)
	}
}

func TestDuplicateCanonicalLanguageExemption(t *testing.T) {
	t.Parallel()

	shared := "https://example.com/guide"
	build := func(rels ...string) *model.SiteIndex {
		var pages []*model.PageRecord
		for _, rel := range rels {
			p := testPage(rel)
			p.Canonical = shared
			pages = append(pages, p)
		}
		return newSite(pages...)
	}

	t.Run("variants within language count", func(t *testing.T) {
		t.Parallel()

		site := build("en/guide.html", "ja/guide.html", "fr/guide.html")
		issues := CheckDuplicates(context.Background(), testEnv("en", "ja", "fr"), site)
		if countRule(issues, "duplicates/canonical") != 0 {
			t.Errorf("expected no duplicate canonical, got %v", ruleIDs(issues))
		}
	})

	t.Run("more variants than languages", func(t *testing.T) {
		t.Parallel()

		site := build("en/guide.html", "ja/guide.html", "fr/guide.html")
		issues := CheckDuplicates(context.Background(), testEnv("en", "ja"), site)
		if countRule(issues, "duplicates/canonical") != 3 {
			t.Errorf("expected three duplicate canonical issues, got %v", ruleIDs(issues))
		}
	})

	t.Run("unprefixed pages", func(t *testing.T) {
		t.Parallel()

		site := build("guide.html", "guide-copy.html", "ja/guide.html")
		issues := CheckDuplicates(context.Background(), testEnv("en", "ja"), site)
		if countRule(issues, "duplicates/canonical") != 2 {
			t.Errorf("expected the two unprefixed pages, got %v", ruleIDs(issues))
		}
	})
}

func TestDuplicateTitles(t *testing.T) {
	t.Parallel()

	a, b, c := testPage("a.html"), testPage("b.html"), testPage("c.html")
	c.Title = "Unique title for the third page here"
	a.MetaDescription = "first " + a.MetaDescription
	c.MetaDescription = "third " + c.MetaDescription
	a.Headings[0], c.Headings[0] = []string{"A"}, []string{"C"}
	a.Canonical, b.Canonical, c.Canonical = "", "", ""

	issues := CheckDuplicates(context.Background(), testEnv(), newSite(a, b, c))
	if countRule(issues, "duplicates/title") != 2 {
		t.Errorf("expected a and b to be reported, got %v", ruleIDs(issues))
	}
	for _, i := range issues {
		if i.RelativePath == "c.html" {
			t.Errorf("c.html has unique values, got %s", i.RuleID)
		}
	}
}

func TestEngineDeterministic(t *testing.T) {
	t.Parallel()

	home := testPage("index.html")
	home.Links = []model.Link{{Href: "/a", IsInternal: true}, {Href: "/missing", IsInternal: true}}
	a := testPage("a.html")
	a.Title = "Short"
	orphan := testPage("b.html")
	site := newSite(home, a, orphan)

	engine := NewEngine(testEnv(), WithConcurrency(4))
	first, err := engine.Evaluate(context.Background(), site)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewEngine(testEnv(), WithConcurrency(1)).Evaluate(context.Background(), site)
	if err != nil {
		t.Fatal(err)
	}

	if len(first) == 0 || len(first) != len(second) {
		t.Fatalf("expected equal non-empty issue lists, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Fingerprint != second[i].Fingerprint {
			t.Errorf("issue %d differs: %s vs %s", i, first[i].Fingerprint, second[i].Fingerprint)
		}
	}
}

func TestEngineRegister(t *testing.T) {
	t.Parallel()

	engine := NewEngine(testEnv(), WithoutBuiltins())
	engine.RegisterPage("custom", func(_ *Env, page *model.PageRecord) []model.Issue {
		return []model.Issue{pageIssue(page, "content/thin")}
	})
	if names := engine.Names(); len(names) != 1 || names[0] != "custom" {
		t.Fatalf("unexpected names %v", names)
	}

	issues, err := engine.Evaluate(context.Background(), newSite(testPage("a.html"), testPage("b.html")))
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 2 || issues[0].RelativePath != "a.html" {
		t.Errorf("unexpected issues %v", issues)
	}
}

// writeTree writes files below a temporary root and returns an index that
// knows about them.
func writeTree(t *testing.T, files map[string]string, pages ...*model.PageRecord) *model.SiteIndex {
	t.Helper()

	root := t.TempDir()
	site := model.NewSiteIndex(root)
	for _, p := range pages {
		site.AddPage(p)
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		site.AddFile(rel)
	}
	return site
}

func TestRobots(t *testing.T) {
	t.Parallel()

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		issues := CheckRobots(context.Background(), testEnv(), writeTree(t, nil))
		if len(issues) != 1 || issues[0].RuleID != "robots/missing" {
			t.Errorf("expected robots/missing, got %v", ruleIDs(issues))
		}
	})

	t.Run("directives", func(t *testing.T) {
		t.Parallel()

		robots := "User-agent: *\nDisallow: /\nthis is not a directive\n" +
			"Sitemap: https://www.example.com/sitemap.xml\n" +
			"Sitemap: https://other.com/sitemap.xml\n" +
			"Sitemap: https://example.com/missing.xml\n"
		site := writeTree(t, map[string]string{"robots.txt": robots, "sitemap.xml": "<urlset/>"})

		issues := CheckRobots(context.Background(), testEnv(), site)
		for _, id := range []string{
			"robots/invalid-line", "robots/blocks-all", "robots/sitemap-www-mismatch",
			"robots/sitemap-wrong-domain", "robots/sitemap-not-found",
		} {
			if countRule(issues, id) != 1 {
				t.Errorf("expected one %s, got %v", id, ruleIDs(issues))
			}
		}
		if countRule(issues, "robots/sitemap-directive-missing") != 0 {
			t.Error("sitemap directives are present")
		}
	})
}

func TestParseRobots(t *testing.T) {
	t.Parallel()

	directives, invalid := ParseRobots([]byte("# comment\nUser-Agent: *\n\nAllow: /a # trailing\nbogus\n"))
	if len(directives) != 2 || directives[0].Name != "user-agent" || directives[1].Value != "/a" {
		t.Errorf("unexpected directives %+v", directives)
	}
	if len(invalid) != 1 || invalid[0].Line != 5 {
		t.Errorf("unexpected invalid lines %+v", invalid)
	}
}

func TestSitemap(t *testing.T) {
	t.Parallel()

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		issues := CheckSitemap(context.Background(), testEnv(), writeTree(t, nil))
		if len(issues) != 1 || issues[0].RuleID != "sitemap/missing" {
			t.Errorf("expected sitemap/missing, got %v", ruleIDs(issues))
		}
	})

	t.Run("invalid xml", func(t *testing.T) {
		t.Parallel()

		issues := CheckSitemap(context.Background(), testEnv(), writeTree(t, map[string]string{"sitemap.xml": "<urlset><url>"}))
		if countRule(issues, "sitemap/invalid-xml") != 1 {
			t.Errorf("expected sitemap/invalid-xml, got %v", ruleIDs(issues))
		}
	})

	t.Run("entries", func(t *testing.T) {
		t.Parallel()

		index := `<?xml version="1.0"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>https://example.com/sitemap-0.xml</loc></sitemap>
</sitemapindex>`
		child := `<?xml version="1.0"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/</loc><lastmod>2024-01-02</lastmod></url>
  <url><loc>https://example.com/a</loc><lastmod>yesterday</lastmod></url>
  <url><loc>https://example.com/a</loc></url>
  <url><loc>http://example.com/hidden</loc></url>
  <url><loc>https://other.com/x</loc></url>
  <url><loc>https://example.com/gone</loc></url>
  <url><loc>https://example.com/private/p</loc></url>
</urlset>`
		hidden := testPage("hidden.html")
		hidden.MetaRobots = "noindex"
		site := writeTree(t, map[string]string{
			"sitemap-index.xml": index,
			"sitemap-0.xml":     child,
			"robots.txt":        "User-agent: *\nDisallow: /private/\n",
		}, testPage("index.html"), testPage("a.html"), testPage("unlisted.html"), hidden, testPage("private/p.html"))

		issues := CheckSitemap(context.Background(), testEnv(), site)
		want := map[string]int{
			"sitemap/invalid-lastmod":   1,
			"sitemap/duplicate-url":     1,
			"sitemap/http-mismatch":     1,
			"sitemap/noindex-page":      1,
			"sitemap/wrong-domain":      1,
			"sitemap/url-not-found":     1,
			"sitemap/blocked-by-robots": 1,
			"sitemap/page-missing":      1,
		}
		for id, n := range want {
			if got := countRule(issues, id); got != n {
				t.Errorf("%s: got %d, want %d (all: %v)", id, got, n, ruleIDs(issues))
			}
		}
	})
}

// TestSitemapTrailingSlashRatio checks the minority threshold. The root URL
// and file URLs follow no convention and are left out of the ratio.
func TestSitemapTrailingSlashRatio(t *testing.T) {
	t.Parallel()

	build := func(withSlash, without int, extra []string) string {
		var b strings.Builder
		b.WriteString("<urlset>")
		for i := range withSlash {
			b.WriteString("<url><loc>https://example.com/s" + string(rune('a'+i)) + "/</loc></url>")
		}
		for i := range without {
			b.WriteString("<url><loc>https://example.com/n" + string(rune('a'+i)) + "</loc></url>")
		}
		for _, loc := range extra {
			b.WriteString("<url><loc>" + loc + "</loc></url>")
		}
		b.WriteString("</urlset>")
		return b.String()
	}

	testCases := []struct {
		name      string
		withSlash int
		without   int
		extra     []string
		want      int
	}{
		{"one in ten", 1, 9, nil, 0},
		{"two in ten", 2, 8, nil, 1},
		{"consistent", 0, 5, nil, 0},
		{"root is not a slash convention", 0, 5, []string{"https://example.com/"}, 0},
		{
			"file urls do not dilute the minority", 1, 8,
			[]string{"https://example.com/a.pdf", "https://example.com/b.pdf", "https://example.com/feed.xml"}, 1,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			site := writeTree(t, map[string]string{"sitemap.xml": build(tc.withSlash, tc.without, tc.extra)})
			issues := CheckSitemap(context.Background(), testEnv(), site)
			if got := countRule(issues, "sitemap/trailing-slash-inconsistent"); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestImageFiles(t *testing.T) {
	t.Parallel()

	page := testPage("index.html")
	alt := "alt"
	page.Images = []model.Image{
		{Src: "/img/big.png", Alt: &alt, Line: 2},
		{Src: "img/missing.png", Alt: &alt, Line: 3},
		{Src: "https://cdn.other.com/x.png", Alt: &alt},
		{Src: "data:image/png;base64,AAAA", Alt: &alt},
	}
	site := newSite(page)
	site.AddImage("img/big.png", model.ImageFile{AbsolutePath: "/out/img/big.png", Size: MaxImageBytes + 1})

	issues := CheckImageFiles(context.Background(), testEnv(), site)
	if countRule(issues, "images/file-missing") != 1 || countRule(issues, "images/oversized") != 1 {
		t.Errorf("unexpected issues %v", ruleIDs(issues))
	}
}

func TestExtractEXIFTagsWithoutExif(t *testing.T) {
	t.Parallel()

	gps, identifying := ExtractEXIFTags([]byte("not an image"))
	if gps != nil || identifying != nil {
		t.Errorf("expected no tags, got %v %v", gps, identifying)
	}
}
