package model

import "testing"

// TestSiteIndexAddPage verifies that pages land in exactly the multimaps of
// their non-empty fields.
func TestSiteIndexAddPage(t *testing.T) {
	t.Parallel()

	idx := NewSiteIndex("/out")

	full := &PageRecord{
		RelativePath:    "a.html",
		Title:           "Title",
		MetaDescription: "Desc",
		Canonical:       "https://x.com/a",
		ContentDigest:   "abc",
	}
	full.Headings[0] = []string{"Main", "Main"}

	bare := &PageRecord{RelativePath: "b.html"}

	idx.AddPage(full)
	idx.AddPage(bare)

	if got := idx.Titles["Title"]; len(got) != 1 || got[0] != "a.html" {
		t.Errorf("unexpected titles entry: %v", got)
	}
	if got := idx.H1s["Main"]; len(got) != 1 {
		t.Errorf("expected page to be indexed once per h1 text, got %v", got)
	}
	if len(idx.Titles) != 1 || len(idx.Descriptions) != 1 || len(idx.Canonicals) != 1 || len(idx.Contents) != 1 {
		t.Error("empty fields must not create multimap keys")
	}
	if _, ok := idx.Page("b.html"); !ok {
		t.Error("expected bare page to be indexed")
	}
	if !idx.HasFile("a.html") {
		t.Error("expected page to be recorded as a file")
	}
}

// TestSiteIndexKeysAreExact verifies that near-duplicates are not merged.
func TestSiteIndexKeysAreExact(t *testing.T) {
	t.Parallel()

	idx := NewSiteIndex("/out")
	idx.AddPage(&PageRecord{RelativePath: "a.html", Title: "Home"})
	idx.AddPage(&PageRecord{RelativePath: "b.html", Title: "home"})
	idx.AddPage(&PageRecord{RelativePath: "c.html", Title: "Home "})

	if len(idx.Titles) != 3 {
		t.Errorf("expected 3 distinct title keys, got %d", len(idx.Titles))
	}
}

// TestSiteIndexHasDir tests directory lookups used by href resolution.
func TestSiteIndexHasDir(t *testing.T) {
	t.Parallel()

	idx := NewSiteIndex("/out")
	idx.AddFile("docs/guide/index.html")

	if !idx.HasDir("docs") || !idx.HasDir("docs/guide/") {
		t.Error("expected docs and docs/guide to exist")
	}
	if idx.HasDir("doc") {
		t.Error("prefix of a directory name is not a directory")
	}
}

// TestNewStats tests aggregate counting.
func TestNewStats(t *testing.T) {
	t.Parallel()

	idx := NewSiteIndex("/out")
	idx.AddPage(&PageRecord{
		RelativePath: "a.html",
		Links:        []Link{{Href: "/"}, {Href: "/b"}},
		Images:       []Image{{Src: "/x.png"}},
	})

	issues := []Issue{
		NewIssue("meta/title-missing", "a", "a.html"),
		NewIssue("meta/title-too-long", "a", "a.html"),
		NewIssue("links/orphan-page", "a", "a.html"),
	}
	stats := NewStats(idx, issues)

	if stats.TotalPages != 1 || stats.TotalLinks != 2 || stats.TotalImages != 1 {
		t.Errorf("unexpected totals: %+v", stats)
	}
	if stats.Count(SeverityError) != 1 || stats.Count(SeverityWarning) != 2 {
		t.Errorf("unexpected severity counts: %v", stats.BySeverity)
	}
	if stats.ByCategory[CategoryMeta] != 2 || stats.ByCategory[CategoryLinks] != 1 {
		t.Errorf("unexpected category counts: %v", stats.ByCategory)
	}
	if cats := stats.Categories(); len(cats) != 2 || cats[0] != CategoryMeta {
		t.Errorf("unexpected category order: %v", cats)
	}
}

// TestAuditSummarize tests the result built from an audit.
func TestAuditSummarize(t *testing.T) {
	t.Parallel()

	audit := NewAudit("dist")
	audit.Issues = []Issue{
		NewIssue("meta/title-missing", "a", "a.html"),
		NewIssue("content/thin", "a", "a.html"),
	}
	audit.Suppressed = 2

	result := audit.Summarize()
	if audit.Result != result {
		t.Error("expected result to be stored on the audit")
	}
	if result.CountAtLeast(SeverityWarning) != 2 || result.CountAtLeast(SeverityError) != 1 {
		t.Errorf("unexpected counts")
	}
	if len(result.IssuesBySeverity(SeverityError)) != 1 {
		t.Error("expected one error issue")
	}
	if result.Suppressed != 2 {
		t.Errorf("expected suppressed count to be carried, got %d", result.Suppressed)
	}
}

// TestCatalog verifies catalog consistency.
func TestCatalog(t *testing.T) {
	t.Parallel()

	for _, rule := range Rules() {
		if rule.Name == "" || rule.FixHint == "" {
			t.Errorf("rule %s lacks name or fix hint", rule.ID)
		}
		if rule.Category == "" {
			t.Errorf("rule %s has no category", rule.ID)
		}
	}
	if !IsKnownRule("links/orphan-page") {
		t.Error("expected orphan rule in catalog")
	}
}
