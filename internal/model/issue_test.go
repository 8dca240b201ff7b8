package model

import (
	"strings"
	"testing"
)

// TestFingerprint tests the fingerprint layout.
func TestFingerprint(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		ruleID   string
		rel      string
		element  string
		line     int
		expected string
	}{
		{
			name:     "rule and path only",
			ruleID:   "meta/title-missing",
			rel:      "index.html",
			expected: "meta/title-missing::index.html",
		},
		{
			name:     "with element",
			ruleID:   "images/alt-missing",
			rel:      "blog/post.html",
			element:  `<img src="/a.png">`,
			expected: `images/alt-missing::blog/post.html::<img src="/a.png">`,
		},
		{
			name:     "with line",
			ruleID:   "headings/skipped-level",
			rel:      "a.html",
			line:     12,
			expected: "headings/skipped-level::a.html::L12",
		},
		{
			name:     "with element and line",
			ruleID:   "links/no-text",
			rel:      "a.html",
			element:  `<a href="/x"></a>`,
			line:     3,
			expected: `links/no-text::a.html::<a href="/x"></a>::L3`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Fingerprint(tc.ruleID, tc.rel, tc.element, tc.line)
			if got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

// TestFingerprintTruncatesElement verifies the 100 rune element limit.
func TestFingerprintTruncatesElement(t *testing.T) {
	t.Parallel()

	element := strings.Repeat("é", 150)
	fp := Fingerprint("r/x", "p.html", element, 0)
	parts := strings.Split(fp, "::")
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}
	if n := len([]rune(parts[2])); n != FingerprintElementLength {
		t.Errorf("expected %d runes, got %d", FingerprintElementLength, n)
	}
}

// TestNewIssue tests catalog lookup and option handling.
func TestNewIssue(t *testing.T) {
	t.Parallel()

	t.Run("fills catalog fields", func(t *testing.T) {
		t.Parallel()

		issue := NewIssue("meta/description-too-short", "/out/index.html", "index.html",
			WithValues("119 characters", "120-160 characters"))

		if issue.Severity != SeverityWarning {
			t.Errorf("expected warning, got %v", issue.Severity)
		}
		if issue.Category != CategoryMeta {
			t.Errorf("expected category meta, got %q", issue.Category)
		}
		if issue.RuleName == "" || issue.FixHint == "" {
			t.Error("expected rule name and fix hint from catalog")
		}
		if issue.Message != issue.RuleName {
			t.Errorf("expected default message to be the rule name, got %q", issue.Message)
		}
		if issue.Fingerprint != "meta/description-too-short::index.html" {
			t.Errorf("unexpected fingerprint %q", issue.Fingerprint)
		}
	})

	t.Run("unknown rule falls back to id", func(t *testing.T) {
		t.Parallel()

		issue := NewIssue("custom/thing", "f", "f.html")
		if issue.RuleName != "custom/thing" {
			t.Errorf("expected rule id as name, got %q", issue.RuleName)
		}
		if issue.Category != "custom" {
			t.Errorf("expected category custom, got %q", issue.Category)
		}
	})

	t.Run("ignores non-positive line", func(t *testing.T) {
		t.Parallel()

		issue := NewIssue("meta/title-missing", "f", "f.html", WithLine(0))
		if issue.Line != 0 {
			t.Errorf("expected no line, got %d", issue.Line)
		}
		if strings.Contains(issue.Fingerprint, "::L") {
			t.Errorf("fingerprint should not carry a line: %q", issue.Fingerprint)
		}
	})

	t.Run("element excerpt is capped", func(t *testing.T) {
		t.Parallel()

		issue := NewIssue("links/no-text", "f", "f.html", WithElement(strings.Repeat("x", 500)))
		if len(issue.Element) != MaxElementLength {
			t.Errorf("expected %d characters, got %d", MaxElementLength, len(issue.Element))
		}
	})
}

// TestSortAndDeduplicateIssues tests deterministic ordering and fingerprint dedup.
func TestSortAndDeduplicateIssues(t *testing.T) {
	t.Parallel()

	issues := []Issue{
		NewIssue("meta/title-missing", "b", "b.html"),
		NewIssue("links/no-text", "a", "a.html", WithLine(9)),
		NewIssue("links/no-text", "a", "a.html", WithLine(2)),
		NewIssue("meta/title-missing", "b", "b.html"),
	}

	deduped := DeduplicateIssues(issues)
	if len(deduped) != 3 {
		t.Fatalf("expected 3 issues after dedup, got %d", len(deduped))
	}

	SortIssues(deduped)
	if deduped[0].RelativePath != "a.html" || deduped[0].Line != 2 {
		t.Errorf("unexpected first issue: %+v", deduped[0])
	}
	if deduped[2].RelativePath != "b.html" {
		t.Errorf("unexpected last issue: %+v", deduped[2])
	}
}
