package exclude

import (
	"sync"
	"testing"

	"github.com/nao1215/seoscan/internal/model"
)

func issueAt(ruleID, rel, element string) model.Issue {
	return model.NewIssue(ruleID, "/out/"+rel, rel, model.WithElement(element))
}

// TestConjunction verifies that every present field must match.
func TestConjunction(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]model.ExclusionRule{{RuleID: "content/thin", FilePath: "pages/*.html"}})

	testCases := []struct {
		name  string
		issue model.Issue
		want  bool
	}{
		{"rule and path match", issueAt("content/thin", "pages/about.html", ""), true},
		{"path outside glob", issueAt("content/thin", "other/about.html", ""), false},
		{"star stays in segment", issueAt("content/thin", "pages/a/about.html", ""), false},
		{"other rule", issueAt("meta/title-missing", "pages/about.html", ""), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := m.IsExcluded(tc.issue); got != tc.want {
				t.Errorf("IsExcluded() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDoubleStarGlob(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]model.ExclusionRule{{FilePath: "blog/**/*.html"}})
	if !m.IsExcluded(issueAt("content/thin", "blog/2024/01/post.html", "")) {
		t.Error("** should match across segments")
	}
	if m.IsExcluded(issueAt("content/thin", "docs/post.html", "")) {
		t.Error("unexpected match outside blog/")
	}
}

func TestEmptyRuleMatchesNothing(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]model.ExclusionRule{{Reason: "only a reason"}})
	if m.Len() != 0 {
		t.Errorf("expected empty rule to be dropped, got %d rules", m.Len())
	}
	if m.IsExcluded(issueAt("content/thin", "a.html", "")) {
		t.Error("empty rule must not match")
	}
}

func TestElementPattern(t *testing.T) {
	t.Parallel()

	t.Run("regex", func(t *testing.T) {
		t.Parallel()

		m := NewMatcher([]model.ExclusionRule{{ElementPattern: `^<img src="/legacy/`}})
		if !m.IsExcluded(issueAt("images/alt-missing", "a.html", `<img src="/legacy/x.png">`)) {
			t.Error("expected element pattern to match")
		}
		if m.IsExcluded(issueAt("images/alt-missing", "a.html", `<img src="/new/x.png">`)) {
			t.Error("unexpected match")
		}
	})

	t.Run("malformed pattern is a non-match", func(t *testing.T) {
		t.Parallel()

		m := NewMatcher([]model.ExclusionRule{{RuleID: "images/alt-missing", ElementPattern: `([`}})
		if m.IsExcluded(issueAt("images/alt-missing", "a.html", "([")) {
			t.Error("malformed pattern must not match")
		}
		if bad := m.InvalidPatterns(); len(bad) != 1 || bad[0] != `([` {
			t.Errorf("unexpected invalid patterns %v", bad)
		}
	})
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	issue := issueAt("content/thin", "a.html", "")
	other := issueAt("content/thin", "b.html", "")

	t.Run("exact", func(t *testing.T) {
		t.Parallel()

		m := NewMatcher([]model.ExclusionRule{{Fingerprint: issue.Fingerprint}})
		if !m.IsExcluded(issue) {
			t.Error("expected exact fingerprint to match")
		}
		if m.IsExcluded(other) {
			t.Error("a different fingerprint must not match")
		}
	})

	t.Run("legacy", func(t *testing.T) {
		t.Parallel()

		m := NewMatcher([]model.ExclusionRule{{Fingerprint: "stale::fingerprint"}}, WithLegacyFingerprints(true))
		if !m.IsExcluded(other) {
			t.Error("legacy matching suppresses on fingerprint presence")
		}

		m = NewMatcher([]model.ExclusionRule{{Fingerprint: "stale", RuleID: "meta/title-missing"}}, WithLegacyFingerprints(true))
		if m.IsExcluded(other) {
			t.Error("other fields still have to match in legacy mode")
		}
	})
}

func TestMatchReturnsRule(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]model.ExclusionRule{
		{RuleID: "meta/title-missing", Reason: "first"},
		{RuleID: "content/thin", Reason: "thin pages are fine"},
	})
	r, ok := m.Match(issueAt("content/thin", "a.html", ""))
	if !ok || r.Reason != "thin pages are fine" {
		t.Errorf("unexpected match %+v, %v", r, ok)
	}
}

func TestConcurrentMatching(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]model.ExclusionRule{{ElementPattern: "legacy"}})
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				m.IsExcluded(issueAt("content/thin", "a.html", "legacy"))
			}
		}()
	}
	wg.Wait()
}

func TestFilterExcludedIssues(t *testing.T) {
	t.Parallel()

	issues := []model.Issue{
		issueAt("content/thin", "pages/a.html", ""),
		issueAt("meta/title-missing", "pages/a.html", ""),
		issueAt("content/thin", "pages/b.html", ""),
	}
	m := NewMatcher([]model.ExclusionRule{{RuleID: "content/thin"}})

	kept, suppressed := FilterExcludedIssues(issues, m)
	if suppressed != 2 || len(kept) != 1 || kept[0].RuleID != "meta/title-missing" {
		t.Errorf("unexpected result: kept=%v suppressed=%d", kept, suppressed)
	}

	kept, suppressed = FilterExcludedIssues(issues, nil)
	if suppressed != 0 || len(kept) != 3 {
		t.Error("nil matcher keeps everything")
	}
}

func TestFilterDisabledRules(t *testing.T) {
	t.Parallel()

	issues := []model.Issue{
		issueAt("content/thin", "a.html", ""),
		issueAt("meta/title-missing", "a.html", ""),
		issueAt("content/thin", "b.html", ""),
	}
	kept, dropped := FilterDisabledRules(issues, []string{"content/thin", "unknown/rule"})
	if dropped != 2 || len(kept) != 1 {
		t.Errorf("unexpected result: kept=%v dropped=%d", kept, dropped)
	}
}
