package exclude

import (
	"regexp"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/nao1215/seoscan/internal/model"
)

// Matcher decides whether an issue is suppressed by a list of exclusion
// rules. It is safe for concurrent use.
type Matcher struct {
	rules  []model.ExclusionRule
	legacy bool

	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
	invalid  map[string]struct{}
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLegacyFingerprints makes any rule that carries a fingerprint match
// regardless of the fingerprint value, as long as its other fields match.
// Older exclusion files depend on this.
func WithLegacyFingerprints(enabled bool) Option {
	return func(m *Matcher) {
		m.legacy = enabled
	}
}

// NewMatcher returns a Matcher for rules. Rules without any matching field
// are dropped.
func NewMatcher(rules []model.ExclusionRule, opts ...Option) *Matcher {
	m := &Matcher{
		patterns: make(map[string]*regexp.Regexp),
		invalid:  make(map[string]struct{}),
	}
	for _, r := range rules {
		if !r.IsEmpty() {
			m.rules = append(m.rules, r)
		}
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Len returns the number of effective rules.
func (m *Matcher) Len() int {
	return len(m.rules)
}

// IsExcluded reports whether any rule matches issue.
func (m *Matcher) IsExcluded(issue model.Issue) bool {
	_, ok := m.Match(issue)
	return ok
}

// Match returns the first rule that matches issue.
func (m *Matcher) Match(issue model.Issue) (model.ExclusionRule, bool) {
	for _, r := range m.rules {
		if m.matches(r, issue) {
			return r, true
		}
	}
	return model.ExclusionRule{}, false
}

func (m *Matcher) matches(r model.ExclusionRule, issue model.Issue) bool {
	if r.IsEmpty() {
		return false
	}
	if r.Fingerprint != "" && !m.legacy && r.Fingerprint != issue.Fingerprint {
		return false
	}
	if r.RuleID != "" && r.RuleID != issue.RuleID {
		return false
	}
	if r.FilePath != "" {
		ok, err := doublestar.Match(r.FilePath, issue.RelativePath)
		if err != nil || !ok {
			return false
		}
	}
	if r.ElementPattern != "" {
		re := m.compile(r.ElementPattern)
		if re == nil || !re.MatchString(issue.Element) {
			return false
		}
	}
	return true
}

// compile returns the cached regexp for pattern, or nil when it does not
// compile.
func (m *Matcher) compile(pattern string) *regexp.Regexp {
	m.mu.Lock()
	defer m.mu.Unlock()

	if re, ok := m.patterns[pattern]; ok {
		return re
	}
	if _, bad := m.invalid[pattern]; bad {
		return nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		m.invalid[pattern] = struct{}{}
		return nil
	}
	m.patterns[pattern] = re
	return re
}

// InvalidPatterns returns the element patterns that failed to compile.
func (m *Matcher) InvalidPatterns() []string {
	var bad []string
	for _, r := range m.rules {
		if r.ElementPattern == "" {
			continue
		}
		if _, err := regexp.Compile(r.ElementPattern); err != nil {
			bad = append(bad, r.ElementPattern)
		}
	}
	return bad
}
