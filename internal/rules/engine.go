package rules

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/seoscan/internal/domain"
	"github.com/nao1215/seoscan/internal/model"
	"github.com/nao1215/seoscan/internal/schema"
)

// DefaultConcurrency is the number of pages evaluated at once.
const DefaultConcurrency = 16

// Env is the read-only context shared by every rule of one run.
type Env struct {
	// Classifier classifies URLs against the configured base URL.
	Classifier *domain.Classifier

	// Validator checks JSON-LD objects. Nil disables schema checks.
	Validator *schema.Validator

	// Languages are the configured site languages.
	Languages []string

	// DefaultLanguage is the language of unprefixed pages.
	DefaultLanguage string
}

// LanguageCount returns the number of configured languages, at least one.
func (e *Env) LanguageCount() int {
	return max(len(e.Languages), 1)
}

// PageRule checks one page.
type PageRule func(env *Env, page *model.PageRecord) []model.Issue

// SiteRule checks the whole site.
type SiteRule func(ctx context.Context, env *Env, site *model.SiteIndex) []model.Issue

type namedPageRule struct {
	name string
	rule PageRule
}

type namedSiteRule struct {
	name string
	rule SiteRule
}

// Engine runs registered rules.
type Engine struct {
	env         *Env
	pageRules   []namedPageRule
	siteRules   []namedSiteRule
	concurrency int
	logger      *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithConcurrency sets how many pages are evaluated at once.
func WithConcurrency(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithoutBuiltins returns an engine with no rules registered.
func WithoutBuiltins() EngineOption {
	return func(e *Engine) {
		e.pageRules = nil
		e.siteRules = nil
	}
}

// NewEngine returns an engine with every built-in rule registered.
func NewEngine(env *Env, opts ...EngineOption) *Engine {
	e := &Engine{
		env:         env,
		concurrency: DefaultConcurrency,
	}

	e.RegisterPage("meta", CheckMeta)
	e.RegisterPage("technical", CheckTechnical)
	e.RegisterPage("headings", CheckHeadings)
	e.RegisterPage("content", CheckContent)
	e.RegisterPage("links", CheckLinks)
	e.RegisterPage("images", CheckImages)
	e.RegisterPage("media", CheckMedia)
	e.RegisterPage("a11y", CheckAccessibility)
	e.RegisterPage("social", CheckSocial)
	e.RegisterPage("i18n", CheckHreflang)
	e.RegisterPage("structured-data", CheckStructuredData)

	e.RegisterSite("duplicates", CheckDuplicates)
	e.RegisterSite("orphans", CheckOrphans)
	e.RegisterSite("broken-links", CheckBrokenLinks)
	e.RegisterSite("image-files", CheckImageFiles)
	e.RegisterSite("exif", CheckEXIF)
	e.RegisterSite("robots", CheckRobots)
	e.RegisterSite("sitemap", CheckSitemap)

	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// RegisterPage adds a page rule.
func (e *Engine) RegisterPage(name string, rule PageRule) {
	e.pageRules = append(e.pageRules, namedPageRule{name: name, rule: rule})
}

// RegisterSite adds a site rule.
func (e *Engine) RegisterSite(name string, rule SiteRule) {
	e.siteRules = append(e.siteRules, namedSiteRule{name: name, rule: rule})
}

// Names returns the registered rule names, page rules first.
func (e *Engine) Names() []string {
	names := make([]string, 0, len(e.pageRules)+len(e.siteRules))
	for _, r := range e.pageRules {
		names = append(names, r.name)
	}
	for _, r := range e.siteRules {
		names = append(names, r.name)
	}
	return names
}

// Evaluate runs every rule over site and returns the deduplicated issues
// in deterministic order.
func (e *Engine) Evaluate(ctx context.Context, site *model.SiteIndex) ([]model.Issue, error) {
	pages := site.SortedPages()
	pageIssues := make([][]model.Issue, len(pages))
	siteIssues := make([][]model.Issue, len(e.siteRules))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, page := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for _, r := range e.pageRules {
				pageIssues[i] = append(pageIssues[i], r.rule(e.env, page)...)
			}
			return nil
		})
	}

	var mu sync.Mutex
	counts := make(map[string]int, len(e.siteRules))
	for i, r := range e.siteRules {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			siteIssues[i] = r.rule(gctx, e.env, site)
			mu.Lock()
			counts[r.name] = len(siteIssues[i])
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("rule evaluation cancelled: %w", err)
	}

	var issues []model.Issue
	for _, list := range pageIssues {
		issues = append(issues, list...)
	}
	for _, list := range siteIssues {
		issues = append(issues, list...)
	}

	issues = model.DeduplicateIssues(issues)
	model.SortIssues(issues)

	e.logger.Debug("rules evaluated",
		"pages", len(pages),
		"page_rules", len(e.pageRules),
		"site_rules", counts,
		"issues", len(issues),
	)
	return issues, nil
}

// pageIssue builds an issue located in page.
func pageIssue(page *model.PageRecord, ruleID string, opts ...model.IssueOption) model.Issue {
	return model.NewIssue(ruleID, page.Path, page.RelativePath, opts...)
}
