package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/seoscan/internal/config"
	"github.com/nao1215/seoscan/internal/domain"
	"github.com/nao1215/seoscan/internal/exclude"
	"github.com/nao1215/seoscan/internal/extract"
	"github.com/nao1215/seoscan/internal/indexer"
	"github.com/nao1215/seoscan/internal/model"
	"github.com/nao1215/seoscan/internal/rules"
	"github.com/nao1215/seoscan/internal/schema"
)

// ErrNoSiteIndex is returned by steps that need the index when the index
// step has not run.
var ErrNoSiteIndex = errors.New("site index not built")

// IndexStep walks the output root and builds the site index.
type IndexStep struct {
	indexer *indexer.Indexer
	baseURL string
	logger  *slog.Logger
}

// NewIndexStep returns an IndexStep. baseURL is recorded on the audit.
func NewIndexStep(ix *indexer.Indexer, baseURL string, logger *slog.Logger) *IndexStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexStep{indexer: ix, baseURL: baseURL, logger: logger}
}

// Name returns the step name.
func (s *IndexStep) Name() string {
	return "index"
}

// Do builds the index of audit.Target.
func (s *IndexStep) Do(ctx context.Context, audit *model.Audit) error {
	audit.BaseURL = s.baseURL
	site, err := s.indexer.Build(ctx, audit.Target)
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", audit.Target, err)
	}
	audit.Site = site
	s.logger.Debug("site indexed",
		"target", audit.Target,
		"pages", len(site.Pages),
		"images", len(site.Images),
		"files", len(site.Files),
	)
	return nil
}

// RuleStep evaluates every registered rule over the index.
type RuleStep struct {
	engine *rules.Engine
}

// NewRuleStep returns a RuleStep.
func NewRuleStep(engine *rules.Engine) *RuleStep {
	return &RuleStep{engine: engine}
}

// Name returns the step name.
func (s *RuleStep) Name() string {
	return "rules"
}

// Do appends the raw issues to the audit.
func (s *RuleStep) Do(ctx context.Context, audit *model.Audit) error {
	if audit.Site == nil {
		return ErrNoSiteIndex
	}
	issues, err := s.engine.Evaluate(ctx, audit.Site)
	if err != nil {
		return err
	}
	audit.AddIssues(issues...)
	return nil
}

// FilterStep drops issues of disabled rules, then issues matched by an
// exclusion rule.
type FilterStep struct {
	disabled []string
	matcher  *exclude.Matcher
	logger   *slog.Logger
}

// NewFilterStep returns a FilterStep.
func NewFilterStep(disabled []string, matcher *exclude.Matcher, logger *slog.Logger) *FilterStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &FilterStep{disabled: disabled, matcher: matcher, logger: logger}
}

// Name returns the step name.
func (s *FilterStep) Name() string {
	return "filter"
}

// Do sets Issues, Disabled and Suppressed on the audit.
func (s *FilterStep) Do(_ context.Context, audit *model.Audit) error {
	issues, disabled := exclude.FilterDisabledRules(audit.RawIssues, s.disabled)
	issues, suppressed := exclude.FilterExcludedIssues(issues, s.matcher)

	audit.Issues = issues
	audit.Disabled = disabled
	audit.Suppressed = suppressed

	if disabled+suppressed > 0 {
		s.logger.Debug("issues filtered",
			"target", audit.Target,
			"disabled", disabled,
			"suppressed", suppressed,
		)
	}
	return nil
}

// SummarizeStep records the duration and builds the result.
type SummarizeStep struct{}

// NewSummarizeStep returns a SummarizeStep.
func NewSummarizeStep() *SummarizeStep {
	return &SummarizeStep{}
}

// Name returns the step name.
func (s *SummarizeStep) Name() string {
	return "summarize"
}

// Do stores the AuditResult on the audit.
func (s *SummarizeStep) Do(_ context.Context, audit *model.Audit) error {
	audit.Duration = time.Since(audit.DateScanned)
	audit.Summarize()
	return nil
}

// DefaultPipeline returns the standard audit pipeline for cfg. validator
// may be nil to skip schema checks; it is read-only and can be shared
// between pipelines.
func DefaultPipeline(cfg *config.Config, validator *schema.Validator, opts ...Option) *Pipeline {
	p := New(opts...)

	classifier := domain.New(cfg.BaseURL, cfg.MainDomain)

	ix := indexer.New(extract.New(classifier),
		indexer.WithBatchSize(cfg.BatchSize),
		indexer.WithConcurrency(cfg.Concurrency),
		indexer.WithPageThresholds(cfg.MinPageBytes, cfg.RedirectStubBytes),
		indexer.WithIgnorePaths(cfg.IgnorePaths),
		indexer.WithLogger(p.logger),
	)

	engine := rules.NewEngine(&rules.Env{
		Classifier:      classifier,
		Validator:       validator,
		Languages:       cfg.EffectiveLanguages(),
		DefaultLanguage: cfg.DefaultLanguage,
	}, rules.WithConcurrency(cfg.Concurrency), rules.WithLogger(p.logger))

	matcher := exclude.NewMatcher(cfg.Exclusions,
		exclude.WithLegacyFingerprints(cfg.LegacyFingerprintMatching))
	for _, pattern := range matcher.InvalidPatterns() {
		p.logger.Warn("exclusion elementPattern does not compile and never matches", "pattern", pattern)
	}

	p.AddSteps(
		NewIndexStep(ix, classifier.BaseURL(), p.logger),
		NewRuleStep(engine),
		NewFilterStep(cfg.DisabledRules, matcher, p.logger),
		NewSummarizeStep(),
	)
	return p
}
