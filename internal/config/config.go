package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"

	"github.com/nao1215/seoscan/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "seoscan"

	// DefaultOutputDir is audited when neither the command line nor the
	// configuration file names a directory.
	DefaultOutputDir = "dist"

	// DefaultBatchSize is the number of files stat'ed and parsed per batch.
	DefaultBatchSize = 256

	// DefaultConcurrency bounds the goroutines used for extraction and
	// rule evaluation.
	DefaultConcurrency = 16

	// DefaultMinPageBytes is the size below which an HTML file is not
	// treated as a page.
	DefaultMinPageBytes = 200

	// DefaultRedirectStubBytes is the size below which an HTML file is
	// inspected for a meta refresh redirect.
	DefaultRedirectStubBytes = 2048

	// DefaultFailOn makes the scan fail when any error remains.
	DefaultFailOn = "error"

	// DefaultLanguage is used when no language is configured.
	DefaultLanguage = "en"
)

// Report formats.
const (
	FormatConsole  = "console"
	FormatJSON     = "json"
	FormatSARIF    = "sarif"
	FormatGitHub   = "github"
	FormatMarkdown = "markdown"
)

// FailOnNone disables the fail-on gate.
const FailOnNone = "none"

// Formats lists the supported report formats.
func Formats() []string {
	return []string{FormatConsole, FormatJSON, FormatSARIF, FormatGitHub, FormatMarkdown}
}

// Config holds every option of one seoscan run. It is filled from
// defaults, the configuration file and command-line flags, in that order,
// and passed down explicitly.
type Config struct {
	// OutputDirs are the output roots to audit.
	OutputDirs []string

	// BaseURL defines the canonical scheme and hostname of the site.
	// Domain checks are skipped when it is empty or does not parse.
	BaseURL string

	// MainDomain overrides the apex domain used to tell subdomains from
	// foreign domains.
	MainDomain string

	// Languages are the languages the site is published in.
	Languages []string

	// DefaultLanguage is the language of pages without a language prefix.
	DefaultLanguage string

	// DisabledRules are rule ids whose issues are dropped.
	DisabledRules []string

	// Exclusions suppress single issues.
	Exclusions []model.ExclusionRule

	// LegacyFingerprintMatching makes an exclusion carrying any fingerprint
	// match regardless of its value.
	LegacyFingerprintMatching bool

	// IgnorePaths are globs of files, relative to the output root, that are
	// never indexed.
	IgnorePaths []string

	// MinPageBytes and RedirectStubBytes are the page size thresholds of
	// the indexer.
	MinPageBytes      int64
	RedirectStubBytes int64

	// BatchSize is the number of files processed per batch.
	BatchSize int

	// Concurrency bounds parallel extraction and rule evaluation.
	Concurrency int

	// Format is the report format.
	Format string

	// OutputFile receives the report instead of stdout when set.
	OutputFile string

	// FailOn is the lowest severity that fails the run, or "none".
	FailOn string

	// Verbose enables debug logging.
	Verbose bool

	// NoColor disables colored console output.
	NoColor bool

	// ConfigFilePath is the configuration file given on the command line.
	ConfigFilePath string

	// DBDir is the directory of the history database.
	DBDir string

	// SaveToDB stores each run in the history database.
	SaveToDB bool
}

// NewConfig returns a Config with default values.
func NewConfig() *Config {
	return &Config{
		DefaultLanguage:   DefaultLanguage,
		MinPageBytes:      DefaultMinPageBytes,
		RedirectStubBytes: DefaultRedirectStubBytes,
		BatchSize:         DefaultBatchSize,
		Concurrency:       DefaultConcurrency,
		Format:            FormatConsole,
		FailOn:            DefaultFailOn,
		DBDir:             XDGDataDir(),
		SaveToDB:          true,
	}
}

// XDGDataDir returns the XDG data directory for seoscan, which holds the
// history database.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for seoscan.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// EffectiveLanguages returns the configured languages, or the default
// language alone.
func (c *Config) EffectiveLanguages() []string {
	if len(c.Languages) > 0 {
		return c.Languages
	}
	if c.DefaultLanguage != "" {
		return []string{c.DefaultLanguage}
	}
	return nil
}

// FailOnSeverity returns the severity of the fail-on gate. ok is false when
// the gate is disabled.
func (c *Config) FailOnSeverity() (severity model.Severity, ok bool) {
	if strings.EqualFold(strings.TrimSpace(c.FailOn), FailOnNone) {
		return model.SeverityNotice, false
	}
	s, err := model.ParseSeverity(c.FailOn)
	if err != nil {
		return model.SeverityNotice, false
	}
	return s, true
}

// Validate checks the configuration and returns the first problem found.
// It is called once after flags are parsed.
func (c *Config) Validate() error {
	if len(c.OutputDirs) == 0 {
		return ErrNoOutputDir
	}
	for _, dir := range c.OutputDirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("%w: %s", ErrOutputDirNotFound, dir)
		}
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.MinPageBytes < 0 || c.MinPageBytes >= c.RedirectStubBytes {
		return ErrInvalidPageThresholds
	}

	if !slices.Contains(Formats(), c.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Format)
	}

	if !strings.EqualFold(strings.TrimSpace(c.FailOn), FailOnNone) {
		if _, err := model.ParseSeverity(c.FailOn); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidFailOn, c.FailOn)
		}
	}
	return nil
}
