package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/seoscan/internal/model"
)

// TestNewConfig verifies the defaults.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default BatchSize is 256", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 256 {
			t.Errorf("expected BatchSize to be 256, got %d", cfg.BatchSize)
		}
	})

	t.Run("default Concurrency is 16", func(t *testing.T) {
		t.Parallel()
		if cfg.Concurrency != 16 {
			t.Errorf("expected Concurrency to be 16, got %d", cfg.Concurrency)
		}
	})

	t.Run("default page thresholds", func(t *testing.T) {
		t.Parallel()
		if cfg.MinPageBytes != 200 || cfg.RedirectStubBytes != 2048 {
			t.Errorf("unexpected thresholds %d/%d", cfg.MinPageBytes, cfg.RedirectStubBytes)
		}
	})

	t.Run("default format is console and fail-on is error", func(t *testing.T) {
		t.Parallel()
		if cfg.Format != FormatConsole {
			t.Errorf("expected console format, got %q", cfg.Format)
		}
		if cfg.FailOn != "error" {
			t.Errorf("expected fail-on error, got %q", cfg.FailOn)
		}
	})

	t.Run("history is saved by default", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveToDB || cfg.DBDir == "" {
			t.Error("expected history to be enabled with a data dir")
		}
	})
}

// TestConfigValidate tests one validation rule per case.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func(t *testing.T) *Config {
		t.Helper()
		cfg := NewConfig()
		cfg.OutputDirs = []string{t.TempDir()}
		return cfg
	}

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		if err := validConfig(t).Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	testCases := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"no output dir", func(c *Config) { c.OutputDirs = nil }, ErrNoOutputDir},
		{"missing output dir", func(c *Config) { c.OutputDirs = []string{"/nonexistent/dist"} }, ErrOutputDirNotFound},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, ErrInvalidBatchSize},
		{"negative concurrency", func(c *Config) { c.Concurrency = -1 }, ErrInvalidConcurrency},
		{"min above stub", func(c *Config) { c.MinPageBytes = 4096 }, ErrInvalidPageThresholds},
		{"negative min", func(c *Config) { c.MinPageBytes = -1 }, ErrInvalidPageThresholds},
		{"unknown format", func(c *Config) { c.Format = "xml" }, ErrInvalidFormat},
		{"unknown fail-on", func(c *Config) { c.FailOn = "critical" }, ErrInvalidFailOn},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig(t)
			tc.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}

	t.Run("output path that is a file", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig(t)
		file := filepath.Join(t.TempDir(), "index.html")
		if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
		cfg.OutputDirs = []string{file}
		if err := cfg.Validate(); !errors.Is(err, ErrOutputDirNotFound) {
			t.Errorf("expected ErrOutputDirNotFound, got %v", err)
		}
	})

	t.Run("fail-on none is valid", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig(t)
		cfg.FailOn = "none"
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

func TestFailOnSeverity(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		failOn string
		want   model.Severity
		ok     bool
	}{
		{"error", model.SeverityError, true},
		{"warning", model.SeverityWarning, true},
		{"notice", model.SeverityNotice, true},
		{"none", model.SeverityNotice, false},
		{"NONE", model.SeverityNotice, false},
	}
	for _, tc := range testCases {
		t.Run(tc.failOn, func(t *testing.T) {
			t.Parallel()
			cfg := NewConfig()
			cfg.FailOn = tc.failOn
			got, ok := cfg.FailOnSeverity()
			if ok != tc.ok || (ok && got != tc.want) {
				t.Errorf("FailOnSeverity() = %v, %v", got, ok)
			}
		})
	}
}

func TestEffectiveLanguages(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if got := cfg.EffectiveLanguages(); len(got) != 1 || got[0] != "en" {
		t.Errorf("expected default language only, got %v", got)
	}
	cfg.Languages = []string{"en", "ja"}
	if got := cfg.EffectiveLanguages(); len(got) != 2 {
		t.Errorf("expected configured languages, got %v", got)
	}
}

// TestApplyFile verifies that file values override defaults and that
// list values accumulate.
func TestApplyFile(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.DisabledRules = []string{"content/thin"}
	cfg.ApplyFile(&File{
		BaseURL:                   "https://example.com",
		Languages:                 []string{"en", "ja"},
		OutputDir:                 "public",
		DisabledRules:             []string{"meta/robots-noindex"},
		Exclusions:                []model.ExclusionRule{{RuleID: "links/orphan-page"}},
		FailOn:                    "warning",
		LegacyFingerprintMatching: true,
		MinPageBytes:              100,
	})

	if cfg.BaseURL != "https://example.com" || len(cfg.Languages) != 2 {
		t.Errorf("unexpected site settings: %+v", cfg)
	}
	if len(cfg.OutputDirs) != 1 || cfg.OutputDirs[0] != "public" {
		t.Errorf("expected outputDir from file, got %v", cfg.OutputDirs)
	}
	if len(cfg.DisabledRules) != 2 || len(cfg.Exclusions) != 1 {
		t.Errorf("expected accumulated lists, got %v %v", cfg.DisabledRules, cfg.Exclusions)
	}
	if cfg.FailOn != "warning" || !cfg.LegacyFingerprintMatching {
		t.Error("expected failOn and legacy matching from file")
	}
	if cfg.MinPageBytes != 100 || cfg.RedirectStubBytes != DefaultRedirectStubBytes {
		t.Errorf("unexpected thresholds %d/%d", cfg.MinPageBytes, cfg.RedirectStubBytes)
	}

	t.Run("outputDir does not replace command line dirs", func(t *testing.T) {
		t.Parallel()
		c := NewConfig()
		c.OutputDirs = []string{"dist"}
		c.ApplyFile(&File{OutputDir: "public"})
		if c.OutputDirs[0] != "dist" {
			t.Errorf("expected dist, got %v", c.OutputDirs)
		}
	})

	t.Run("nil file is a no-op", func(t *testing.T) {
		t.Parallel()
		c := NewConfig()
		c.ApplyFile(nil)
		if c.BaseURL != "" {
			t.Error("expected unchanged config")
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		f, err := LoadConfigFile("/nonexistent/path/.seoscan.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if f != nil {
			t.Error("expected nil file when not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `baseUrl: https://example.com
mainDomain: example.com
languages: [en, ja]
defaultLanguage: en
outputDir: dist
disabledRules:
  - content/thin
exclusions:
  - ruleId: links/orphan-page
    filePath: "legal/**"
    reason: reached from the footer script
  - fingerprint: "meta/title-too-long::index.html"
  - elementPattern: "^<img src=\"/legacy/"
ignorePaths:
  - "drafts/**"
failOn: warning
`
		if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		f, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.BaseURL != "https://example.com" || f.MainDomain != "example.com" {
			t.Errorf("unexpected site settings %+v", f)
		}
		if len(f.Languages) != 2 || f.Languages[1] != "ja" {
			t.Errorf("unexpected languages %v", f.Languages)
		}
		if len(f.Exclusions) != 3 {
			t.Fatalf("expected 3 exclusions, got %d", len(f.Exclusions))
		}
		if f.Exclusions[0].FilePath != "legal/**" || f.Exclusions[0].Reason == "" {
			t.Errorf("unexpected first exclusion %+v", f.Exclusions[0])
		}
		if f.Exclusions[1].Fingerprint != "meta/title-too-long::index.html" {
			t.Errorf("unexpected fingerprint %q", f.Exclusions[1].Fingerprint)
		}
		if f.Exclusions[2].ElementPattern != `^<img src="/legacy/` {
			t.Errorf("unexpected element pattern %q", f.Exclusions[2].ElementPattern)
		}
		if f.FailOn != "warning" || len(f.IgnorePaths) != 1 {
			t.Errorf("unexpected failOn or ignorePaths %+v", f)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("baseUrl: https://example.com"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if got := FindConfigFile(configPath); got != configPath {
			t.Errorf("expected %q, got %q", configPath, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile("/nonexistent/path/config.yaml"); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if filepath.Base(XDGDataDir()) != AppName {
		t.Errorf("unexpected data dir %q", XDGDataDir())
	}
	if filepath.Base(XDGConfigDir()) != AppName {
		t.Errorf("unexpected config dir %q", XDGConfigDir())
	}
}
