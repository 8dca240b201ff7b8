package config

import "github.com/nao1215/seoscan/internal/model"

// File is the structure of the .seoscan.yaml configuration file. Every
// field is optional; unset fields leave the defaults in place.
type File struct {
	BaseURL         string   `yaml:"baseUrl,omitempty"`
	MainDomain      string   `yaml:"mainDomain,omitempty"`
	Languages       []string `yaml:"languages,omitempty"`
	DefaultLanguage string   `yaml:"defaultLanguage,omitempty"`

	// OutputDir is audited when no directory is given on the command line.
	OutputDir string `yaml:"outputDir,omitempty"`

	DisabledRules []string              `yaml:"disabledRules,omitempty"`
	Exclusions    []model.ExclusionRule `yaml:"exclusions,omitempty"`
	IgnorePaths   []string              `yaml:"ignorePaths,omitempty"`

	FailOn string `yaml:"failOn,omitempty"`

	LegacyFingerprintMatching bool `yaml:"legacyFingerprintMatching,omitempty"`

	MinPageBytes      int64 `yaml:"minPageBytes,omitempty"`
	RedirectStubBytes int64 `yaml:"redirectStubBytes,omitempty"`
}

// ApplyFile copies the fields set in f onto c. Command-line flags are
// applied afterwards and win.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	if f.BaseURL != "" {
		c.BaseURL = f.BaseURL
	}
	if f.MainDomain != "" {
		c.MainDomain = f.MainDomain
	}
	if len(f.Languages) > 0 {
		c.Languages = f.Languages
	}
	if f.DefaultLanguage != "" {
		c.DefaultLanguage = f.DefaultLanguage
	}
	if f.OutputDir != "" && len(c.OutputDirs) == 0 {
		c.OutputDirs = []string{f.OutputDir}
	}
	if len(f.DisabledRules) > 0 {
		c.DisabledRules = append(c.DisabledRules, f.DisabledRules...)
	}
	if len(f.Exclusions) > 0 {
		c.Exclusions = append(c.Exclusions, f.Exclusions...)
	}
	if len(f.IgnorePaths) > 0 {
		c.IgnorePaths = append(c.IgnorePaths, f.IgnorePaths...)
	}
	if f.FailOn != "" {
		c.FailOn = f.FailOn
	}
	if f.LegacyFingerprintMatching {
		c.LegacyFingerprintMatching = true
	}
	if f.MinPageBytes > 0 {
		c.MinPageBytes = f.MinPageBytes
	}
	if f.RedirectStubBytes > 0 {
		c.RedirectStubBytes = f.RedirectStubBytes
	}
}
