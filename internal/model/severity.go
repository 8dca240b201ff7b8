package model

import (
	"errors"
	"fmt"
	"strings"
)

// Severity is the level assigned to a rule. Higher values are more severe,
// so severities can be compared directly when gating a build.
type Severity int

const (
	// SeverityNotice marks issues worth knowing about that rarely need action.
	SeverityNotice Severity = iota

	// SeverityWarning marks issues that hurt SEO or accessibility but do not
	// break indexing.
	SeverityWarning

	// SeverityError marks issues that break indexing, link integrity or
	// accessibility for some users.
	SeverityError
)

var (
	// ErrUnknownSeverity is returned by ParseSeverity for unrecognized names.
	ErrUnknownSeverity = errors.New("unknown severity")

	// ErrIssuesFound is returned when an audit has issues at or above the
	// configured fail-on severity.
	ErrIssuesFound = errors.New("issues found at or above the fail-on severity")
)

// String returns the lower-case name used in every report format.
func (s Severity) String() string {
	switch s {
	case SeverityNotice:
		return "notice"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseSeverity converts "error", "warning" or "notice" (any case) to a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "notice":
		return SeverityNotice, nil
	case "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return SeverityNotice, fmt.Errorf("%w: %q", ErrUnknownSeverity, s)
	}
}

// MarshalText encodes the severity by name so JSON and YAML stay readable.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// AllSeverities lists severities from most to least severe.
func AllSeverities() []Severity {
	return []Severity{SeverityError, SeverityWarning, SeverityNotice}
}
