package report

import (
	"io"
	"path/filepath"

	"github.com/nao1215/seoscan/internal/model"
)

// SARIF document constants.
const (
	sarifVersion  = "2.1.0"
	sarifSchema   = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifToolName = "seoscan"
	sarifInfoURI  = "https://github.com/nao1215/seoscan"
)

// SARIFWriter outputs SARIF 2.1.0 logs for code scanning services. Each
// rule that produced an issue appears once in the driver's rule list and
// every result carries the issue fingerprint as fingerprints.primary.
type SARIFWriter struct {
	*JSONWriter
	version string
}

// NewSARIFWriter creates a SARIFWriter. version is reported as the driver
// version and may be empty.
func NewSARIFWriter(output io.Writer, version string) *SARIFWriter {
	return &SARIFWriter{
		JSONWriter: NewJSONWriter(output, WithPrettyPrint()),
		version:    version,
	}
}

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	ShortDescription     sarifMessage       `json:"shortDescription"`
	Help                 sarifMessage       `json:"help"`
	DefaultConfiguration sarifConfiguration `json:"defaultConfiguration"`
	Properties           sarifRuleProps     `json:"properties"`
}

type sarifConfiguration struct {
	Level string `json:"level"`
}

type sarifRuleProps struct {
	Category string `json:"category"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID       string            `json:"ruleId"`
	RuleIndex    int               `json:"ruleIndex"`
	Level        string            `json:"level"`
	Message      sarifMessage      `json:"message"`
	Locations    []sarifLocation   `json:"locations"`
	Fingerprints map[string]string `json:"fingerprints"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

// Write outputs the result as a SARIF log with a single run.
func (w *SARIFWriter) Write(result *model.AuditResult) (int, error) {
	return w.writeJSON(w.build(result))
}

func (w *SARIFWriter) build(result *model.AuditResult) sarifLog {
	driver := sarifDriver{
		Name:           sarifToolName,
		Version:        w.version,
		InformationURI: sarifInfoURI,
		Rules:          []sarifRule{},
	}
	ruleIndex := make(map[string]int)
	results := make([]sarifResult, 0, len(result.Issues))

	for _, issue := range result.Issues {
		idx, ok := ruleIndex[issue.RuleID]
		if !ok {
			idx = len(driver.Rules)
			ruleIndex[issue.RuleID] = idx
			driver.Rules = append(driver.Rules, sarifRule{
				ID:                   issue.RuleID,
				Name:                 issue.RuleName,
				ShortDescription:     sarifMessage{Text: issue.RuleName},
				Help:                 sarifMessage{Text: issue.FixHint},
				DefaultConfiguration: sarifConfiguration{Level: sarifLevel(issue.Severity)},
				Properties:           sarifRuleProps{Category: issue.Category},
			})
		}

		loc := sarifLocation{PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{URI: artifactURI(result.Target, issue.RelativePath)},
		}}
		if issue.Line > 0 {
			loc.PhysicalLocation.Region = &sarifRegion{StartLine: issue.Line}
		}

		results = append(results, sarifResult{
			RuleID:       issue.RuleID,
			RuleIndex:    idx,
			Level:        sarifLevel(issue.Severity),
			Message:      sarifMessage{Text: issueMessage(issue)},
			Locations:    []sarifLocation{loc},
			Fingerprints: map[string]string{"primary": issue.Fingerprint},
		})
	}

	return sarifLog{
		Version: sarifVersion,
		Schema:  sarifSchema,
		Runs:    []sarifRun{{Tool: sarifTool{Driver: driver}, Results: results}},
	}
}

// sarifLevel maps severities onto SARIF levels.
func sarifLevel(s model.Severity) string {
	switch s {
	case model.SeverityError:
		return "error"
	case model.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// artifactURI joins the output root and the page path into a slash path
// relative to the working directory.
func artifactURI(target, rel string) string {
	if target == "" {
		return rel
	}
	return filepath.ToSlash(filepath.Join(target, filepath.FromSlash(rel)))
}

// issueMessage is the message plus the observed and expected values.
func issueMessage(issue model.Issue) string {
	msg := issue.Message
	switch {
	case issue.Actual != "" && issue.Expected != "":
		msg += " (actual: " + issue.Actual + ", expected: " + issue.Expected + ")"
	case issue.Actual != "":
		msg += " (" + issue.Actual + ")"
	}
	return msg
}
