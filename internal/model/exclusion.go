package model

// ExclusionRule suppresses issues matching every field that is set.
// It is read from the exclusions list of the configuration file.
type ExclusionRule struct {
	Fingerprint    string `yaml:"fingerprint,omitempty" json:"fingerprint,omitempty"`
	RuleID         string `yaml:"ruleId,omitempty" json:"ruleId,omitempty"`
	FilePath       string `yaml:"filePath,omitempty" json:"filePath,omitempty"`
	ElementPattern string `yaml:"elementPattern,omitempty" json:"elementPattern,omitempty"`
	Reason         string `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// IsEmpty reports whether no matching field is set. Reason does not count.
func (r ExclusionRule) IsEmpty() bool {
	return r.Fingerprint == "" && r.RuleID == "" && r.FilePath == "" && r.ElementPattern == ""
}
