package schema

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleFile is the on-disk shape of a user-supplied rules file. Extra rules
// are merged into the registry, overriding built-ins on tag collision.
type RuleFile struct {
	Rules []RuleSpec `yaml:"rules"`
}

// RuleSpec is one declarative rule in a rules file.
type RuleSpec struct {
	Type         string   `yaml:"type"`
	Fields       []string `yaml:"fields"`
	Rewrite      string   `yaml:"rewrite,omitempty"`
	PatternField string   `yaml:"pattern_field,omitempty"`
	Pattern      string   `yaml:"pattern,omitempty"`
	Demote       string   `yaml:"demote,omitempty"` // warning text; empty means no demotion
}

// LoadRuleFile merges rules from a YAML file into the registry.
func (r *Registry) LoadRuleFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading rules file: %w", err)
	}

	var rf RuleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return fmt.Errorf("parsing rules file: %w", err)
	}

	for _, spec := range rf.Rules {
		rule, err := spec.compile()
		if err != nil {
			return fmt.Errorf("rule %q: %w", spec.Type, err)
		}
		r.rules[strings.ToLower(spec.Type)] = rule
	}

	return nil
}

func (s RuleSpec) compile() (Rule, error) {
	if s.Type == "" {
		return Rule{}, fmt.Errorf("missing type tag")
	}
	if len(s.Fields) == 0 {
		return Rule{}, fmt.Errorf("no required fields listed")
	}

	rule := Rule{
		Type:   strings.ToLower(s.Type),
		Fields: s.Fields,
	}
	if s.Rewrite != "" {
		rule.Type = strings.ToLower(s.Rewrite)
	}
	if s.Demote != "" {
		rule.Demote = true
		rule.DemoteReason = s.Demote
	}

	if s.Pattern != "" {
		if s.PatternField == "" {
			return Rule{}, fmt.Errorf("pattern declared without pattern_field")
		}
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return Rule{}, fmt.Errorf("compiling pattern: %w", err)
		}
		rule.Constraint = &Constraint{Field: strings.ToLower(s.PatternField), Pattern: re}
	}

	return rule, nil
}
