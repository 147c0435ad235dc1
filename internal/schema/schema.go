// Package schema holds the per-type validation rules for bibliographic
// records. The registry is the single source of truth consulted by the
// validator: each entry type maps to a declarative rule carrying its
// required fields, an optional format constraint, an optional output-type
// rewrite, and whether a clean result is demoted to a warning.
package schema

import (
	"regexp"
	"sort"
	"strings"
)

// Constraint binds a regular-expression check to one required field.
type Constraint struct {
	Field   string
	Pattern *regexp.Regexp
}

// Matches tests the constraint against a field value.
func (c *Constraint) Matches(value string) bool {
	return c.Pattern.MatchString(value)
}

// Rule describes how one entry type is validated and normalized.
type Rule struct {
	// Type is the canonical output type, which may differ from the tag
	// the rule was selected for (misc entries are rewritten to www).
	Type string
	// Fields lists the required fields in canonical output order.
	Fields []string
	// Constraint is an optional format check on one field. Nil if none.
	Constraint *Constraint
	// Demote marks rules whose clean outcome is reported as a warning,
	// so operators see that the entry type was rewritten.
	Demote bool
	// DemoteReason is the warning text used when Demote is set.
	DemoteReason string
}

// Journal value constraint for arXiv preprint entries: the literal prefix
// followed by an arXiv identifier.
var arxivJournalPattern = regexp.MustCompile(`^arXiv preprint arXiv:\d{4}\.\d{5}$`)

// Loose check that a pages-style value ends with a parenthesized segment.
// Deliberately a heuristic; the segment's content is not constrained.
var parenSuffixPattern = regexp.MustCompile(`\(.*\)$`)

// Registry maps lower-cased entry type tags to rules.
type Registry struct {
	rules map[string]Rule
	// arxiv is consulted instead of the plain article rule when the
	// journal field names an arXiv preprint.
	arxiv Rule
}

// NewRegistry returns a registry populated with the built-in rules.
func NewRegistry() *Registry {
	r := &Registry{rules: make(map[string]Rule)}

	r.rules["article"] = Rule{
		Type:       "article",
		Fields:     []string{"title", "author", "journal", "volume", "number", "pages", "year"},
		Constraint: &Constraint{Field: "pages", Pattern: parenSuffixPattern},
	}
	r.arxiv = Rule{
		Type:       "article",
		Fields:     []string{"title", "author", "year", "journal"},
		Constraint: &Constraint{Field: "journal", Pattern: arxivJournalPattern},
	}
	r.rules["inproceedings"] = Rule{
		Type:       "inproceedings",
		Fields:     []string{"title", "author", "booktitle", "year", "pages"},
		Constraint: &Constraint{Field: "pages", Pattern: parenSuffixPattern},
	}
	r.rules["book"] = Rule{
		Type:   "book",
		Fields: []string{"author", "title", "publisher", "year", "address", "edition"},
	}
	r.rules["techreport"] = Rule{
		Type:   "techreport",
		Fields: []string{"author", "title", "institution", "year", "address"},
	}

	www := Rule{
		Type:         "www",
		Fields:       []string{"author", "year", "title", "url"},
		Demote:       true,
		DemoteReason: "misc rewritten to www",
	}
	r.rules["misc"] = www
	r.rules["www"] = www

	return r
}

// Lookup returns the rule for a type tag, lower-casing the tag first.
// For article entries the journal field value decides between the full
// journal form and the short arXiv preprint form. The second return is
// false for undefined types; the registry fails closed and the caller is
// expected to classify the record as an error.
func (r *Registry) Lookup(typeTag, journal string) (Rule, bool) {
	tag := strings.ToLower(typeTag)
	rule, ok := r.rules[tag]
	if !ok {
		return Rule{}, false
	}
	if tag == "article" && strings.Contains(strings.ToLower(journal), "arxiv") {
		return r.arxiv, true
	}
	return rule, true
}

// Types returns the registered type tags in sorted order.
func (r *Registry) Types() []string {
	tags := make([]string, 0, len(r.rules))
	for tag := range r.rules {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
