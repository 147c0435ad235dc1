// Package validate applies schema rules to raw records, producing a
// classified outcome and a canonical rewrite for each one.
package validate

import (
	"fmt"
	"strings"

	"github.com/matsen/bibcheck/internal/record"
	"github.com/matsen/bibcheck/internal/schema"
)

// Level classifies a record's disposition.
type Level int

const (
	LevelOk Level = iota
	LevelWarning
	LevelError
)

// Outcome is the classification assigned to one record. It is a pure
// function of the record and the registry: evaluating the same record
// twice yields the same outcome.
type Outcome struct {
	Level  Level
	Detail string
}

// Prefixes used in outcome descriptions. The audit sink keys its row
// flagging off these.
const (
	ErrorMarker   = "error"
	WarningMarker = "warning"
)

func (o Outcome) String() string {
	switch o.Level {
	case LevelError:
		return ErrorMarker + ": " + o.Detail
	case LevelWarning:
		return WarningMarker + ": " + o.Detail
	default:
		return "ok"
	}
}

// Evaluator validates records against a schema registry.
type Evaluator struct {
	registry *schema.Registry
}

// NewEvaluator returns an evaluator backed by the given registry.
func NewEvaluator(reg *schema.Registry) *Evaluator {
	return &Evaluator{registry: reg}
}

// Evaluate validates one record and builds its canonical form.
//
// Missing required fields always take precedence over format constraint
// mismatches. The canonical form is built on a best-effort basis even for
// invalid records, with a placeholder substituted for each absent field;
// only records of an undefined type yield an empty canonical record.
func (e *Evaluator) Evaluate(raw record.Raw) (Outcome, record.Canonical) {
	journal, _ := raw.Field("journal")
	rule, ok := e.registry.Lookup(raw.Type, journal)
	if !ok {
		return Outcome{Level: LevelError, Detail: "undefined type"}, record.Canonical{}
	}

	canonical := record.Canonical{
		Type:   rule.Type,
		Key:    raw.Key,
		Fields: make([]record.Field, 0, len(rule.Fields)),
	}

	var missing []string
	for _, name := range rule.Fields {
		value, present := raw.Field(name)
		if !present {
			value = record.Placeholder
			missing = append(missing, name)
		}
		canonical.Fields = append(canonical.Fields, record.Field{Name: name, Value: value})
	}

	if len(missing) > 0 {
		detail := fmt.Sprintf("missing fields: %s", strings.Join(missing, ", "))
		return Outcome{Level: LevelError, Detail: detail}, canonical
	}

	if c := rule.Constraint; c != nil {
		value, _ := raw.Field(c.Field)
		if !c.Matches(value) {
			detail := fmt.Sprintf("%s format error", c.Field)
			return Outcome{Level: LevelWarning, Detail: detail}, canonical
		}
	}

	if rule.Demote {
		return Outcome{Level: LevelWarning, Detail: rule.DemoteReason}, canonical
	}

	return Outcome{}, canonical
}
