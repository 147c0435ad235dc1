// Package record defines the core domain types for bibliographic records.
package record

import (
	"fmt"
	"strings"
)

// UnknownKey is the citation key assigned to entries parsed without one.
const UnknownKey = "unknown"

// Placeholder is rendered for required fields absent from the source entry.
// Downstream audit review depends on seeing a fixed-shape record even for
// rejected entries, so missing fields are never omitted.
const Placeholder = "null"

// Raw is one bibliographic entry as parsed from the source database.
// It is immutable after parse.
type Raw struct {
	// Type is the entry kind as written in the source (case preserved).
	Type string
	// Key is the citation key, or UnknownKey if the entry had none.
	Key string
	// Names holds field names in source order, for faithful re-rendering.
	Names []string
	// Fields maps lower-cased field names to their values.
	Fields map[string]string
}

// Field returns the value for a field name (case-insensitive) and whether
// the field is present with a non-empty value.
func (r Raw) Field(name string) (string, bool) {
	v, ok := r.Fields[strings.ToLower(name)]
	return v, ok && v != ""
}

// Render reproduces the entry in its source field order.
func (r Raw) Render() string {
	fields := make([]Field, 0, len(r.Names))
	for _, name := range r.Names {
		fields = append(fields, Field{Name: name, Value: r.Fields[strings.ToLower(name)]})
	}
	return render(r.Type, r.Key, fields)
}

// Field is one (name, value) pair of a canonical record.
type Field struct {
	Name  string
	Value string
}

// Canonical is the normalized form of a record: schema-ordered fields with
// Placeholder substituted for anything the source entry lacked. The type
// tag may differ from the raw entry's (misc entries are rewritten to www).
type Canonical struct {
	Type   string
	Key    string
	Fields []Field
}

// Empty reports whether the record carries no canonical form, which is the
// case for entries of an undefined type.
func (c Canonical) Empty() bool {
	return c.Type == ""
}

// Render produces the canonical textual form: a type header line followed
// by one line per field in schema order.
func (c Canonical) Render() string {
	if c.Empty() {
		return ""
	}
	return render(c.Type, c.Key, c.Fields)
}

func render(entryType, key string, fields []Field) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, key))
	for i, f := range fields {
		b.WriteString(fmt.Sprintf("%s = {%s}", f.Name, f.Value))
		if i < len(fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}
