package record

import (
	"strings"
	"testing"
)

func TestRawField(t *testing.T) {
	raw := Raw{
		Type: "Book",
		Key:  "smith2020",
		Fields: map[string]string{
			"author": "Smith, John",
			"title":  "A Title",
			"blank":  "",
		},
	}

	if v, ok := raw.Field("author"); !ok || v != "Smith, John" {
		t.Errorf("Field(author) = %q, %v; want Smith, John, true", v, ok)
	}

	// Lookup is case-insensitive
	if v, ok := raw.Field("Author"); !ok || v != "Smith, John" {
		t.Errorf("Field(Author) = %q, %v; want Smith, John, true", v, ok)
	}

	// Empty values count as absent
	if _, ok := raw.Field("blank"); ok {
		t.Error("Field(blank) should report empty value as absent")
	}

	if _, ok := raw.Field("publisher"); ok {
		t.Error("Field(publisher) should report missing field as absent")
	}
}

func TestRawRender_SourceOrder(t *testing.T) {
	raw := Raw{
		Type:  "article",
		Key:   "doe2021",
		Names: []string{"year", "title", "author"},
		Fields: map[string]string{
			"year":   "2021",
			"title":  "Some Title",
			"author": "Doe, Jane",
		},
	}

	got := raw.Render()
	want := "@article{doe2021,\nyear = {2021},\ntitle = {Some Title},\nauthor = {Doe, Jane}\n}"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestCanonicalRender(t *testing.T) {
	c := Canonical{
		Type: "www",
		Key:  "site2020",
		Fields: []Field{
			{Name: "author", Value: "Smith, John"},
			{Name: "year", Value: "2020"},
			{Name: "title", Value: "A Page"},
			{Name: "url", Value: Placeholder},
		},
	}

	got := c.Render()

	if !strings.HasPrefix(got, "@www{site2020,\n") {
		t.Errorf("Render() should start with type header, got:\n%s", got)
	}
	if !strings.Contains(got, "url = {null}") {
		t.Errorf("Render() should render placeholder for missing field, got:\n%s", got)
	}

	// Last field line carries no trailing comma
	if strings.Contains(got, "{null},") {
		t.Errorf("Render() should not put a separator after the last field, got:\n%s", got)
	}

	// One line per field plus header and closing brace
	lines := strings.Split(got, "\n")
	if len(lines) != len(c.Fields)+2 {
		t.Errorf("Render() produced %d lines, want %d", len(lines), len(c.Fields)+2)
	}
}

func TestCanonicalEmpty(t *testing.T) {
	var c Canonical
	if !c.Empty() {
		t.Error("zero Canonical should be empty")
	}
	if c.Render() != "" {
		t.Errorf("empty Canonical should render to nothing, got %q", c.Render())
	}

	c.Type = "book"
	if c.Empty() {
		t.Error("Canonical with a type should not be empty")
	}
}
