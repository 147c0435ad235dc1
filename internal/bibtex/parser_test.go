package bibtex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matsen/bibcheck/internal/record"
)

func writeDB(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "refs.bib")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing database: %v", err)
	}
	return path
}

const sampleDB = `@article{vaswani2017,
title = {Attention Is All You Need},
author = {Vaswani, Ashish},
year = {2017},
journal = {arXiv preprint arXiv:1706.03762}
}

@Book{smith2020,
  Author = {Smith, John},
  title = "A Book",
  publisher = {Springer},
}
`

func TestParseFile(t *testing.T) {
	records, err := ParseFile(writeDB(t, sampleDB))
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ParseFile() returned %d records, want 2", len(records))
	}

	first := records[0]
	if first.Type != "article" || first.Key != "vaswani2017" {
		t.Errorf("first entry = %s/%s", first.Type, first.Key)
	}
	if v, ok := first.Field("journal"); !ok || v != "arXiv preprint arXiv:1706.03762" {
		t.Errorf("journal = %q, %v", v, ok)
	}
	if len(first.Names) != 4 {
		t.Errorf("first entry has %d fields, want 4: %v", len(first.Names), first.Names)
	}

	second := records[1]
	if second.Type != "Book" {
		t.Errorf("type case should be preserved, got %q", second.Type)
	}
	// Field names are looked up lower-cased, quoted values accepted
	if v, ok := second.Field("author"); !ok || v != "Smith, John" {
		t.Errorf("author = %q, %v", v, ok)
	}
	if v, ok := second.Field("title"); !ok || v != "A Book" {
		t.Errorf("title = %q, %v", v, ok)
	}
}

func TestParseFile_MissingKeySentinel(t *testing.T) {
	records, err := ParseFile(writeDB(t, "@misc{,\ntitle = {No Key}\n}\n"))
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Key != record.UnknownKey {
		t.Errorf("key = %q, want %q", records[0].Key, record.UnknownKey)
	}
}

func TestParseFile_UnterminatedEntry(t *testing.T) {
	records, err := ParseFile(writeDB(t, "@book{open2020,\ntitle = {Left Open}\n"))
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if v, _ := records[0].Field("title"); v != "Left Open" {
		t.Errorf("title = %q", v)
	}
}

func TestParseFile_Empty(t *testing.T) {
	records, err := ParseFile(writeDB(t, ""))
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("empty input should yield zero records, got %d", len(records))
	}
}

func TestParseFile_StrayTextIgnored(t *testing.T) {
	records, err := ParseFile(writeDB(t, "preamble text\n% comment\n@www{w,\nurl = {https://example.org}\n}\ntrailing\n"))
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want 1", len(records))
	}
}

func TestParseFile_Missing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "absent.bib")); err == nil {
		t.Error("ParseFile() should fail for a missing file")
	}
}
