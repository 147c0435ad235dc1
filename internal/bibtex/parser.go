// Package bibtex parses BibTeX databases into raw records. The parser is
// deliberately tolerant: it understands the common entry shape
// (@type{key, field = {value}, ...) line by line and leaves validation of
// the parsed content entirely to callers.
package bibtex

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/matsen/bibcheck/internal/record"
)

// MaxLineCapacity is the scanner buffer size (1MB per line), matching what
// very long abstract or url fields need in practice.
const MaxLineCapacity = 1024 * 1024

var (
	// Match entry start: @type{key, — the key may be absent.
	entryStartRegex = regexp.MustCompile(`^\s*@([A-Za-z]+)\s*\{\s*([^,\s}]*)\s*,?\s*$`)
	// Match a field line: name = {value} or name = "value", with an
	// optional trailing comma.
	fieldRegex = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z0-9_-]*)\s*=\s*[{"](.*?)[}"]\s*,?\s*$`)
)

// ParseFile reads a BibTeX database from disk.
func ParseFile(path string) ([]record.Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	buf := make([]byte, MaxLineCapacity)
	scanner.Buffer(buf, MaxLineCapacity)

	var records []record.Raw
	var current *record.Raw

	for scanner.Scan() {
		line := scanner.Text()

		if m := entryStartRegex.FindStringSubmatch(line); m != nil {
			if current != nil {
				records = append(records, *current)
			}
			key := strings.TrimSpace(m[2])
			if key == "" {
				key = record.UnknownKey
			}
			current = &record.Raw{
				Type:   m[1],
				Key:    key,
				Fields: make(map[string]string),
			}
			continue
		}

		if current == nil {
			continue // Preamble, comments, stray text between entries
		}

		if m := fieldRegex.FindStringSubmatch(line); m != nil {
			name := m[1]
			lower := strings.ToLower(name)
			if _, seen := current.Fields[lower]; !seen {
				current.Names = append(current.Names, name)
			}
			current.Fields[lower] = m[2]
			continue
		}

		if strings.TrimSpace(line) == "}" {
			records = append(records, *current)
			current = nil
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading database: %w", err)
	}

	// An unterminated final entry still counts; the validator decides
	// whether its content holds up.
	if current != nil {
		records = append(records, *current)
	}

	return records, nil
}
