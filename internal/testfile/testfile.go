package testfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mailru/easyjson/jwriter"

	"tstbuild/internal/catalog"
	"tstbuild/internal/entry"
	"tstbuild/internal/validation"
	"tstbuild/pkg/logging"
)

// Extension is the fixed test file extension.
const Extension = ".tst"

var (
	// ErrNotFound is returned when a test file does not exist.
	ErrNotFound = errors.New("test file not found")
	// ErrFormat is returned when a test file is not a JSON array of entries.
	ErrFormat = errors.New("malformed test file")
)

// Serialize renders entries as an indented JSON array, one object per entry,
// in collection order.
func Serialize(entries []*entry.TestEntry) (string, error) {
	w := jwriter.Writer{NoEscapeHTML: true}
	w.RawByte('[')
	for i, e := range entries {
		if i > 0 {
			w.RawByte(',')
		}
		e.ToObject().WriteJSON(&w)
	}
	w.RawByte(']')

	compact, err := w.BuildBytes()
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return "", err
	}
	return out.String(), nil
}

// Save serializes entries and writes them to path.
func Save(path string, entries []*entry.TestEntry) error {
	text, err := Serialize(entries)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write test file %s: %w", path, err)
	}
	logging.Info("TestFile", "Saved %d tests to %s", len(entries), path)
	return nil
}

// Load reads a test file and resolves each entry against cat.
func Load(path string, cat *catalog.Catalog) ([]*entry.TestEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read test file %s: %w", path, err)
	}

	entries, err := Parse(data, cat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logging.Debug("TestFile", "Loaded %d tests from %s", len(entries), path)
	return entries, nil
}

// Parse decodes test file content. Array elements that are not objects are
// skipped.
func Parse(data []byte, cat *catalog.Catalog) ([]*entry.TestEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("%w: the .tst file must contain a JSON array at the top level", ErrFormat)
	}

	entries := []*entry.TestEntry{}
	for index := 0; dec.More(); index++ {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrFormat, index, err)
		}
		if !isObject(raw) {
			logging.Debug("TestFile", "Skipping non-object element %d", index)
			continue
		}

		var obj entry.Object
		if err := obj.UnmarshalJSON(raw); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrFormat, index, err)
		}
		e, err := entry.FromObject(obj, cat)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %w", ErrFormat, index, err)
		}
		entries = append(entries, e)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected content after the top-level array", ErrFormat)
	}
	return entries, nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// NormalizeFilename truncates the base name of path to eight characters and
// forces the .tst extension. The directory part is kept as given.
func NormalizeFilename(path string) string {
	dir, file := filepath.Split(path)
	name := strings.TrimSuffix(file, filepath.Ext(file))
	if runes := []rune(name); len(runes) > validation.MaxFilenameLength {
		name = string(runes[:validation.MaxFilenameLength])
	}
	return dir + name + Extension
}
