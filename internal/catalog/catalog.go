package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tstbuild/pkg/logging"
)

// DefaultFileName is the catalog file looked up next to the executable.
const DefaultFileName = "commands.jsn"

var (
	// ErrNotFound is returned when the catalog file does not exist.
	ErrNotFound = errors.New("command catalog not found")
	// ErrParse is returned when the catalog is not a well-formed list of definitions.
	ErrParse = errors.New("malformed command catalog")
)

// For mocking in tests
var osExecutable = os.Executable

// Catalog is the sorted, read-only list of known commands. It is never
// mutated after loading and is safe to share.
type Catalog struct {
	commands []*Definition
}

// DefaultPath returns the catalog path next to the running executable.
func DefaultPath() (string, error) {
	exe, err := osExecutable()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(exe), DefaultFileName), nil
}

// Load reads and parses the catalog file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read command catalog %s: %w", path, err)
	}

	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logging.Info("Catalog", "Loaded %d command definitions from %s", cat.Len(), path)
	return cat, nil
}

// Parse decodes catalog content, expands every descriptor and sorts the
// commands by name, case-insensitively and stably.
func Parse(data []byte) (*Catalog, error) {
	var defs []*Definition
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if defs == nil {
		return nil, fmt.Errorf("%w: content is null", ErrParse)
	}

	for i, def := range defs {
		if def == nil {
			return nil, fmt.Errorf("%w: entry %d is null", ErrParse, i)
		}
		def.ParseDescriptors()
	}

	return New(defs), nil
}

// New builds a catalog from already-parsed definitions.
func New(defs []*Definition) *Catalog {
	sorted := make([]*Definition, len(defs))
	copy(sorted, defs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToUpper(sorted[i].Name) < strings.ToUpper(sorted[j].Name)
	})
	return &Catalog{commands: sorted}
}

// Commands returns the definitions in presentation order.
func (c *Catalog) Commands() []*Definition {
	if c == nil {
		return nil
	}
	return c.commands
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.commands)
}

// Find resolves a command key case-insensitively. It returns nil when no
// definition matches.
func (c *Catalog) Find(key string) *Definition {
	return FindByKey(c.Commands(), key)
}

// FindByKey returns the first definition whose lookup key matches key,
// ignoring case, or nil.
func FindByKey(defs []*Definition, key string) *Definition {
	for _, def := range defs {
		if strings.EqualFold(def.Key(), key) {
			return def
		}
	}
	return nil
}
