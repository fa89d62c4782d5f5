package session

import (
	"fmt"
	"path/filepath"
	"strings"

	"tstbuild/internal/catalog"
	"tstbuild/internal/entry"
	"tstbuild/internal/testfile"
	"tstbuild/internal/validation"
	"tstbuild/pkg/logging"
)

const subsystem = "Session"

const discardPrompt = "You have unsaved changes. Discard them?"

// Session is one editing session over an ordered list of test entries.
// It is not safe for concurrent use.
type Session struct {
	catalog   *catalog.Catalog
	fs        FileSystem
	presenter Presenter

	entries []*entry.TestEntry
	current int
	path    string
	dirty   bool
}

// NewSession creates an empty session. The catalog is shared read-only.
func NewSession(cat *catalog.Catalog, fs FileSystem, presenter Presenter) *Session {
	return &Session{
		catalog:   cat,
		fs:        fs,
		presenter: presenter,
		current:   -1,
	}
}

// Catalog returns the command catalog the session resolves against.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Entries returns the entries in file order. The slice is a copy; the
// entries are not.
func (s *Session) Entries() []*entry.TestEntry {
	out := make([]*entry.TestEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s *Session) Len() int { return len(s.entries) }

// CurrentIndex returns the selected index, or -1.
func (s *Session) CurrentIndex() int { return s.current }

// Current returns the selected entry, or nil.
func (s *Session) Current() *entry.TestEntry {
	if s.current < 0 || s.current >= len(s.entries) {
		return nil
	}
	return s.entries[s.current]
}

// Path returns the file the session was loaded from or last saved to.
func (s *Session) Path() string { return s.path }

// Dirty reports unsaved changes.
func (s *Session) Dirty() bool { return s.dirty }

// New discards the current list after confirming unsaved changes.
func (s *Session) New() error {
	if !s.confirmDiscard() {
		return ErrCancelled
	}
	s.entries = nil
	s.current = -1
	s.path = ""
	s.dirty = false
	logging.Debug(subsystem, "Started a new test list")
	return nil
}

// Open replaces the list with the entries of the file at path.
func (s *Session) Open(path string) error {
	if !s.confirmDiscard() {
		return ErrCancelled
	}

	data, err := s.fs.OpenFile(path)
	if err != nil {
		return err
	}
	entries, err := testfile.Parse(data, s.catalog)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}

	s.entries = entries
	s.current = -1
	if len(entries) > 0 {
		s.current = 0
	}
	s.path = path
	s.dirty = false
	logging.Info(subsystem, "Opened %s with %d tests", path, len(entries))
	return nil
}

// Add appends an empty entry and selects it.
func (s *Session) Add() *entry.TestEntry {
	s.Commit()
	e := entry.New()
	s.entries = append(s.entries, e)
	s.current = len(s.entries) - 1
	s.dirty = true
	return e
}

// Duplicate inserts a copy of the current entry right after it and selects
// the copy.
func (s *Session) Duplicate() (*entry.TestEntry, error) {
	cur := s.Current()
	if cur == nil {
		return nil, ErrNoSelection
	}
	s.Commit()

	dup, err := cur.Duplicate(s.catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to duplicate test #%d: %w", s.current+1, err)
	}

	at := s.current + 1
	s.entries = append(s.entries, nil)
	copy(s.entries[at+1:], s.entries[at:])
	s.entries[at] = dup
	s.current = at
	s.dirty = true
	return dup, nil
}

// Remove deletes the current entry. The selection stays at the same index,
// clamped to the shortened list.
func (s *Session) Remove() error {
	if s.Current() == nil {
		return ErrNoSelection
	}
	idx := s.current
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)

	s.current = -1
	if len(s.entries) > 0 {
		s.current = min(idx, len(s.entries)-1)
	}
	s.dirty = true
	return nil
}

// MoveUp swaps the current entry with its predecessor. It is a no-op on the
// first entry.
func (s *Session) MoveUp() error {
	if s.Current() == nil {
		return ErrNoSelection
	}
	idx := s.current
	if idx == 0 {
		return nil
	}
	s.Commit()
	s.entries[idx], s.entries[idx-1] = s.entries[idx-1], s.entries[idx]
	s.current = idx - 1
	s.dirty = true
	return nil
}

// MoveDown swaps the current entry with its successor. It is a no-op on the
// last entry.
func (s *Session) MoveDown() error {
	if s.Current() == nil {
		return ErrNoSelection
	}
	idx := s.current
	if idx >= len(s.entries)-1 {
		return nil
	}
	s.Commit()
	s.entries[idx], s.entries[idx+1] = s.entries[idx+1], s.entries[idx]
	s.current = idx + 1
	s.dirty = true
	return nil
}

// Select makes the entry at index i current.
func (s *Session) Select(i int) error {
	if i < 0 || i >= len(s.entries) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(s.entries))
	}
	s.Commit()
	s.current = i
	return nil
}

// SetCommand points the current entry at a new command. Argument values are
// cleared and the reply settings follow the new definition: a reply length
// equal to the reply descriptor size, or no reply at all.
func (s *Session) SetCommand(key string) (*catalog.Definition, error) {
	cur := s.Current()
	if cur == nil {
		return nil, ErrNoSelection
	}
	s.Commit()

	key = strings.TrimSpace(key)
	def := s.catalog.Find(key)
	cur.Command = key
	if def != nil {
		cur.Command = def.Key()
	}
	cur.Bind(def)
	cur.ArgValues = make(map[string]string)

	if def != nil && def.HasReply() {
		length := max(def.ParsedReply.Size, 0)
		cur.ReplyLength = &length
	} else {
		cur.ReplyLength = nil
		cur.Expected = ""
	}

	s.dirty = true
	if def == nil {
		logging.Debug(subsystem, "Command %q is not in the catalog", key)
	}
	return def, nil
}

// SetDevice sets the device prefix. Surrounding whitespace is dropped and a
// blank value clears it.
func (s *Session) SetDevice(device string) error {
	return s.mutate(func(e *entry.TestEntry) error {
		e.Device = strings.TrimSpace(device)
		return nil
	})
}

// SetWarnOnly sets or clears the warnOnly flag.
func (s *Session) SetWarnOnly(on bool) error {
	return s.mutate(func(e *entry.TestEntry) error {
		e.WarnOnly = flag(on)
		return nil
	})
}

// SetErrorExpected sets or clears the errorExpected flag.
func (s *Session) SetErrorExpected(on bool) error {
	return s.mutate(func(e *entry.TestEntry) error {
		e.ErrorExpected = flag(on)
		return nil
	})
}

// SetReply enables the reply with the given length, or disables it, which
// also clears the expected pattern.
func (s *Session) SetReply(enabled bool, length int) error {
	if enabled && length < 0 {
		return fmt.Errorf("reply length must not be negative, got %d", length)
	}
	return s.mutate(func(e *entry.TestEntry) error {
		if !enabled {
			e.ReplyLength = nil
			e.Expected = ""
			return nil
		}
		e.ReplyLength = &length
		return nil
	})
}

// SetExpected sets the expected-reply pattern. Empty clears it.
func (s *Session) SetExpected(pattern string) error {
	return s.mutate(func(e *entry.TestEntry) error {
		e.Expected = pattern
		return nil
	})
}

// SetArg records a raw value for an argument field of the current entry.
func (s *Session) SetArg(name, value string) error {
	return s.mutate(func(e *entry.TestEntry) error {
		e.SetArg(name, value)
		return nil
	})
}

// Commit pulls the pending field values of the current entry from the
// Presenter. It reports whether anything changed.
func (s *Session) Commit() bool {
	cur := s.Current()
	if cur == nil || cur.Definition() == nil || s.presenter == nil {
		return false
	}

	changed := false
	for _, field := range cur.Definition().Fields() {
		value := s.presenter.FieldValue(field.Name)
		old, ok := cur.ArgValues[field.Name]
		if (ok && old == value) || (!ok && value == "") {
			continue
		}
		cur.SetArg(field.Name, value)
		changed = true
	}
	if changed {
		s.dirty = true
	}
	return changed
}

// Validate commits pending edits and validates the whole list.
func (s *Session) Validate() *validation.Result {
	s.Commit()
	return validation.ValidateAll(s.entries)
}

// ValidateCurrent commits pending edits and validates the current entry.
func (s *Session) ValidateCurrent() (*validation.Result, error) {
	cur := s.Current()
	if cur == nil {
		return nil, ErrNoSelection
	}
	s.Commit()
	return validation.ValidateOne(cur), nil
}

// Preview returns the text Save would write.
func (s *Session) Preview() (string, error) {
	s.Commit()
	return testfile.Serialize(s.entries)
}

// Save writes the list to the session's current path.
func (s *Session) Save() error {
	if s.path == "" {
		return ErrNoPath
	}
	return s.save(s.path, false)
}

// SaveAs writes the list to a new path. The filename is checked against the
// platform rules and normalized before writing.
func (s *Session) SaveAs(path string) error {
	return s.save(path, true)
}

func (s *Session) save(path string, newPath bool) error {
	s.Commit()

	result := validation.ValidateAll(s.entries)
	if !result.Valid() {
		s.present("The following errors must be fixed before saving:\n\n"+bullets(result.Errors), SeverityError)
		return fmt.Errorf("%w: %d error(s)", ErrValidation, len(result.Errors))
	}
	if result.HasWarnings() {
		msg := "The following warnings were found:\n\n" + bullets(result.Warnings) + "\n\nDo you want to save anyway?"
		if s.presenter == nil || !s.presenter.ConfirmProceed(msg) {
			return ErrCancelled
		}
	}

	target := path
	if newPath {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		check := validation.ValidateFilename(base)
		if !check.Valid() {
			s.present("Invalid filename:\n\n"+bullets(check.Errors), SeverityError)
			return fmt.Errorf("%w: %s", ErrInvalidFilename, strings.Join(check.Errors, " "))
		}
		target = testfile.NormalizeFilename(path)
	}

	text, err := testfile.Serialize(s.entries)
	if err != nil {
		return err
	}
	if err := s.fs.SaveFile(target, text); err != nil {
		return fmt.Errorf("failed to save %s: %w", target, err)
	}

	s.path = target
	s.dirty = false
	logging.Info(subsystem, "Saved %d tests to %s", len(s.entries), target)
	s.present("Saved to: "+target, SeverityInfo)
	return nil
}

func (s *Session) mutate(apply func(e *entry.TestEntry) error) error {
	cur := s.Current()
	if cur == nil {
		return ErrNoSelection
	}
	s.Commit()
	if err := apply(cur); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

func (s *Session) confirmDiscard() bool {
	if !s.dirty {
		return true
	}
	return s.presenter != nil && s.presenter.ConfirmProceed(discardPrompt)
}

func (s *Session) present(text string, severity Severity) {
	if s.presenter != nil {
		s.presenter.SetValidationMessage(text, severity)
	}
}

func flag(on bool) *bool {
	if !on {
		return nil
	}
	return &on
}

func bullets(lines []string) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = "• " + line
	}
	return strings.Join(out, "\n")
}
