package entry

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"tstbuild/internal/catalog"
	"tstbuild/internal/descriptor"
)

// Property names of a test file object.
const (
	KeyDevice        = "device"
	KeyCommand       = "command"
	KeyReplyLength   = "replyLength"
	KeyExpected      = "expected"
	KeyWarnOnly      = "warnOnly"
	KeyErrorExpected = "errorExpected"
)

var knownKeys = []string{KeyDevice, KeyCommand, KeyReplyLength, KeyExpected, KeyWarnOnly, KeyErrorExpected}

// ErrInvalidFlag is returned when warnOnly or errorExpected cannot be read as a boolean.
var ErrInvalidFlag = errors.New("flag is not a boolean")

// TestEntry is one test case of a .tst file.
type TestEntry struct {
	// Command is the command key, free-form until resolved.
	Command string
	// Device is an optional device prefix; blank means none.
	Device        string
	WarnOnly      *bool
	ErrorExpected *bool
	ReplyLength   *int
	// Expected is the expected-reply pattern; empty means none.
	Expected string
	// ArgValues maps field names to raw user input. A missing key means the
	// value was never provided, which differs from an empty string.
	ArgValues map[string]string

	definition *catalog.Definition
}

// New returns an empty entry with no command selected.
func New() *TestEntry {
	return &TestEntry{ArgValues: make(map[string]string)}
}

// Definition returns the resolved command definition, or nil.
func (e *TestEntry) Definition() *catalog.Definition {
	return e.definition
}

// Bind attaches def without re-resolving the command key.
func (e *TestEntry) Bind(def *catalog.Definition) {
	e.definition = def
}

// Resolve looks the command key up in cat and caches the result.
func (e *TestEntry) Resolve(cat *catalog.Catalog) *catalog.Definition {
	e.definition = cat.Find(e.Command)
	return e.definition
}

// SetArg records the raw value for a field.
func (e *TestEntry) SetArg(name, value string) {
	if e.ArgValues == nil {
		e.ArgValues = make(map[string]string)
	}
	e.ArgValues[name] = value
}

// String returns a one-line summary such as "[apetime] SET_HOST_PREFIX (host_slot=3, prefix=SD)".
func (e *TestEntry) String() string {
	parts := []string{strings.ToUpper(e.Command)}
	if strings.TrimSpace(e.Device) != "" {
		parts = append([]string{"[" + e.Device + "]"}, parts...)
	}
	if len(e.ArgValues) > 0 {
		names := make([]string, 0, len(e.ArgValues))
		for name := range e.ArgValues {
			names = append(names, name)
		}
		sort.Strings(names)
		pairs := make([]string, len(names))
		for i, name := range names {
			pairs[i] = name + "=" + e.ArgValues[name]
		}
		parts = append(parts, "("+strings.Join(pairs, ", ")+")")
	}
	return strings.Join(parts, " ")
}

// ToObject builds the test file object for e. Argument fields follow the
// definition's declaration order; without a resolved definition no argument
// fields are written.
func (e *TestEntry) ToObject() Object {
	var obj Object

	if strings.TrimSpace(e.Device) != "" {
		obj.Set(KeyDevice, e.Device)
	}
	obj.Set(KeyCommand, e.Command)

	if e.definition != nil {
		for _, field := range e.definition.Fields() {
			if val, ok := e.ArgValues[field.Name]; ok {
				obj.Set(field.Name, TypedValue(val, field.Tag))
			}
		}
	}

	if e.ReplyLength != nil {
		obj.Set(KeyReplyLength, int64(*e.ReplyLength))
	}
	if e.Expected != "" {
		obj.Set(KeyExpected, e.Expected)
	}
	if e.ErrorExpected != nil {
		obj.Set(KeyErrorExpected, *e.ErrorExpected)
	}
	if e.WarnOnly != nil {
		obj.Set(KeyWarnOnly, *e.WarnOnly)
	}
	return obj
}

// TypedValue converts raw user input to the JSON value written for a field
// of the given type. Unparseable numbers and booleans fall back to the raw
// string.
func TypedValue(raw string, tag descriptor.Tag) interface{} {
	switch tag {
	case descriptor.TagBool:
		if b, ok := ParseBoolLiteral(raw); ok {
			return b
		}
		if n, ok := ParseInt(raw); ok {
			return n != 0
		}
		return raw
	case descriptor.TagUnsigned, descriptor.TagSigned:
		if n, ok := ParseInt(raw); ok {
			return n
		}
		return raw
	default:
		return raw
	}
}

// ParseBoolLiteral accepts "true" or "false" in any case, ignoring
// surrounding whitespace.
func ParseBoolLiteral(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

// ParseInt parses a base-10 64-bit integer, ignoring surrounding whitespace.
func ParseInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n, err == nil
}

// ParseUint parses a base-10 unsigned 64-bit integer, ignoring surrounding
// whitespace. A single leading '+' is accepted.
func ParseUint(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	n, err := strconv.ParseUint(s, 10, 64)
	return n, err == nil
}

// FromObject reads an entry from a test file object and resolves its
// definition in cat. Properties outside the fixed key set become argument
// values regardless of their JSON type.
func FromObject(obj Object, cat *catalog.Catalog) (*TestEntry, error) {
	e := New()

	if v, ok := obj.Get(KeyDevice); ok {
		e.Device = Stringify(v)
	}
	if v, ok := obj.Get(KeyCommand); ok {
		e.Command = Stringify(v)
	}
	e.Resolve(cat)

	if v, ok := obj.Get(KeyReplyLength); ok {
		if n, isInt := jsonInteger(v); isInt {
			e.ReplyLength = &n
		}
	}
	if v, ok := obj.Get(KeyExpected); ok {
		e.Expected = Stringify(v)
	}
	if v, ok := obj.Get(KeyWarnOnly); ok {
		b, err := coerceBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", KeyWarnOnly, err)
		}
		e.WarnOnly = &b
	}
	if v, ok := obj.Get(KeyErrorExpected); ok {
		b, err := coerceBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", KeyErrorExpected, err)
		}
		e.ErrorExpected = &b
	}

	for _, f := range obj.Fields() {
		if isKnownKey(f.Key) {
			continue
		}
		e.ArgValues[f.Key] = Stringify(f.Value)
	}
	return e, nil
}

// Duplicate returns an independent copy of e made by a round trip through
// the object form. The copy keeps e's definition even when the command key
// has no catalog match. Without a definition no arguments are written, so
// they are copied directly.
func (e *TestEntry) Duplicate(cat *catalog.Catalog) (*TestEntry, error) {
	data, err := e.ToObject().MarshalJSON()
	if err != nil {
		return nil, err
	}
	var obj Object
	if err := obj.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	dup, err := FromObject(obj, cat)
	if err != nil {
		return nil, err
	}
	if e.definition == nil {
		for k, v := range e.ArgValues {
			dup.ArgValues[k] = v
		}
	}
	dup.Bind(e.definition)
	return dup, nil
}

func isKnownKey(key string) bool {
	for _, k := range knownKeys {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

// jsonInteger accepts only integral JSON numbers that fit in an int.
func jsonInteger(v interface{}) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		if strings.ContainsAny(n.String(), ".eE") {
			return 0, false
		}
		i, err := strconv.Atoi(n.String())
		return i, err == nil
	case int64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

func coerceBool(v interface{}) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case json.Number:
		f, err := b.Float64()
		if err != nil {
			return false, fmt.Errorf("%w: %s", ErrInvalidFlag, b)
		}
		return f != 0, nil
	case string:
		if parsed, ok := ParseBoolLiteral(b); ok {
			return parsed, nil
		}
		return false, fmt.Errorf("%w: %q", ErrInvalidFlag, b)
	default:
		return false, fmt.Errorf("%w: %s", ErrInvalidFlag, Stringify(v))
	}
}
