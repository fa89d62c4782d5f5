package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"tstbuild/internal/descriptor"
	"tstbuild/internal/entry"
)

// MaxFilenameLength is the legacy limit on a test file's base name.
const MaxFilenameLength = 8

// invalidFilenameChars are rejected in test file names, on top of control characters.
const invalidFilenameChars = "\"<>|:*?\\/"

// Result collects blocking errors and advisory warnings.
type Result struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Valid reports whether there are no errors.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings reports whether any warnings were produced.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

func (r *Result) errorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidateAll checks every entry in order. An empty list is an error.
func ValidateAll(entries []*entry.TestEntry) *Result {
	result := &Result{}
	for i, e := range entries {
		validateEntry(e, fmt.Sprintf("Test #%d (%s)", i+1, e.Command), result)
	}
	if len(entries) == 0 {
		result.errorf("The test list is empty. Add at least one test before saving.")
	}
	return result
}

// ValidateOne checks a single entry.
func ValidateOne(e *entry.TestEntry) *Result {
	result := &Result{}
	validateEntry(e, "This test", result)
	return result
}

func validateEntry(e *entry.TestEntry, prefix string, result *Result) {
	if strings.TrimSpace(e.Command) == "" {
		result.errorf("%s: Command must be selected.", prefix)
		return
	}

	def := e.Definition()
	if def == nil {
		result.warnf("%s: No matching definition found for command '%s'. It will be written as-is.", prefix, e.Command)
		return
	}

	for _, arg := range def.ParsedArgs {
		if arg.IsStruct() {
			for _, field := range arg.Fields {
				validateArgValue(e, field, fmt.Sprintf("%s, field '%s'", prefix, field.Name), result)
			}
			continue
		}
		validateArgValue(e, arg, fmt.Sprintf("%s, arg '%s'", prefix, arg.Name), result)
	}

	if def.HasReply() && e.ReplyLength == nil {
		result.warnf("%s: Command '%s' has a reply but replyLength is not set.", prefix, e.Command)
	}
	if e.ReplyLength != nil && !def.HasReply() {
		result.warnf("%s: replyLength is set but this command has no defined reply.", prefix)
	}

	// The expected pattern is accepted as typed; its metacharacters are
	// interpreted by the harness, not checked here.
}

func validateArgValue(e *entry.TestEntry, arg descriptor.Descriptor, prefix string, result *Result) {
	val, ok := e.ArgValues[arg.Name]
	if !ok || strings.TrimSpace(val) == "" {
		result.errorf("%s: Value is required.", prefix)
		return
	}

	switch arg.Tag {
	case descriptor.TagBool:
		if _, isBool := entry.ParseBoolLiteral(val); !isBool && val != "0" && val != "1" {
			result.errorf("%s: Expected a boolean value (true/false/0/1), got '%s'.", prefix, val)
		}
	case descriptor.TagUnsigned:
		if _, isUint := entry.ParseUint(val); !isUint {
			result.errorf("%s: Expected an unsigned integer, got '%s'.", prefix, val)
		}
	case descriptor.TagSigned:
		if _, isInt := entry.ParseInt(val); !isInt {
			result.errorf("%s: Expected a signed integer, got '%s'.", prefix, val)
		}
	case descriptor.TagFixed:
		if n := utf8.RuneCountInString(val); arg.Size > 0 && n > arg.Size {
			result.warnf("%s: Value length %d exceeds defined max of %d.", prefix, n, arg.Size)
		}
	case descriptor.TagString:
		if arg.Size > 0 && utf8.RuneCountInString(val) > arg.Size*4 {
			result.warnf("%s: Value seems unusually long for a variable-length field.", prefix)
		}
	}
}

// ValidateFilename checks a proposed test file base name (without extension).
func ValidateFilename(name string) *Result {
	result := &Result{}

	if strings.TrimSpace(name) == "" {
		result.errorf("Filename cannot be empty.")
		return result
	}

	if n := utf8.RuneCountInString(name); n > MaxFilenameLength {
		result.errorf("Filename '%s' is %d characters long. Maximum is %d.", name, n, MaxFilenameLength)
	}

	for _, c := range name {
		if c < 0x20 || strings.ContainsRune(invalidFilenameChars, c) {
			result.errorf("Filename contains invalid character: '%c'", c)
			break
		}
	}
	return result
}
