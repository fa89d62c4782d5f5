// Package validation checks test entries against their command definitions
// before a test file is written.
//
// Errors block saving; warnings are advisory and the caller decides whether
// to ask the user before continuing. Nothing here returns a Go error: every
// finding is a message in a Result.
package validation
