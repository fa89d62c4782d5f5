// Package pattern describes the expected-reply pattern language understood by
// the test harness and offers a matcher for checking sample replies.
//
// Patterns are not validated when a test file is saved; the harness is the
// authority on matching.
package pattern

import "unicode"

// Metacharacters of the expected-reply pattern language.
const (
	AnyChar      = '?'
	Digit        = '#'
	Letter       = '@'
	Alphanumeric = '%'
)

const reference = `Pattern characters for the 'Expected' field:

  ?  = any single character
  #  = a single digit (0-9)
  @  = a single alphabetic character (A-Z, a-z)
  %  = a single alphanumeric character

All other characters are treated as literals.

Example:  %%%%%%%%-%%%%-%%%%-%%%%-%%%%%%%%%%%%
matches a UUID-style string.`

// Reference returns the pattern help text.
func Reference() string {
	return reference
}

// Match reports whether reply matches pattern character for character.
// Lengths must be equal.
func Match(pattern, reply string) bool {
	p := []rune(pattern)
	r := []rune(reply)
	if len(p) != len(r) {
		return false
	}
	for i, pc := range p {
		if !matchRune(pc, r[i]) {
			return false
		}
	}
	return true
}

func matchRune(p, c rune) bool {
	switch p {
	case AnyChar:
		return true
	case Digit:
		return c >= '0' && c <= '9'
	case Letter:
		return isASCIILetter(c)
	case Alphanumeric:
		return isASCIILetter(c) || (c >= '0' && c <= '9')
	default:
		return p == c
	}
}

func isASCIILetter(c rune) bool {
	return c <= unicode.MaxASCII && unicode.IsLetter(c)
}
