// Package entry models a single test case of a .tst file and converts it to
// and from its JSON object form.
//
// Objects are written with a fixed property order: device, command, the
// argument fields in the order the command definition declares them,
// replyLength, expected, errorExpected, warnOnly. Argument values are kept as
// the raw strings the user typed and converted only on output, so a value
// that does not parse as its declared type is still written, as a string.
//
// On input every property outside the fixed key set becomes an argument
// value, which keeps files authored against an older catalog loadable.
package entry
