// Package repl provides the interactive test file editor behind
// "tstbuild edit".
//
// The editor is a readline loop with history, Ctrl+R search and TAB
// completion of editor commands, catalog command names and the argument
// fields of the current test. It drives a session.Session and acts as its
// Presenter: values entered with "set" reach the session through
// FieldValue, validation messages are printed in color, and confirmations
// are asked as y/N questions.
package repl
