// Package testfile reads and writes .tst files: indented JSON arrays with one
// object per test entry, in execution order.
//
// Test files are consumed by a harness on a platform with 8.3 filenames, so
// NormalizeFilename cuts the base name to eight characters and always applies
// the .tst extension.
package testfile
