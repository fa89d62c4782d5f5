// Package session implements an editing session over a .tst file.
//
// A Session owns the ordered test list, the current selection, the file
// path and the unsaved-changes flag. It talks to the outside world only
// through two collaborators:
//
//   - FileSystem reads and writes file contents (OSFileSystem for the disk)
//   - Presenter supplies typed field values, shows messages and asks the
//     user for confirmation
//
// Every mutating operation first commits pending field edits from the
// Presenter. Saving validates the whole list: errors block the save,
// warnings need confirmation.
package session
