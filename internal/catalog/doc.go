// Package catalog loads the command catalog (commands.jsn) that defines every
// command a test file may invoke.
//
// The catalog file is a JSON array:
//
//	[
//	  {"command": 225, "name": "SET_HOST_PREFIX", "args": ["host_slot:u1", "prefix:s8"]},
//	  {"command": 232, "name": "GET_DIRECTORY_POSITION", "reply": ["pos:u2"]}
//	]
//
// After decoding, each definition's descriptor strings are parsed with the
// descriptor package and the list is sorted by name. Definitions are looked
// up by their lowercase name (the command key written to .tst files),
// ignoring case.
package catalog
