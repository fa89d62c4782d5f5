// Package cli renders tstbuild command results for the terminal.
//
// A Renderer writes catalogs, command definitions, parsed descriptors and
// validation reports in one of three formats: go-pretty tables (the
// default), indented JSON, or YAML. The structured formats use the exported
// view types so scripts get stable field names.
package cli
