// Package mcpserver serves tstbuild's catalog and test file tooling over
// the Model Context Protocol.
//
// "tstbuild mcp" starts a stdio server so an assistant can inspect the
// command catalog and check or reformat test files without touching the
// disk:
//
//   - catalog_list, command_describe: catalog contents
//   - descriptor_parse: the descriptor grammar
//   - testfile_validate, testfile_format: validation and canonical output
//   - filename_normalize: the 8-character filename rules
//
// All results are JSON text, except testfile_format which returns the test
// file itself. Problems with the input are tool errors, never protocol errors.
package mcpserver
