// Package descriptor parses the compact type descriptors used by the command
// catalog to describe command arguments and replies.
//
// A simple descriptor has the form
//
//	name[:type[size]]
//
// where type is a single character:
//
//	b  boolean
//	u  unsigned integer, size in bytes
//	i  signed integer, size in bytes
//	f  fixed-length byte/char sequence, size in bytes
//	s  variable-length string, size is a nominal maximum
//
// A struct descriptor wraps simple descriptors in braces:
//
//	{creator:u16,app:u8,key:u8,mode:i8,reserved:u8}
//
// Struct fields are bound by their own names; the struct node itself never
// carries a value. Parsing is lenient: an unparseable size becomes 0 and an
// unknown type character is kept as-is and labelled "unknown(c)".
package descriptor
