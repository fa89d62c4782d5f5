package catalog

import (
	"fmt"
	"strings"

	"tstbuild/internal/descriptor"
)

// Definition is one command from the catalog file.
type Definition struct {
	ID    int      `json:"command"`
	Name  string   `json:"name"`
	Args  []string `json:"args,omitempty"`
	Reply []string `json:"reply,omitempty"`

	// Parsed forms, filled once at load time.
	ParsedArgs  []descriptor.Descriptor `json:"-"`
	ParsedReply *descriptor.Descriptor  `json:"-"`
}

// DisplayName returns the human-readable label, e.g. "SET_HOST_PREFIX (225)".
func (d *Definition) DisplayName() string {
	return fmt.Sprintf("%s (%d)", d.Name, d.ID)
}

// Key returns the lookup key written to test files: the lowercase name.
func (d *Definition) Key() string {
	return strings.ToLower(d.Name)
}

// HasReply reports whether the command declares a reply.
func (d *Definition) HasReply() bool {
	return d.ParsedReply != nil
}

// Fields returns the value-bearing argument descriptors in declaration
// order, with struct arguments flattened into their fields.
func (d *Definition) Fields() []descriptor.Descriptor {
	var fields []descriptor.Descriptor
	for _, arg := range d.ParsedArgs {
		fields = append(fields, arg.Flatten()...)
	}
	return fields
}

// ParseDescriptors expands the raw descriptor strings. Only the first reply
// descriptor is honoured.
func (d *Definition) ParseDescriptors() {
	d.ParsedArgs = descriptor.ParseAll(d.Args)
	d.ParsedReply = nil
	if len(d.Reply) > 0 {
		reply := descriptor.Parse(d.Reply[0])
		d.ParsedReply = &reply
	}
}
