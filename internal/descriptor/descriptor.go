package descriptor

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Tag identifies the value type of a descriptor.
type Tag rune

const (
	TagBool     Tag = 'b'
	TagUnsigned Tag = 'u'
	TagSigned   Tag = 'i'
	TagFixed    Tag = 'f'
	TagString   Tag = 's'
	TagStruct   Tag = '{'
)

// StructName is the fixed name given to every struct node.
const StructName = "struct"

// Descriptor is a parsed argument or reply descriptor.
type Descriptor struct {
	Name string
	Tag  Tag
	// Size is a byte size for numeric and fixed types, a nominal maximum for
	// strings, and 0 when unspecified.
	Size   int
	Fields []Descriptor
}

// IsStruct reports whether d is a struct node.
func (d Descriptor) IsStruct() bool {
	return d.Tag == TagStruct
}

// Label returns the display label of the descriptor type.
func (d Descriptor) Label() string {
	switch d.Tag {
	case TagBool:
		return "bool"
	case TagUnsigned:
		return fmt.Sprintf("uint%d", d.Size*8)
	case TagSigned:
		return fmt.Sprintf("int%d", d.Size*8)
	case TagFixed:
		return fmt.Sprintf("fixed[%d]", d.Size)
	case TagString:
		return fmt.Sprintf("string[%d]", d.Size)
	case TagStruct:
		return "struct"
	default:
		return fmt.Sprintf("unknown(%c)", rune(d.Tag))
	}
}

// Flatten returns the value-bearing descriptors: the struct fields for a
// struct node, otherwise d itself.
func (d Descriptor) Flatten() []Descriptor {
	if d.IsStruct() {
		return d.Fields
	}
	return []Descriptor{d}
}

// Parse parses a raw descriptor string. It never fails.
func Parse(raw string) Descriptor {
	if !strings.HasPrefix(raw, "{") {
		return parseSimple(raw)
	}

	desc := Descriptor{Name: StructName, Tag: TagStruct}

	// The body runs up to the last closing brace; anything after it
	// (e.g. a trailing ":struct") is ignored.
	inner := raw[1:]
	if end := strings.LastIndex(raw, "}"); end > 0 {
		inner = raw[1:end]
	}

	for _, piece := range strings.Split(inner, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		desc.Fields = append(desc.Fields, parseSimple(piece))
	}
	return desc
}

// ParseAll parses each raw descriptor in order.
func ParseAll(raws []string) []Descriptor {
	out := make([]Descriptor, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Parse(raw))
	}
	return out
}

func parseSimple(raw string) Descriptor {
	name, typ, found := strings.Cut(raw, ":")
	if !found {
		return Descriptor{Name: raw, Tag: TagString}
	}
	if typ == "" {
		return Descriptor{Name: name, Tag: TagString}
	}

	tag, width := utf8.DecodeRuneInString(typ)
	return Descriptor{
		Name: name,
		Tag:  Tag(tag),
		Size: parseSize(typ[width:]),
	}
}

// parseSize returns 0 for an empty, malformed or negative suffix.
func parseSize(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
