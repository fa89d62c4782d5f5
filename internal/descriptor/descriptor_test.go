package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimple(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Descriptor
	}{
		{"unsigned", "host_slot:u8", Descriptor{Name: "host_slot", Tag: TagUnsigned, Size: 8}},
		{"signed", "offset:i2", Descriptor{Name: "offset", Tag: TagSigned, Size: 2}},
		{"bool", "enabled:b", Descriptor{Name: "enabled", Tag: TagBool}},
		{"fixed", "mac:f6", Descriptor{Name: "mac", Tag: TagFixed, Size: 6}},
		{"string", "prefix:s8", Descriptor{Name: "prefix", Tag: TagString, Size: 8}},
		{"no colon", "filename", Descriptor{Name: "filename", Tag: TagString}},
		{"empty type", "filename:", Descriptor{Name: "filename", Tag: TagString}},
		{"malformed size", "count:uxx", Descriptor{Name: "count", Tag: TagUnsigned}},
		{"negative size", "count:u-4", Descriptor{Name: "count", Tag: TagUnsigned}},
		{"unknown tag", "blob:z4", Descriptor{Name: "blob", Tag: Tag('z'), Size: 4}},
		{"multi-digit size", "data:s256", Descriptor{Name: "data", Tag: TagString, Size: 256}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw))
		})
	}
}

func TestParseStruct(t *testing.T) {
	raw := "{creator:u2, app:u1,key:u1 ,mode:i1,reserved:u1}"
	got := Parse(raw)

	require.True(t, got.IsStruct())
	assert.Equal(t, StructName, got.Name)
	assert.Equal(t, 0, got.Size)

	pieces := []string{"creator:u2", "app:u1", "key:u1", "mode:i1", "reserved:u1"}
	require.Len(t, got.Fields, len(pieces))
	for i, piece := range pieces {
		assert.Equal(t, Parse(piece), got.Fields[i], "field %d", i)
	}
}

func TestParseStructEdgeCases(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		got := Parse("{}")
		assert.True(t, got.IsStruct())
		assert.Empty(t, got.Fields)
	})

	t.Run("trailing suffix after last brace", func(t *testing.T) {
		got := Parse("{a:u1,b:s4}:struct")
		require.Len(t, got.Fields, 2)
		assert.Equal(t, "b", got.Fields[1].Name)
		assert.Equal(t, 4, got.Fields[1].Size)
	})

	t.Run("missing closing brace", func(t *testing.T) {
		got := Parse("{a:u1")
		require.Len(t, got.Fields, 1)
		assert.Equal(t, Descriptor{Name: "a", Tag: TagUnsigned, Size: 1}, got.Fields[0])
	})

	t.Run("empty pieces skipped", func(t *testing.T) {
		got := Parse("{a:u1,,b:b}")
		assert.Len(t, got.Fields, 2)
	})
}

func TestLabel(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"x:b", "bool"},
		{"x:u2", "uint16"},
		{"x:i4", "int32"},
		{"x:f6", "fixed[6]"},
		{"x:s32", "string[32]"},
		{"x", "string[0]"},
		{"{a:u1}", "struct"},
		{"x:q1", "unknown(q)"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw).Label())
		})
	}
}

func TestFlatten(t *testing.T) {
	simple := Parse("slot:u1")
	assert.Equal(t, []Descriptor{simple}, simple.Flatten())

	st := Parse("{a:u1,b:s4}")
	flat := st.Flatten()
	require.Len(t, flat, 2)
	assert.Equal(t, "a", flat[0].Name)
	assert.Equal(t, "b", flat[1].Name)
}
