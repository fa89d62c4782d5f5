package entry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectPreservesOrder(t *testing.T) {
	var obj Object
	require.NoError(t, json.Unmarshal([]byte(`{"z": 1, "a": "x", "m": false}`), &obj))
	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())

	data, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":"x","m":false}`, string(data))
}

func TestObjectSetReplaces(t *testing.T) {
	var obj Object
	obj.Set("a", "1")
	obj.Set("b", int64(2))
	obj.Set("a", true)

	assert.Equal(t, 2, obj.Len())
	v, ok := obj.Get("a")
	require.True(t, ok)
	assert.Equal(t, true, v)
}

func TestObjectNoHTMLEscaping(t *testing.T) {
	var obj Object
	obj.Set("expected", "<a&b>")
	data, err := obj.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"expected":"<a&b>"}`, string(data))
}

func TestObjectRejectsNonObject(t *testing.T) {
	var obj Object
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &obj))
	assert.Error(t, obj.UnmarshalJSON([]byte(`"str"`)))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "abc", Stringify("abc"))
	assert.Equal(t, "1.50", Stringify(json.Number("1.50")))
	assert.Equal(t, "false", Stringify(false))
	assert.Equal(t, `{"a":1}`, Stringify(json.RawMessage(`{"a":1}`)))
}
