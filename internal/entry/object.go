package entry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mailru/easyjson/jwriter"
)

// Field is one property of an Object.
type Field struct {
	Key string
	// Value is a string, int64, bool, json.Number, json.RawMessage or nil.
	Value interface{}
}

// Object is a JSON object that keeps its properties in insertion order.
// Setting an existing key replaces its value in place.
type Object struct {
	fields []Field
}

// Set adds or replaces a property.
func (o *Object) Set(key string, value interface{}) {
	for i := range o.fields {
		if o.fields[i].Key == key {
			o.fields[i].Value = value
			return
		}
	}
	o.fields = append(o.fields, Field{Key: key, Value: value})
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (interface{}, bool) {
	for _, f := range o.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the property names in order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.fields))
	for i, f := range o.fields {
		keys[i] = f.Key
	}
	return keys
}

// Fields returns the properties in order.
func (o *Object) Fields() []Field {
	return o.fields
}

// Len returns the number of properties.
func (o *Object) Len() int {
	return len(o.fields)
}

// MarshalJSON encodes the object compactly, preserving property order.
func (o Object) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{NoEscapeHTML: true}
	o.WriteJSON(&w)
	return w.BuildBytes()
}

// WriteJSON appends the compact encoding of the object to w.
func (o Object) WriteJSON(w *jwriter.Writer) {
	w.RawByte('{')
	for i, f := range o.fields {
		if i > 0 {
			w.RawByte(',')
		}
		w.String(f.Key)
		w.RawByte(':')
		writeValue(w, f.Value)
	}
	w.RawByte('}')
}

func writeValue(w *jwriter.Writer, v interface{}) {
	switch val := v.(type) {
	case nil:
		w.RawString("null")
	case string:
		w.String(val)
	case int64:
		w.Int64(val)
	case int:
		w.Int(val)
	case bool:
		w.Bool(val)
	case json.Number:
		w.RawString(val.String())
	case json.RawMessage:
		w.Raw(val, nil)
	default:
		data, err := json.Marshal(val)
		w.Raw(data, err)
	}
}

// UnmarshalJSON decodes a JSON object, preserving property order. Numbers are
// kept as json.Number; nested arrays and objects are kept as compact
// json.RawMessage.
func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected a JSON object, got %v", tok)
	}

	o.fields = nil
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected an object key, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		value, err := decodeValue(raw)
		if err != nil {
			return fmt.Errorf("property %q: %w", key, err)
		}
		o.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func decodeValue(raw json.RawMessage) (interface{}, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return nil, err
		}
		return json.RawMessage(buf.Bytes()), nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Stringify renders a property value as the text a user would have typed:
// strings verbatim, numbers with their literal text, booleans as true/false,
// null as empty, and nested values as compact JSON.
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	case json.RawMessage:
		return string(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
