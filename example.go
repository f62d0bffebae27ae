package featurize

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Feature is one named field of an Example.
type Feature struct {
	Name  string
	Value any
}

// Example is an ordered record of features. Values are strings before
// tokenization and []int32 after; anything else is carried through as is.
type Example []Feature

// Get returns the value of the named feature.
func (e Example) Get(name string) (any, bool) {
	for _, f := range e {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the named feature's value in place, or appends it.
func (e *Example) Set(name string, value any) {
	for i := range *e {
		if (*e)[i].Name == name {
			(*e)[i].Value = value
			return
		}
	}
	*e = append(*e, Feature{Name: name, Value: value})
}

// Len returns the number of features.
func (e Example) Len() int { return len(e) }

// Keys returns feature names in order.
func (e Example) Keys() []string {
	keys := make([]string, len(e))
	for i, f := range e {
		keys[i] = f.Name
	}
	return keys
}

// MarshalJSON encodes the example as a JSON object, preserving key order.
func (e Example) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", f.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving key order. String values
// decode to string; every other value is kept as json.RawMessage.
func (e *Example) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("example must be a JSON object, got %v", tok)
	}

	out := Example{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name := tok.(string) // object keys are always strings

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("feature %q: %w", name, err)
		}

		var value any = raw
		if len(raw) > 0 && raw[0] == '"' {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("feature %q: %w", name, err)
			}
			value = s
		}
		out.Set(name, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*e = out
	return nil
}
