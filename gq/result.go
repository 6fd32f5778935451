package gq

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Value is a node of the result tree: nil, string, []string (class lists),
// []Value (node list fan-out) or *Object.
type Value any

// Object is a JSON object that keeps its keys in insertion order, i.e.
// field declaration order of the query.
type Object struct {
	keys   []string
	values map[string]Value
}

func NewObject() *Object {
	return &Object{values: map[string]Value{}}
}

func (o *Object) Set(key string, v Value) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *Object) Keys() []string { return o.keys }

func (o *Object) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	err := appendJSON(buf, o)
	return buf.Bytes(), err
}

// Render serializes the result tree as a single compact JSON value. Object
// keys keep declaration order, arrays keep element order, nil renders as
// null.
func Render(v Value) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := appendJSON(buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func appendJSON(buf *bytes.Buffer, v Value) error {
	switch v := v.(type) {
	case nil:
		buf.WriteString("null")
	case string:
		return appendString(buf, v)
	case []string:
		buf.WriteByte('[')
		for i, s := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendString(buf, s); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case []Value:
		buf.WriteByte('[')
		for i, v := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendJSON(buf, v); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Object:
		if v == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := appendJSON(buf, v.values[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot render %T as JSON", v)
	}
	return nil
}

// appendString escapes via encoding/json but without the html escaping of
// json.Marshal, so markup returned by html() stays readable.
func appendString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1) // Encode appends a newline
	return nil
}
