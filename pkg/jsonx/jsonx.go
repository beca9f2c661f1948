// Package jsonx provides an order-preserving JSON value tree.
// Dialogue files are rewritten by the tools in this repository, so object keys
// must come back out in the order they were read and numbers must keep their
// original literal form.
package jsonx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Object is a JSON object that remembers the insertion order of its keys.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an empty ordered object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Len returns the number of keys in the object.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns a copy of the keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Set stores value under key. A new key is appended to the end,
// an existing key keeps its position.
func (o *Object) Set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// GetObject returns the value under key when it is an object.
func (o *Object) GetObject(key string) (*Object, bool) {
	v, ok := o.values[key]
	if !ok {
		return nil, false
	}
	obj, ok := v.(*Object)
	return obj, ok
}

// GetArray returns the value under key when it is an array.
func (o *Object) GetArray(key string) ([]any, bool) {
	v, ok := o.values[key]
	if !ok {
		return nil, false
	}
	arr, ok := v.([]any)
	return arr, ok
}

// GetString returns the value under key when it is a string.
func (o *Object) GetString(key string) (string, bool) {
	v, ok := o.values[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Decode reads exactly one JSON value from reader.
// Objects decode to *Object, arrays to []any, numbers to json.Number.
func Decode(reader io.Reader) (any, error) {
	dec := json.NewDecoder(reader)
	dec.UseNumber()

	value, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	// Anything but EOF after the top-level value is trailing garbage
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, fmt.Errorf("invalid JSON: unexpected data after top-level value at offset %d", dec.InputOffset())
		}
		return nil, err
	}

	return value, nil
}

// Unmarshal decodes data into an ordered value tree.
func Unmarshal(data []byte) (any, error) {
	return Decode(bytes.NewReader(data))
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("invalid JSON: unexpected delimiter %q at offset %d", t, dec.InputOffset())
		}
	default:
		// string, json.Number, bool or nil
		return t, nil
	}
}

func decodeObject(dec *json.Decoder) (*Object, error) {
	obj := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("invalid JSON: object key is %T at offset %d", tok, dec.InputOffset())
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, value)
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	arr := make([]any, 0)
	for dec.More() {
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)
	}
	// closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

// MarshalIndent renders value as pretty-printed JSON using indent spaces per
// level. Non-ASCII characters and HTML-sensitive characters are written
// literally and there is no trailing newline.
func MarshalIndent(value any, indent int) ([]byte, error) {
	var buf bytes.Buffer
	enc := &encoder{buf: &buf, indent: strings.Repeat(" ", indent)}
	if err := enc.encode(value, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes value to writer as MarshalIndent does.
func Encode(writer io.Writer, value any, indent int) error {
	data, err := MarshalIndent(value, indent)
	if err != nil {
		return err
	}
	_, err = writer.Write(data)
	return err
}

type encoder struct {
	buf    *bytes.Buffer
	indent string
}

func (e *encoder) newline(depth int) {
	e.buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		e.buf.WriteString(e.indent)
	}
}

func (e *encoder) encode(value any, depth int) error {
	switch v := value.(type) {
	case *Object:
		return e.encodeObject(v, depth)
	case []any:
		return e.encodeArray(v, depth)
	case string:
		return e.encodeString(v)
	case json.Number:
		e.buf.WriteString(v.String())
		return nil
	case nil:
		e.buf.WriteString("null")
		return nil
	case bool:
		if v {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
		return nil
	default:
		// plain Go values (ints, floats, maps built by callers)
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode %T: %w", v, err)
		}
		e.buf.Write(data)
		return nil
	}
}

func (e *encoder) encodeObject(obj *Object, depth int) error {
	if obj == nil {
		e.buf.WriteString("null")
		return nil
	}
	if obj.Len() == 0 {
		e.buf.WriteString("{}")
		return nil
	}
	e.buf.WriteByte('{')
	for i, key := range obj.keys {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline(depth + 1)
		if err := e.encodeString(key); err != nil {
			return err
		}
		e.buf.WriteString(": ")
		if err := e.encode(obj.values[key], depth+1); err != nil {
			return err
		}
	}
	e.newline(depth)
	e.buf.WriteByte('}')
	return nil
}

func (e *encoder) encodeArray(arr []any, depth int) error {
	if len(arr) == 0 {
		e.buf.WriteString("[]")
		return nil
	}
	e.buf.WriteByte('[')
	for i, item := range arr {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline(depth + 1)
		if err := e.encode(item, depth+1); err != nil {
			return err
		}
	}
	e.newline(depth)
	e.buf.WriteByte(']')
	return nil
}

func (e *encoder) encodeString(s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	e.buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
