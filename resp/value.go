package resp

import (
	"fmt"
	"strconv"
)

// ValueType tags the form of a decoded reply.
type ValueType int

const (
	// Simple is a "+text" reply.
	Simple ValueType = iota
	// Integer is a ":number" reply, kept in its decimal text form until coerced.
	Integer
	// Bulk is a "$len" length-prefixed blob, possibly null.
	Bulk
	// Array is a "*len" ordered sequence of values, possibly null.
	Array
)

func (t ValueType) String() string {
	switch t {
	case Simple:
		return "simple"
	case Integer:
		return "integer"
	case Bulk:
		return "bulk"
	case Array:
		return "array"
	}
	return "unknown"
}

// Value is one decoded reply. Exactly one of the payload fields is meaningful,
// selected by Type. Error replies are never represented as a Value; they are
// returned as *ServerError by the reader.
type Value struct {
	Type ValueType

	// Str holds the text of Simple and Integer replies.
	Str string

	// Blob holds the body of a Bulk reply. A null bulk ($-1) has Null set and
	// Blob nil; an empty bulk has Null unset and Blob empty.
	Blob []byte

	// Elems holds the elements of an Array reply, recursively. A null array
	// (*-1) has Null set and Elems nil.
	Elems []Value

	// Null marks a null Bulk or null Array.
	Null bool
}

// SimpleValue builds a "+text" value.
func SimpleValue(s string) Value { return Value{Type: Simple, Str: s} }

// IntegerValue builds a ":n" value.
func IntegerValue(n int64) Value {
	return Value{Type: Integer, Str: strconv.FormatInt(n, 10)}
}

// BulkValue builds a "$len" value. A nil blob is the null bulk.
func BulkValue(b []byte) Value {
	if b == nil {
		return Value{Type: Bulk, Null: true}
	}
	return Value{Type: Bulk, Blob: b}
}

// ArrayValue builds a "*len" value. A nil slice is the null array.
func ArrayValue(elems []Value) Value {
	if elems == nil {
		return Value{Type: Array, Null: true}
	}
	return Value{Type: Array, Elems: elems}
}

// IsNull reports whether the value is a null bulk or null array.
func (v Value) IsNull() bool { return v.Null }

// Text returns the textual form of the value: the literal text for Simple and
// Integer, the body bytes as string for Bulk. Arrays and nulls return "".
func (v Value) Text() string {
	switch v.Type {
	case Simple, Integer:
		return v.Str
	case Bulk:
		if v.Null {
			return ""
		}
		return string(v.Blob)
	}
	return ""
}

// Bytes returns the binary form of the value, nil for null bulks and arrays.
func (v Value) Bytes() []byte {
	switch v.Type {
	case Simple, Integer:
		return []byte(v.Str)
	case Bulk:
		return v.Blob
	}
	return nil
}

func (v Value) String() string {
	switch v.Type {
	case Simple:
		return fmt.Sprintf("simple(%q)", v.Str)
	case Integer:
		return fmt.Sprintf("integer(%s)", v.Str)
	case Bulk:
		if v.Null {
			return "bulk(null)"
		}
		return fmt.Sprintf("bulk(%q)", v.Blob)
	case Array:
		if v.Null {
			return "array(null)"
		}
		return fmt.Sprintf("array(%d)", len(v.Elems))
	}
	return "unknown"
}
