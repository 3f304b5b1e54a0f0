package redis

import (
	"errors"
	"strconv"

	"github.com/pior/redis/resp"
)

// Kind is the closed set of result shapes a caller can request. Opaque types
// outside this set go through the Encoder instead (see CoerceInto).
type Kind int

const (
	// KindValue returns the decoded wire value untouched.
	KindValue Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	// KindStrings is a sequence of textual elements.
	KindStrings
	// KindByteSlices is the raw blob array, cast element-wise.
	KindByteSlices
	// KindValues is the raw object array, returned as-is.
	KindValues
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindStrings:
		return "strings"
	case KindByteSlices:
		return "byte slices"
	case KindValues:
		return "values"
	}
	return "unknown"
}

// zero returns the placeholder value for a kind, used by loose-mode coercion
// and by pipeline stops that skip reading replies.
func (k Kind) zero() any {
	switch k {
	case KindBool:
		return false
	case KindInt:
		return int64(0)
	case KindFloat:
		return float64(0)
	case KindString:
		return ""
	case KindBytes:
		return []byte(nil)
	case KindStrings:
		return []string(nil)
	case KindByteSlices:
		return [][]byte(nil)
	case KindValues:
		return []resp.Value(nil)
	}
	return resp.Value{}
}

// Coerce maps a decoded wire value onto the requested kind.
//
// Rules, in priority order: textual values convert through their standard
// textual form, with the literal "OK" meaning true for a bool target; blobs
// are decoded by enc; arrays are returned as-is for the raw kinds, reported
// as ErrNoValue when empty with a typed element target, and otherwise
// converted element-wise with incompatible elements skipped.
func Coerce(v resp.Value, kind Kind, enc Encoder) (any, error) {
	if kind == KindValue {
		return v, nil
	}

	switch v.Type {
	case resp.Simple, resp.Integer:
		return coerceText(v.Str, kind)
	case resp.Bulk:
		return coerceBlob(v, kind, enc)
	case resp.Array:
		return coerceArray(v, kind, enc)
	}
	return nil, &ConversionError{Source: v.String(), Target: kind, Err: errors.New("unsupported value type")}
}

func coerceText(text string, kind Kind) (any, error) {
	switch kind {
	case KindBool:
		if text == statusOK {
			return true, nil
		}
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, &ConversionError{Source: text, Target: kind, Err: err}
		}
		return b, nil
	case KindInt:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, &ConversionError{Source: text, Target: kind, Err: err}
		}
		return n, nil
	case KindFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, &ConversionError{Source: text, Target: kind, Err: err}
		}
		return f, nil
	case KindString:
		return text, nil
	case KindBytes:
		return []byte(text), nil
	case KindStrings:
		return []string{text}, nil
	}
	return nil, &ConversionError{Source: text, Target: kind, Err: errors.New("textual value")}
}

func coerceBlob(v resp.Value, kind Kind, enc Encoder) (any, error) {
	if v.Null {
		return kind.zero(), nil
	}
	if kind == KindBytes {
		return v.Blob, nil
	}

	target := kind.zero()
	var err error
	switch kind {
	case KindBool:
		var out bool
		err = enc.Decode(v.Blob, &out)
		target = out
	case KindInt:
		var out int64
		err = enc.Decode(v.Blob, &out)
		target = out
	case KindFloat:
		var out float64
		err = enc.Decode(v.Blob, &out)
		target = out
	case KindString:
		var out string
		err = enc.Decode(v.Blob, &out)
		target = out
	case KindStrings:
		var out string
		err = enc.Decode(v.Blob, &out)
		target = []string{out}
	default:
		err = errors.New("blob value")
	}
	if err != nil {
		return nil, &ConversionError{Source: string(v.Blob), Target: kind, Err: err}
	}
	return target, nil
}

func coerceArray(v resp.Value, kind Kind, enc Encoder) (any, error) {
	switch kind {
	case KindValues:
		return v.Elems, nil
	case KindByteSlices:
		// Straight cast: every element contributes its binary form.
		out := make([][]byte, len(v.Elems))
		for i, elem := range v.Elems {
			out[i] = elem.Bytes()
		}
		return out, nil
	case KindStrings:
		if len(v.Elems) == 0 {
			return nil, ErrNoValue
		}
		out := make([]string, 0, len(v.Elems))
		for _, elem := range v.Elems {
			switch elem.Type {
			case resp.Bulk:
				if elem.Null {
					out = append(out, "")
					continue
				}
				var s string
				if err := enc.Decode(elem.Blob, &s); err != nil {
					continue
				}
				out = append(out, s)
			case resp.Simple, resp.Integer:
				out = append(out, elem.Str)
			default:
				// Neither decodable nor already compatible; skipped.
			}
		}
		return out, nil
	}
	if len(v.Elems) == 0 {
		return nil, ErrNoValue
	}
	return nil, &ConversionError{Source: v.String(), Target: kind, Err: errors.New("array value")}
}

// coerceLoose applies the ThrowOnError policy: strict mode propagates
// conversion failures, loose mode logs them and substitutes the kind's zero
// value. ErrNoValue always propagates since it is a result signal, not a
// conversion failure.
func (c *Client) coerceLoose(v resp.Value, kind Kind) (any, error) {
	out, err := Coerce(v, kind, c.cfg.encoder())
	if err == nil || c.cfg.ThrowOnError || errors.Is(err, ErrNoValue) {
		return out, err
	}
	c.log.WithError(err).Warn("coercion failed, substituting zero value")
	return kind.zero(), nil
}
