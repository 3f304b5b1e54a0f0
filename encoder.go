package redis

import (
	"fmt"
	"strconv"
)

// Encoder converts argument values to binary payloads and response blobs back
// to values. The client calls Encode for every outgoing argument and Decode
// for every blob (or blob array element) coming back. Implementations backed
// by a real serializer (JSON, msgpack, ...) are supplied by the caller; the
// client never inspects the payload bytes itself.
type Encoder interface {
	Encode(value any) ([]byte, error)
	Decode(data []byte, target any) error
}

// StringEncoder is the default Encoder: plain textual representation for
// scalars, passthrough for byte slices.
type StringEncoder struct{}

func (StringEncoder) Encode(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case bool:
		if v {
			return []byte("1"), nil
		}
		return []byte("0"), nil
	case int:
		return strconv.AppendInt(nil, int64(v), 10), nil
	case int64:
		return strconv.AppendInt(nil, v, 10), nil
	case uint64:
		return strconv.AppendUint(nil, v, 10), nil
	case float64:
		return strconv.AppendFloat(nil, v, 'f', -1, 64), nil
	}
	return []byte(fmt.Sprint(value)), nil
}

func (StringEncoder) Decode(data []byte, target any) error {
	switch t := target.(type) {
	case *[]byte:
		*t = data
		return nil
	case *string:
		*t = string(data)
		return nil
	case *bool:
		b, err := strconv.ParseBool(string(data))
		if err != nil {
			return err
		}
		*t = b
		return nil
	case *int:
		n, err := strconv.Atoi(string(data))
		if err != nil {
			return err
		}
		*t = n
		return nil
	case *int64:
		n, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return err
		}
		*t = n
		return nil
	case *float64:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return err
		}
		*t = f
		return nil
	}
	return fmt.Errorf("redis: StringEncoder cannot decode into %T", target)
}
