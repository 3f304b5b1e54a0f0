package resp

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"
)

func newReader(data string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(data))
}

func TestReadValue(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected Value
	}{
		{
			name:     "simple string",
			data:     "+OK\r\n",
			expected: SimpleValue("OK"),
		},
		{
			name:     "empty simple string",
			data:     "+\r\n",
			expected: SimpleValue(""),
		},
		{
			name:     "integer",
			data:     ":1000\r\n",
			expected: IntegerValue(1000),
		},
		{
			name:     "negative integer",
			data:     ":-1\r\n",
			expected: IntegerValue(-1),
		},
		{
			name:     "bulk string",
			data:     "$5\r\nhello\r\n",
			expected: BulkValue([]byte("hello")),
		},
		{
			name:     "empty bulk string",
			data:     "$0\r\n\r\n",
			expected: BulkValue([]byte{}),
		},
		{
			name:     "null bulk string",
			data:     "$-1\r\n",
			expected: BulkValue(nil),
		},
		{
			name:     "bulk string with embedded crlf",
			data:     "$6\r\na\r\nb\x00c\r\n",
			expected: BulkValue([]byte("a\r\nb\x00c")),
		},
		{
			name: "array",
			data: "*2\r\n$3\r\nfoo\r\n$3\r\nbar\r\n",
			expected: ArrayValue([]Value{
				BulkValue([]byte("foo")),
				BulkValue([]byte("bar")),
			}),
		},
		{
			name:     "empty array",
			data:     "*0\r\n",
			expected: ArrayValue([]Value{}),
		},
		{
			name:     "null array",
			data:     "*-1\r\n",
			expected: ArrayValue(nil),
		},
		{
			name: "nested arrays two levels",
			data: "*2\r\n*2\r\n:1\r\n:2\r\n*3\r\n+a\r\n$-1\r\n*1\r\n:3\r\n",
			expected: ArrayValue([]Value{
				ArrayValue([]Value{IntegerValue(1), IntegerValue(2)}),
				ArrayValue([]Value{
					SimpleValue("a"),
					BulkValue(nil),
					ArrayValue([]Value{IntegerValue(3)}),
				}),
			}),
		},
		{
			name:     "lone cr retained as data",
			data:     "+a\rb\r\n",
			expected: SimpleValue("a\rb"),
		},
		{
			name:     "bare lf retained as data",
			data:     "+a\nb\r\n",
			expected: SimpleValue("a\nb"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadValue(newReader(tt.data))
			if err != nil {
				t.Fatalf("ReadValue() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ReadValue() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestReadValueRoundTrip(t *testing.T) {
	values := []Value{
		SimpleValue("PONG"),
		IntegerValue(42),
		BulkValue([]byte("payload\r\nwith\x00bytes")),
		BulkValue(nil),
		BulkValue([]byte{}),
		ArrayValue(nil),
		ArrayValue([]Value{}),
		ArrayValue([]Value{
			ArrayValue([]Value{SimpleValue("x"), IntegerValue(7)}),
			BulkValue([]byte("y")),
		}),
	}

	for _, v := range values {
		t.Run(v.String(), func(t *testing.T) {
			encoded := AppendValue(nil, v)
			got, err := ReadValue(bufio.NewReader(bytes.NewReader(encoded)))
			if err != nil {
				t.Fatalf("ReadValue() error: %v", err)
			}
			if !reflect.DeepEqual(got, v) {
				t.Errorf("round trip = %+v, want %+v", got, v)
			}
		})
	}
}

func TestReadValueServerError(t *testing.T) {
	_, err := ReadValue(newReader("-ERR unknown command 'FOO'\r\n"))

	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("ReadValue() error = %v, want *ServerError", err)
	}
	if serverErr.Message != "ERR unknown command 'FOO'" {
		t.Errorf("Message = %q", serverErr.Message)
	}
}

func TestReadValueProtocolViolation(t *testing.T) {
	_, err := ReadValue(newReader("?garbage\r\n"))

	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("ReadValue() error = %v, want *ProtocolError", err)
	}
	if protoErr.Byte != '?' {
		t.Errorf("Byte = %q, want '?'", protoErr.Byte)
	}
	if !bytes.Contains(protoErr.Buffered, []byte("garbage")) {
		t.Errorf("Buffered = %q, want remaining bytes", protoErr.Buffered)
	}
}

func TestReadValueShortReads(t *testing.T) {
	// One byte per underlying read: the bulk body fill must loop.
	data := "$10\r\n0123456789\r\n"
	r := bufio.NewReader(iotest.OneByteReader(strings.NewReader(data)))

	got, err := ReadValue(r)
	if err != nil {
		t.Fatalf("ReadValue() error: %v", err)
	}
	if string(got.Blob) != "0123456789" {
		t.Errorf("Blob = %q", got.Blob)
	}
}

func TestReadValuePrematureEOF(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"truncated bulk body", "$10\r\n0123"},
		{"missing line terminator", "+OK"},
		{"truncated array", "*2\r\n:1\r\n"},
		{"empty stream", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadValue(newReader(tt.data))
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Errorf("ReadValue() error = %v, want EOF", err)
			}
		})
	}
}

func TestReadValueMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad bulk length", "$abc\r\n"},
		{"negative bulk length", "$-2\r\n"},
		{"bad array length", "*x\r\n"},
		{"bulk missing terminator", "$3\r\nfooXY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadValue(newReader(tt.data))
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("ReadValue() error = %v, want *ParseError", err)
			}
		})
	}
}

func TestReadValues(t *testing.T) {
	data := "+OK\r\n:2\r\n$1\r\nx\r\n"
	values, err := ReadValues(newReader(data), 3)
	if err != nil {
		t.Fatalf("ReadValues() error: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("len = %d, want 3", len(values))
	}
	if values[0].Str != "OK" || values[1].Str != "2" || string(values[2].Blob) != "x" {
		t.Errorf("values = %+v", values)
	}
}

func TestReadValuesAbandonsOnServerError(t *testing.T) {
	data := "+OK\r\n-ERR boom\r\n+NEVER\r\n"
	values, err := ReadValues(newReader(data), 3)

	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("ReadValues() error = %v, want *ServerError", err)
	}
	if len(values) != 1 {
		t.Errorf("decoded %d values before the error, want 1", len(values))
	}
}

func TestRequestEncodeReferenceDecode(t *testing.T) {
	// A request frame is itself a RESP array of bulk strings, so decoding
	// what WriteCommand produced must give back the name and argument bytes.
	commands := []struct {
		name string
		args [][]byte
	}{
		{"PING", nil},
		{"GET", [][]byte{[]byte("k")}},
		{"SET", [][]byte{[]byte("k"), []byte("v")}},
		{"SETEX", [][]byte{[]byte("k"), []byte("60"), []byte("v")}},
		{"HSET", [][]byte{[]byte("h"), []byte("f1"), []byte("v1"), []byte("f2")}},
		{"ZADD", [][]byte{[]byte("z"), []byte("1"), []byte("a"), []byte("2"), []byte("b")}},
	}

	for _, cmd := range commands {
		t.Run(cmd.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteCommand(&buf, 0, cmd.name, cmd.args...); err != nil {
				t.Fatalf("WriteCommand() error: %v", err)
			}

			decoded, err := ReadValue(bufio.NewReader(&buf))
			if err != nil {
				t.Fatalf("ReadValue() error: %v", err)
			}
			if decoded.Type != Array || len(decoded.Elems) != len(cmd.args)+1 {
				t.Fatalf("decoded = %+v", decoded)
			}
			if string(decoded.Elems[0].Blob) != cmd.name {
				t.Errorf("name = %q, want %q", decoded.Elems[0].Blob, cmd.name)
			}
			for i, arg := range cmd.args {
				if !bytes.Equal(decoded.Elems[i+1].Blob, arg) {
					t.Errorf("arg %d = %q, want %q", i, decoded.Elems[i+1].Blob, arg)
				}
			}
		})
	}
}
