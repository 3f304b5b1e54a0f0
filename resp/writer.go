package resp

import (
	"bytes"
	"io"
	"strconv"
	"sync"
)

// Buffer pool for request assembly.
var bufferPool = sync.Pool{
	New: func() any {
		// Typical request is well under 256 bytes.
		return bytes.NewBuffer(make([]byte, 0, 256))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	buf.Reset()
	bufferPool.Put(buf)
}

// AppendCommand appends the wire frame for one command to buf and returns the
// extended slice. Frame layout: an array header for argc+1 elements, then the
// command name and every argument as a bulk-string frame:
//
//	*<argc+1>\r\n$<len>\r\n<name>\r\n($<len>\r\n<arg>\r\n)*
//
// The name-plus-header preamble for small argument counts comes from the
// shared header cache; the bytes are identical either way.
func AppendCommand(buf []byte, name string, args ...[]byte) []byte {
	buf = append(buf, commandHeader(name, len(args))...)
	for _, arg := range args {
		buf = appendBulk(buf, arg)
	}
	return buf
}

// CommandSize returns the exact serialized size of a command frame without
// assembling it.
func CommandSize(name string, args ...[]byte) int {
	size := headerSize(name, len(args))
	for _, arg := range args {
		size += bulkSize(len(arg))
	}
	return size
}

// WriteCommand assembles one command frame and writes it to w in a single
// write. If maxSize is positive and the frame exceeds it, the command is
// rejected with *SizeLimitError before any byte reaches w.
func WriteCommand(w io.Writer, maxSize int, name string, args ...[]byte) error {
	if maxSize > 0 {
		if size := CommandSize(name, args...); size > maxSize {
			return &SizeLimitError{Command: name, Size: size, Limit: maxSize}
		}
	}

	buf := getBuffer()
	defer putBuffer(buf)

	buf.Write(commandHeader(name, len(args)))
	for _, arg := range args {
		buf.WriteByte(TypeBulk)
		buf.WriteString(strconv.Itoa(len(arg)))
		buf.WriteString(CRLF)
		buf.Write(arg)
		buf.WriteString(CRLF)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// AppendValue appends the wire form of a reply value to buf. The inverse of
// ReadValue; used by tests and server doubles.
func AppendValue(buf []byte, v Value) []byte {
	switch v.Type {
	case Simple:
		buf = append(buf, TypeSimple)
		buf = append(buf, v.Str...)
		return append(buf, CRLF...)
	case Integer:
		buf = append(buf, TypeInteger)
		buf = append(buf, v.Str...)
		return append(buf, CRLF...)
	case Bulk:
		if v.Null {
			return append(buf, "$-1\r\n"...)
		}
		return appendBulk(buf, v.Blob)
	case Array:
		if v.Null {
			return append(buf, "*-1\r\n"...)
		}
		buf = append(buf, TypeArray)
		buf = strconv.AppendInt(buf, int64(len(v.Elems)), 10)
		buf = append(buf, CRLF...)
		for _, elem := range v.Elems {
			buf = AppendValue(buf, elem)
		}
		return buf
	}
	return buf
}

func appendBulk(buf, payload []byte) []byte {
	buf = append(buf, TypeBulk)
	buf = strconv.AppendInt(buf, int64(len(payload)), 10)
	buf = append(buf, CRLF...)
	buf = append(buf, payload...)
	buf = append(buf, CRLF...)
	return buf
}

func bulkSize(payloadLen int) int {
	return 1 + digits(payloadLen) + 2 + payloadLen + 2
}

func headerSize(name string, argc int) int {
	return 1 + digits(argc+1) + 2 + bulkSize(len(name))
}

func digits(n int) int {
	if n == 0 {
		return 1
	}
	count := 0
	for n > 0 {
		n /= 10
		count++
	}
	return count
}
