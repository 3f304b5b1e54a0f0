package resp

import (
	"bufio"
	"io"
	"strconv"
)

// ReadValue decodes exactly one reply from r.
//
// Grammar (first byte selects the form):
//
//	+<text>\r\n          simple string
//	:<text>\r\n          integer (kept as decimal text)
//	-<text>\r\n          server error, returned as *ServerError
//	$<len>\r\n<bytes>\r\n bulk blob, len -1 is the null bulk
//	*<len>\r\n<values>   array of <len> further replies, len -1 is the null array
//
// Arrays are decoded depth-first and may nest arbitrarily. I/O errors are
// returned unwrapped so the caller can classify them as connection loss.
func ReadValue(r *bufio.Reader) (Value, error) {
	marker, err := r.ReadByte()
	if err != nil {
		return Value{}, err
	}

	switch marker {
	case TypeSimple:
		line, err := readLine(r)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: Simple, Str: string(line)}, nil

	case TypeInteger:
		line, err := readLine(r)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: Integer, Str: string(line)}, nil

	case TypeError:
		line, err := readLine(r)
		if err != nil {
			return Value{}, err
		}
		return Value{}, &ServerError{Message: string(line)}

	case TypeBulk:
		return readBulk(r)

	case TypeArray:
		return readArray(r)
	}

	// Unknown marker: the stream position is lost. Surface the byte and what
	// is left in the buffer for diagnostics.
	buffered, _ := r.Peek(r.Buffered())
	return Value{}, &ProtocolError{Byte: marker, Buffered: buffered}
}

// ReadValues decodes exactly n top-level replies in order. A server error
// reply aborts the batch: decoding of the remaining replies is abandoned and
// the error is returned with however many values were decoded before it.
func ReadValues(r *bufio.Reader, n int) ([]Value, error) {
	values := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		v, err := ReadValue(r)
		if err != nil {
			return values, err
		}
		values = append(values, v)
	}
	return values, nil
}

func readBulk(r *bufio.Reader) (Value, error) {
	length, err := readLength(r)
	if err != nil {
		return Value{}, err
	}
	if length == -1 {
		// Null bulk carries no body and no trailing terminator.
		return Value{Type: Bulk, Null: true}, nil
	}
	if length < 0 {
		return Value{}, &ParseError{Message: "negative bulk length " + strconv.Itoa(length)}
	}

	// The body may contain arbitrary bytes including \r\n, so it is read by
	// declared length. A single read may return short; loop until full.
	body := make([]byte, length+2)
	if _, err := io.ReadFull(r, body); err != nil {
		return Value{}, err
	}
	if body[length] != '\r' || body[length+1] != '\n' {
		return Value{}, &ParseError{Message: "bulk body missing terminator"}
	}
	return Value{Type: Bulk, Blob: body[:length]}, nil
}

func readArray(r *bufio.Reader) (Value, error) {
	length, err := readLength(r)
	if err != nil {
		return Value{}, err
	}
	if length == -1 {
		return Value{Type: Array, Null: true}, nil
	}
	if length < 0 {
		return Value{}, &ParseError{Message: "negative array length " + strconv.Itoa(length)}
	}

	elems := make([]Value, 0, length)
	for i := 0; i < length; i++ {
		elem, err := ReadValue(r)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, elem)
	}
	return Value{Type: Array, Elems: elems}, nil
}

func readLength(r *bufio.Reader) (int, error) {
	line, err := readLine(r)
	if err != nil {
		return 0, err
	}
	length, err := strconv.Atoi(string(line))
	if err != nil {
		return 0, &ParseError{Message: "invalid length " + strconv.Quote(string(line)), Err: err}
	}
	return length, nil
}

// readLine reads up to the next \r\n pair, excluded. Only the exact two-byte
// sequence terminates: a \r not followed by \n is retained as data together
// with the byte after it, and a bare \n is data as well.
func readLine(r *bufio.Reader) ([]byte, error) {
	var line []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if b != '\r' {
			line = append(line, b)
			continue
		}
		next, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if next == '\n' {
			return line, nil
		}
		line = append(line, '\r', next)
	}
}
