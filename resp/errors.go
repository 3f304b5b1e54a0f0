package resp

import (
	"fmt"
)

// Error types for wire-level failures. All of them corrupt or pre-empt the
// protocol stream in some way; the client decides what to do with the
// connection, the codec only classifies.

// ServerError is a "-message" reply. The stream itself is still well-formed,
// but the command failed server-side; when it occurs in the middle of a
// pipeline batch, decoding of the remaining replies is abandoned.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return "redis: server error: " + e.Message
}

// ProtocolError is an unrecognized leading byte on a reply. The stream
// position is lost; the connection is unusable.
type ProtocolError struct {
	Byte     byte   // offending leading byte
	Buffered []byte // remaining buffered bytes at the time of failure
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("redis: protocol violation: unexpected byte %q, buffered: % x", e.Byte, e.Buffered)
}

// ParseError is a malformed frame behind a valid type marker (bad length
// field, missing terminator). The stream position is lost.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "redis: parse error: " + e.Message + ": " + e.Err.Error()
	}
	return "redis: parse error: " + e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SizeLimitError is a request rejected pre-transmission because its
// serialized form exceeds the configured maximum. No bytes were written.
type SizeLimitError struct {
	Command string
	Size    int
	Limit   int
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("redis: request %s is %d bytes, exceeds limit of %d", e.Command, e.Size, e.Limit)
}
