package redis

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoValue reports an empty-array reply where the caller asked for a typed
// element sequence. It lets callers tell an empty result apart from an absent
// one.
var ErrNoValue = errors.New("redis: no value")

// ConnectTimeoutError is a connect attempt that did not complete within the
// effective timeout. The half-built connection was discarded.
type ConnectTimeoutError struct {
	Addr    string
	Timeout time.Duration
	Err     error
}

func (e *ConnectTimeoutError) Error() string {
	return fmt.Sprintf("redis: connect to %s timed out after %s", e.Addr, e.Timeout)
}

func (e *ConnectTimeoutError) Unwrap() error { return e.Err }

// ConnectionLostError is a socket that became unusable mid-operation: closed
// by the peer, reset, or hit a read/write deadline. The connection was
// discarded; the next call dials fresh.
type ConnectionLostError struct {
	Addr string
	Op   string
	Err  error
}

func (e *ConnectionLostError) Error() string {
	return fmt.Sprintf("redis: connection to %s lost during %s: %v", e.Addr, e.Op, e.Err)
}

func (e *ConnectionLostError) Unwrap() error { return e.Err }

// AuthError is a handshake AUTH that did not return success. It surfaces
// before the caller's original command is ever transmitted.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("redis: authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ConversionError is a reply value that could not be coerced to the caller's
// requested kind.
type ConversionError struct {
	Source string
	Target Kind
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("redis: cannot convert %q to %s: %v", e.Source, e.Target, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }
