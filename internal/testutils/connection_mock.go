package testutils

import (
	"bytes"
	"errors"
	"net"
	"strings"
	"time"
)

// ConnectionMock is a scripted net.Conn: it serves pre-configured response
// bytes and records everything written to it.
type ConnectionMock struct {
	readBuf  *bytes.Buffer
	writeBuf *bytes.Buffer
	closed   bool

	// FailWrites makes every Write return an error, simulating a dead socket.
	FailWrites bool
}

// NewConnectionMock creates a mock connection serving the concatenation of
// responseData as its read stream.
func NewConnectionMock(responseData ...string) *ConnectionMock {
	return &ConnectionMock{
		readBuf:  bytes.NewBufferString(strings.Join(responseData, "")),
		writeBuf: &bytes.Buffer{},
	}
}

func (m *ConnectionMock) Read(b []byte) (int, error) {
	if m.closed {
		return 0, net.ErrClosed
	}
	return m.readBuf.Read(b)
}

func (m *ConnectionMock) Write(b []byte) (int, error) {
	if m.closed {
		return 0, net.ErrClosed
	}
	if m.FailWrites {
		return 0, errors.New("write refused")
	}
	return m.writeBuf.Write(b)
}

func (m *ConnectionMock) Close() error {
	m.closed = true
	return nil
}

func (m *ConnectionMock) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
}

func (m *ConnectionMock) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 6379}
}

func (m *ConnectionMock) SetDeadline(t time.Time) error      { return nil }
func (m *ConnectionMock) SetReadDeadline(t time.Time) error  { return nil }
func (m *ConnectionMock) SetWriteDeadline(t time.Time) error { return nil }

// Closed reports whether Close was called.
func (m *ConnectionMock) Closed() bool {
	return m.closed
}

// Feed appends more response bytes to the read stream.
func (m *ConnectionMock) Feed(data string) {
	m.readBuf.WriteString(data)
}

// GetWrittenRequest returns the raw request bytes written so far.
func (m *ConnectionMock) GetWrittenRequest() string {
	return m.writeBuf.String()
}

// Reset clears the recorded request bytes.
func (m *ConnectionMock) Reset() {
	m.writeBuf.Reset()
}
