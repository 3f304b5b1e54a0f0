package redis

import (
	"context"
	"net"
	"time"

	"github.com/pior/redis/internal/testutils"
)

// testDialer hands out scripted connections and counts dial attempts.
type testDialer struct {
	conns []*testutils.ConnectionMock
	dials int
	err   error
}

func (d *testDialer) dial(ctx context.Context, addr string, timeout time.Duration) (net.Conn, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.dials >= len(d.conns) {
		panic("testDialer: no more scripted connections")
	}
	conn := d.conns[d.dials]
	d.dials++
	return conn, nil
}

// newTestClient builds a client whose connections are scripted mocks, one per
// expected dial, each serving its own response stream.
func newTestClient(cfg *Config, responses ...string) (*Client, *testDialer) {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}

	dialer := &testDialer{}
	if len(responses) == 0 {
		dialer.conns = []*testutils.ConnectionMock{testutils.NewConnectionMock()}
	}
	for _, response := range responses {
		dialer.conns = append(dialer.conns, testutils.NewConnectionMock(response))
	}

	return NewWithDialer(cfg, dialer.dial), dialer
}

func (d *testDialer) conn(i int) *testutils.ConnectionMock {
	return d.conns[i]
}
