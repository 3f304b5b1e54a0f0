package redis

import (
	"bufio"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"time"
)

// stream returns a usable connection, dialing a fresh one when needed.
//
// A connection is usable only while the socket is present and nothing has
// marked it broken; anything else drops the old socket, resets the session
// state and, when create is set, dials again. With create unset (best-effort
// reads and resets) the caller gets nil instead of a new connection.
func (c *Client) stream(ctx context.Context, create bool) (net.Conn, error) {
	if c.conn != nil && !c.broken {
		return c.conn, nil
	}

	c.drop()
	if !create {
		return nil, nil
	}

	timeout := c.cfg.effectiveTimeout()
	conn, err := c.dial(ctx, timeout)
	if err != nil {
		return nil, err
	}

	if c.cfg.UseTLS {
		conn, err = c.upgradeTLS(ctx, conn, timeout)
		if err != nil {
			return nil, err
		}
	}

	c.conn = conn
	c.reader = bufio.NewReader(conn)
	return conn, nil
}

// dial opens the TCP socket with an explicit bounded wait; a connect that
// does not complete within the timeout is reported as ConnectTimeoutError.
func (c *Client) dial(ctx context.Context, timeout time.Duration) (net.Conn, error) {
	var conn net.Conn
	var err error
	if c.dialer != nil {
		conn, err = c.dialer(ctx, c.cfg.Addr, timeout)
	} else if ctx != nil {
		d := &net.Dialer{Timeout: timeout}
		conn, err = d.DialContext(ctx, "tcp", c.cfg.Addr)
	} else {
		conn, err = net.DialTimeout("tcp", c.cfg.Addr, timeout)
	}
	if err == nil {
		return conn, nil
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return nil, &ConnectTimeoutError{Addr: c.cfg.Addr, Timeout: timeout, Err: err}
	}
	return nil, &ConnectionLostError{Addr: c.cfg.Addr, Op: "connect", Err: err}
}

// upgradeTLS performs the client-side handshake over the raw socket. The
// partially built connection is closed on any failure so a pool above can
// rotate to another endpoint.
func (c *Client) upgradeTLS(ctx context.Context, raw net.Conn, timeout time.Duration) (net.Conn, error) {
	tlsConn := tls.Client(raw, c.tlsConfig())

	raw.SetDeadline(time.Now().Add(timeout))
	var err error
	if ctx != nil {
		err = tlsConn.HandshakeContext(ctx)
	} else {
		err = tlsConn.Handshake()
	}
	if err != nil {
		raw.Close()
		return nil, &ConnectionLostError{Addr: c.cfg.Addr, Op: "tls handshake", Err: err}
	}
	raw.SetDeadline(time.Time{})
	return tlsConn, nil
}

// tlsConfig builds the handshake configuration. Certificate checking is done
// entirely by the pinning callback: without a pinned certificate every server
// certificate is accepted; with one configured the handshake succeeds only if
// the pin's fingerprint matches some element of the presented chain, never
// just the leaf.
func (c *Client) tlsConfig() *tls.Config {
	cfg := &tls.Config{
		ServerName:         c.serverName(),
		InsecureSkipVerify: true,
	}
	if pin := c.cfg.PinnedCert; pin != nil {
		want := sha256.Sum256(pin.Raw)
		cfg.VerifyPeerCertificate = func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
			for _, rawCert := range rawCerts {
				if sha256.Sum256(rawCert) == want {
					return nil
				}
			}
			return fmt.Errorf("redis: pinned certificate not in chain presented by %s", c.cfg.Addr)
		}
	}
	return cfg
}

func (c *Client) serverName() string {
	if c.cfg.TLSServerName != "" {
		return c.cfg.TLSServerName
	}
	host, _, err := net.SplitHostPort(c.cfg.Addr)
	if err != nil {
		return c.cfg.Addr
	}
	return host
}

// markBroken flags the connection so the next call drops it and dials fresh.
// Nothing is repaired mid-command.
func (c *Client) markBroken() {
	c.broken = true
}

// drop releases the socket and resets all per-connection session state.
func (c *Client) drop() {
	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = nil
	c.reader = nil
	c.broken = false
	c.loggedIn = false
	c.loginTime = time.Time{}
	c.connDB = dbUnknown
}
