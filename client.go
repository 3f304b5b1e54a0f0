// Package redis implements a single-connection client for the RESP wire
// protocol. One Client owns one TCP (optionally TLS) connection to one server
// endpoint: lazy connect, request framing, response parsing, the AUTH/SELECT
// handshake, pipelining and result coercion.
//
// A Client is exclusively owned by its creator: exactly one request may be in
// flight at a time and no internal locking is provided. Callers needing
// concurrency use independent instances; pooling and multi-server routing are
// a layer above this package.
package redis

import (
	"bufio"
	"context"
	"errors"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pior/redis/resp"
)

const dbUnknown = -1

// DialFunc opens the raw socket for a client. It exists so tests can
// substitute a scripted connection; production clients leave it nil.
type DialFunc func(ctx context.Context, addr string, timeout time.Duration) (net.Conn, error)

// Client is a single-connection RESP client. Not safe for concurrent use.
type Client struct {
	cfg    *Config
	log    logrus.FieldLogger
	dialer DialFunc

	conn   net.Conn
	reader *bufio.Reader
	broken bool

	loggedIn  bool
	loginTime time.Time
	targetDB  int
	connDB    int

	queued []queuedCommand
}

// New creates a client for the endpoint described by cfg. No connection is
// opened until the first command.
func New(cfg *Config) *Client {
	return &Client{
		cfg:      cfg,
		log:      cfg.logger(),
		targetDB: cfg.DB,
		connDB:   dbUnknown,
	}
}

// NewWithDialer is New with a substitute socket factory, used by tests.
func NewWithDialer(cfg *Config, dialer DialFunc) *Client {
	c := New(cfg)
	c.dialer = dialer
	return c
}

// Exec transmits one command and returns its reply. Arguments are encoded
// through the configured Encoder. While a pipeline is active the command is
// queued instead and a placeholder value is returned.
func (c *Client) Exec(name string, args ...any) (resp.Value, error) {
	encoded, err := c.encodeArgs(args)
	if err != nil {
		return resp.Value{}, err
	}
	return c.exec(nil, name, encoded, args)
}

// ExecContext is Exec bounded by ctx: connection establishment, transmission
// and the wait for the first byte of the reply all respect the context's
// deadline. Once the first byte has arrived the remainder of that reply is
// read without re-checking the deadline.
func (c *Client) ExecContext(ctx context.Context, name string, args ...any) (resp.Value, error) {
	encoded, err := c.encodeArgs(args)
	if err != nil {
		return resp.Value{}, err
	}
	return c.exec(ctx, name, encoded, args)
}

// ReadMore consumes one more reply without sending a request, for
// subscription-style continuous streams. It never dials: with no live
// connection it reports connection loss.
func (c *Client) ReadMore() (resp.Value, error) {
	return c.exec(nil, "", nil, nil)
}

// ReadMoreContext is ReadMore bounded by ctx for the first reply byte.
func (c *Client) ReadMoreContext(ctx context.Context) (resp.Value, error) {
	return c.exec(ctx, "", nil, nil)
}

// exec is the single-command path shared by the blocking and context
// variants. A nil ctx selects the blocking behavior. An empty name reads one
// reply without transmitting anything.
func (c *Client) exec(ctx context.Context, name string, encoded [][]byte, original []any) (resp.Value, error) {
	if c.queued != nil && name != "" {
		c.enqueue(name, encoded, original, KindValue)
		return resp.Value{}, nil
	}

	quit := name == cmdQuit

	// Dial only when there is a request to transmit: QUIT says goodbye to an
	// existing connection at most, and a read-only call consumes a reply from
	// the live stream or fails.
	create := name != "" && !quit

	conn, err := c.stream(ctx, create)
	if err != nil {
		return resp.Value{}, err
	}
	if conn == nil {
		if quit {
			// Nothing to say goodbye to.
			c.loggedIn = false
			return resp.Value{}, nil
		}
		return resp.Value{}, &ConnectionLostError{Addr: c.cfg.Addr, Op: "read", Err: errors.New("no connection")}
	}

	if name != "" {
		if err := c.handshake(ctx, name); err != nil {
			return resp.Value{}, err
		}
		if err := c.send(ctx, conn, name, encoded, original); err != nil {
			return resp.Value{}, err
		}
	}

	value, err := c.readReply(ctx, conn)
	if err != nil {
		return resp.Value{}, err
	}
	if quit {
		c.loggedIn = false
	}
	return value, nil
}

// send frames and transmits one command, closing the trace span with the
// write outcome. Size-limit rejections happen before any byte is written and
// leave the connection intact.
func (c *Client) send(ctx context.Context, conn net.Conn, name string, encoded [][]byte, original []any) error {
	fields := logrus.Fields{"cmd": name}
	if name != cmdAuth {
		// Credentials stay out of the log.
		fields["args"] = original
	}
	c.log.WithFields(fields).Debug("sending command")

	done := c.trace(name)
	err := c.write(ctx, conn, name, encoded)
	done(err)
	return err
}

func (c *Client) write(ctx context.Context, conn net.Conn, name string, encoded [][]byte) error {
	c.writeDeadline(ctx, conn)
	err := resp.WriteCommand(conn, c.cfg.MaxRequestSize, name, encoded...)
	if err == nil {
		return nil
	}

	var sizeErr *resp.SizeLimitError
	if errors.As(err, &sizeErr) {
		// Nothing was written; the connection is still good.
		return err
	}
	c.markBroken()
	return &ConnectionLostError{Addr: c.cfg.Addr, Op: "write", Err: err}
}

// readReply decodes exactly one reply. The deadline bounds the wait for the
// first byte only; once a reply has started, its remaining bytes are read
// without a further deadline on the assumption that the server sends them
// promptly.
func (c *Client) readReply(ctx context.Context, conn net.Conn) (resp.Value, error) {
	c.readDeadline(ctx, conn)
	if _, err := c.reader.Peek(1); err != nil {
		c.markBroken()
		return resp.Value{}, &ConnectionLostError{Addr: c.cfg.Addr, Op: "read", Err: err}
	}
	conn.SetReadDeadline(time.Time{})

	value, err := resp.ReadValue(c.reader)
	if err != nil {
		return resp.Value{}, c.classifyReadError(err)
	}
	return value, nil
}

// classifyReadError maps decode failures onto the error taxonomy. Server
// errors leave the stream usable; anything else poisons the connection.
func (c *Client) classifyReadError(err error) error {
	var serverErr *resp.ServerError
	if errors.As(err, &serverErr) {
		return err
	}

	c.markBroken()

	var protoErr *resp.ProtocolError
	var parseErr *resp.ParseError
	if errors.As(err, &protoErr) || errors.As(err, &parseErr) {
		return err
	}

	// Everything else is an I/O failure, including a premature EOF while
	// filling a bulk body.
	return &ConnectionLostError{Addr: c.cfg.Addr, Op: "read", Err: err}
}

// handshake injects AUTH and SELECT before the first qualifying command on a
// fresh connection. It runs before every command except AUTH, SELECT and
// INFO, but its state checks make each step fire at most once per
// login/selected-db combination per connection lifetime.
func (c *Client) handshake(ctx context.Context, name string) error {
	if name == cmdAuth || name == cmdSelect || name == cmdInfo {
		return nil
	}

	if c.cfg.Password != "" && !c.loggedIn {
		if err := c.sendAuth(ctx); err != nil {
			return err
		}
	}

	current := c.connDB
	if current == dbUnknown {
		// A fresh connection starts at database 0.
		current = 0
	}
	if c.targetDB != current {
		if c.cfg.ClusterMode && c.targetDB > 0 {
			// Cluster and sentinel topologies reject SELECT on non-zero
			// databases; leave the connection on its default.
			return nil
		}
		if err := c.sendSelect(ctx, c.targetDB); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) sendAuth(ctx context.Context) error {
	args := []any{c.cfg.Password}
	if c.cfg.Username != "" {
		args = []any{c.cfg.Username, c.cfg.Password}
	}
	encoded, err := c.encodeArgs(args)
	if err != nil {
		return err
	}
	reply, err := c.exec(ctx, cmdAuth, encoded, args)
	if err != nil {
		return &AuthError{Err: err}
	}
	if reply.Type != resp.Simple {
		return &AuthError{Err: errors.New("unexpected reply " + reply.String())}
	}
	c.loggedIn = true
	c.loginTime = time.Now()
	return nil
}

func (c *Client) sendSelect(ctx context.Context, db int) error {
	args := []any{db}
	encoded, err := c.encodeArgs(args)
	if err != nil {
		return err
	}
	if _, err := c.exec(ctx, cmdSelect, encoded, args); err != nil {
		return err
	}
	c.connDB = db
	return nil
}

// Close disposes the client. A logged-in client attempts a graceful QUIT
// first, best effort, then the socket is released.
func (c *Client) Close() error {
	if c.conn != nil && !c.broken && c.loggedIn {
		c.exec(nil, cmdQuit, nil, nil)
	}
	c.drop()
	return nil
}

// LoggedIn reports the session authentication state and when it was
// established.
func (c *Client) LoggedIn() (bool, time.Time) {
	return c.loggedIn, c.loginTime
}

func (c *Client) encodeArgs(args []any) ([][]byte, error) {
	if len(args) == 0 {
		return nil, nil
	}
	enc := c.cfg.encoder()
	encoded := make([][]byte, len(args))
	for i, arg := range args {
		payload, err := enc.Encode(arg)
		if err != nil {
			return nil, err
		}
		encoded[i] = payload
	}
	return encoded, nil
}

func (c *Client) trace(name string) func(error) {
	if c.cfg.Trace == nil {
		return func(error) {}
	}
	return c.cfg.Trace(name)
}

func (c *Client) writeDeadline(ctx context.Context, conn net.Conn) {
	if deadline, ok := ctxDeadline(ctx); ok {
		conn.SetWriteDeadline(deadline)
		return
	}
	conn.SetWriteDeadline(time.Now().Add(c.cfg.effectiveTimeout()))
}

func (c *Client) readDeadline(ctx context.Context, conn net.Conn) {
	if deadline, ok := ctxDeadline(ctx); ok {
		conn.SetReadDeadline(deadline)
		return
	}
	conn.SetReadDeadline(time.Now().Add(c.cfg.effectiveTimeout()))
}

func ctxDeadline(ctx context.Context) (time.Time, bool) {
	if ctx == nil {
		return time.Time{}, false
	}
	return ctx.Deadline()
}
