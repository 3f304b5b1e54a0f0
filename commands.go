package redis

import (
	"context"
	"errors"
	"time"

	"github.com/pior/redis/resp"
)

// Typed execute helpers. Each one issues the command through Exec and coerces
// the reply to the named kind under the configured strictness policy.

func (c *Client) ExecString(name string, args ...any) (string, error) {
	return execKind[string](c, nil, KindString, name, args)
}

func (c *Client) ExecInt(name string, args ...any) (int64, error) {
	return execKind[int64](c, nil, KindInt, name, args)
}

func (c *Client) ExecFloat(name string, args ...any) (float64, error) {
	return execKind[float64](c, nil, KindFloat, name, args)
}

func (c *Client) ExecBool(name string, args ...any) (bool, error) {
	return execKind[bool](c, nil, KindBool, name, args)
}

func (c *Client) ExecBytes(name string, args ...any) ([]byte, error) {
	return execKind[[]byte](c, nil, KindBytes, name, args)
}

func (c *Client) ExecStrings(name string, args ...any) ([]string, error) {
	return execKind[[]string](c, nil, KindStrings, name, args)
}

func (c *Client) ExecByteSlices(name string, args ...any) ([][]byte, error) {
	return execKind[[][]byte](c, nil, KindByteSlices, name, args)
}

func (c *Client) ExecValues(name string, args ...any) ([]resp.Value, error) {
	return execKind[[]resp.Value](c, nil, KindValues, name, args)
}

// Context-bounded equivalents.

func (c *Client) ExecStringContext(ctx context.Context, name string, args ...any) (string, error) {
	return execKind[string](c, ctx, KindString, name, args)
}

func (c *Client) ExecIntContext(ctx context.Context, name string, args ...any) (int64, error) {
	return execKind[int64](c, ctx, KindInt, name, args)
}

func (c *Client) ExecBoolContext(ctx context.Context, name string, args ...any) (bool, error) {
	return execKind[bool](c, ctx, KindBool, name, args)
}

func (c *Client) ExecBytesContext(ctx context.Context, name string, args ...any) ([]byte, error) {
	return execKind[[]byte](c, ctx, KindBytes, name, args)
}

// TryExecString is ExecString with failures swallowed; the second return
// reports whether a value was obtained. Meant for best-effort reads where the
// surrounding pool handles broken connections.
func (c *Client) TryExecString(name string, args ...any) (string, bool) {
	s, err := c.ExecString(name, args...)
	if err != nil {
		c.log.WithError(err).WithField("cmd", name).Debug("command failed")
		return "", false
	}
	return s, true
}

func (c *Client) TryExecBool(name string, args ...any) (bool, bool) {
	b, err := c.ExecBool(name, args...)
	if err != nil {
		c.log.WithError(err).WithField("cmd", name).Debug("command failed")
		return false, false
	}
	return b, true
}

// execKind routes through the pipeline queue when one is active, recording
// the requested kind so StopPipeline can coerce the eventual reply.
func execKind[T any](c *Client, ctx context.Context, kind Kind, name string, args []any) (T, error) {
	var zero T

	encoded, err := c.encodeArgs(args)
	if err != nil {
		return zero, err
	}

	if c.queued != nil {
		c.enqueue(name, encoded, args, kind)
		return zero, nil
	}

	reply, err := c.exec(ctx, name, encoded, args)
	if err != nil {
		return zero, err
	}
	out, err := c.coerceLoose(reply, kind)
	if err != nil {
		return zero, err
	}
	typed, ok := out.(T)
	if !ok {
		return zero, &ConversionError{Source: reply.String(), Target: kind, Err: errors.New("unexpected coerced type")}
	}
	return typed, nil
}

// ReadMoreString consumes one more reply as text, for subscription-style
// streams.
func (c *Client) ReadMoreString() (string, error) {
	reply, err := c.ReadMore()
	if err != nil {
		return "", err
	}
	out, err := c.coerceLoose(reply, KindString)
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// Ping reports whether the server answers PONG.
func (c *Client) Ping() (bool, error) {
	reply, err := c.Exec(cmdPing)
	if err != nil {
		return false, err
	}
	return reply.Type == resp.Simple && reply.Str == statusPong, nil
}

// Select switches the client to db, both for this connection and as the
// target the handshake re-establishes after a reconnect.
func (c *Client) Select(db int) error {
	c.targetDB = db
	if c.conn == nil || c.broken || c.connDB == db {
		// No live connection, or already there; the handshake covers the
		// next connection.
		return nil
	}
	return c.sendSelect(nil, db)
}

// Auth authenticates explicitly. An empty user selects the legacy
// single-argument AUTH form.
func (c *Client) Auth(user, pass string) error {
	args := []any{pass}
	if user != "" {
		args = []any{user, pass}
	}
	reply, err := c.Exec(cmdAuth, args...)
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

// Quit asks the server to close the session. With no live connection it is a
// no-op; either way the login state is cleared.
func (c *Client) Quit() error {
	_, err := c.exec(nil, cmdQuit, nil, nil)
	return err
}

// SetAll stores every key/value pair in one MSET round trip. Built purely on
// Exec; values go through the Encoder like any other argument.
func (c *Client) SetAll(pairs map[string]any) error {
	if len(pairs) == 0 {
		return nil
	}
	args := make([]any, 0, len(pairs)*2)
	for key, value := range pairs {
		args = append(args, key, value)
	}
	_, err := c.Exec(cmdMSet, args...)
	return err
}

// GetAll fetches the named keys in one MGET round trip. Missing keys map to
// nil values.
func (c *Client) GetAll(keys ...string) (map[string][]byte, error) {
	if len(keys) == 0 {
		return map[string][]byte{}, nil
	}
	args := make([]any, len(keys))
	for i, key := range keys {
		args[i] = key
	}
	blobs, err := c.ExecByteSlices(cmdMGet, args...)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(keys))
	for i, key := range keys {
		if i < len(blobs) {
			out[key] = blobs[i]
		}
	}
	return out, nil
}
