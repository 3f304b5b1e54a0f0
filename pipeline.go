package redis

import (
	"github.com/pior/redis/resp"
)

// queuedCommand is one deferred command recorded while a pipeline is active.
type queuedCommand struct {
	name     string
	encoded  [][]byte
	original []any
	kind     Kind
}

// StartPipeline begins queuing. Until StopPipeline, every execute call
// appends its command instead of performing I/O and returns a placeholder.
// Starting twice is a no-op.
func (c *Client) StartPipeline() {
	if c.queued == nil {
		c.queued = []queuedCommand{}
	}
}

// Pipelining reports whether commands are currently being queued.
func (c *Client) Pipelining() bool {
	return c.queued != nil
}

func (c *Client) enqueue(name string, encoded [][]byte, original []any, kind Kind) {
	c.log.WithField("cmd", name).Debug("queueing pipelined command")
	c.queued = append(c.queued, queuedCommand{
		name:     name,
		encoded:  encoded,
		original: original,
		kind:     kind,
	})
}

// StopPipeline flushes the queue: the handshake runs once for the whole
// batch, all queued commands are serialized into one contiguous buffer and
// transmitted in a single write, and the replies are read back in issue
// order, each coerced to its command's requested kind.
//
// With requireResult unset no reply is read at all and the results are the
// commands' placeholder values; the caller explicitly opted out of consuming
// responses. Without an active pipeline this is a no-op.
func (c *Client) StopPipeline(requireResult bool) ([]any, error) {
	if c.queued == nil {
		return nil, nil
	}

	// Take the queue out first so the handshake's own commands execute
	// instead of being re-queued.
	queued := c.queued
	c.queued = nil

	if len(queued) == 0 {
		return []any{}, nil
	}

	conn, err := c.stream(nil, true)
	if err != nil {
		return nil, err
	}
	if err := c.handshake(nil, queued[0].name); err != nil {
		return nil, err
	}

	buf, err := c.serializeBatch(queued)
	if err != nil {
		return nil, err
	}

	c.log.WithField("commands", len(queued)).Debug("flushing pipeline")
	c.writeDeadline(nil, conn)
	if _, err := conn.Write(buf); err != nil {
		c.markBroken()
		return nil, &ConnectionLostError{Addr: c.cfg.Addr, Op: "write", Err: err}
	}

	results := make([]any, len(queued))
	if !requireResult {
		for i, cmd := range queued {
			results[i] = cmd.kind.zero()
		}
		return results, nil
	}

	for i, cmd := range queued {
		reply, err := c.readReply(nil, conn)
		if err != nil {
			// A server error abandons decode of the remaining replies.
			return results[:i], err
		}
		out, err := c.coerceLoose(reply, cmd.kind)
		if err != nil {
			return results[:i], err
		}
		results[i] = out
	}
	return results, nil
}

// serializeBatch assembles every queued command into one buffer, enforcing
// the per-request size limit before anything is transmitted.
func (c *Client) serializeBatch(queued []queuedCommand) ([]byte, error) {
	size := 0
	for _, cmd := range queued {
		frame := resp.CommandSize(cmd.name, cmd.encoded...)
		if c.cfg.MaxRequestSize > 0 && frame > c.cfg.MaxRequestSize {
			return nil, &resp.SizeLimitError{Command: cmd.name, Size: frame, Limit: c.cfg.MaxRequestSize}
		}
		size += frame
	}

	buf := make([]byte, 0, size)
	for _, cmd := range queued {
		buf = resp.AppendCommand(buf, cmd.name, cmd.encoded...)
	}
	return buf, nil
}
