package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schmitthub/dockmcp/internal/logger"
)

// drainConn sits between the SDK's stdio transport and the process streams.
// It records the IDs of requests read from in and clears them as responses
// are written to out. When in reaches EOF, the EOF is held back until every
// recorded request is answered or the timeout passes.
type drainConn struct {
	in      io.Reader
	out     io.Writer
	timeout time.Duration

	mu      sync.Mutex
	cond    *sync.Cond
	pending map[string]struct{}
	inLine  []byte
	outLine []byte
	eof     bool
	closed  bool
}

func newDrainConn(in io.Reader, out io.Writer, timeout time.Duration) *drainConn {
	c := &drainConn{in: in, out: out, timeout: timeout, pending: map[string]struct{}{}}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// envelope is the part of a JSON-RPC message needed to pair requests with
// responses.
type envelope struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
}

// messageID returns the normalized ID of a single message line, and whether
// the line is a request (true) or a response (false). ok is false for
// notifications, batches and malformed lines.
func messageID(line []byte) (id string, request bool, ok bool) {
	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return "", false, false
	}
	var raw any
	if len(env.ID) == 0 || json.Unmarshal(env.ID, &raw) != nil || raw == nil {
		return "", false, false
	}
	return fmt.Sprint(raw), env.Method != "", true
}

// scan appends chunk to buf and hands each complete line to fn, returning
// the unterminated remainder.
func scan(buf, chunk []byte, fn func([]byte)) []byte {
	buf = append(buf, chunk...)
	for {
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			return buf
		}
		if line := bytes.TrimSpace(buf[:i]); len(line) > 0 {
			fn(line)
		}
		buf = buf[i+1:]
	}
}

func (c *drainConn) read(p []byte) (int, error) {
	n, err := c.in.Read(p)
	if n > 0 {
		c.mu.Lock()
		c.inLine = scan(c.inLine, p[:n], func(line []byte) {
			if id, request, ok := messageID(line); ok && request {
				c.pending[id] = struct{}{}
			}
		})
		c.mu.Unlock()
	}
	if err == io.EOF {
		if n > 0 {
			// Deliver the final bytes first; the next read reports EOF.
			return n, nil
		}
		c.awaitPending()
	}
	return n, err
}

func (c *drainConn) write(p []byte) (int, error) {
	n, err := c.out.Write(p)
	c.mu.Lock()
	c.outLine = scan(c.outLine, p[:n], func(line []byte) {
		if id, request, ok := messageID(line); ok && !request {
			delete(c.pending, id)
		}
	})
	c.mu.Unlock()
	c.cond.Broadcast()
	return n, err
}

// awaitPending blocks until no request is unanswered, the connection is
// closed or the timeout passes.
func (c *drainConn) awaitPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eof = true

	expired := false
	timer := time.AfterFunc(c.timeout, func() {
		c.mu.Lock()
		expired = true
		c.mu.Unlock()
		c.cond.Broadcast()
	})
	defer timer.Stop()

	for len(c.pending) > 0 && !expired && !c.closed {
		c.cond.Wait()
	}
	if len(c.pending) > 0 {
		logger.Warn().Int("pending", len(c.pending)).Msg("stdin closed with unanswered requests")
	}
}

func (c *drainConn) sawEOF() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eof
}

func (c *drainConn) close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cond.Broadcast()
	if closer, ok := c.in.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// drainReader is the transport's read side.
type drainReader struct{ c *drainConn }

func (r drainReader) Read(p []byte) (int, error) { return r.c.read(p) }
func (r drainReader) Close() error               { return r.c.close() }

// drainWriter is the transport's write side. Closing it leaves out open.
type drainWriter struct{ c *drainConn }

func (w drainWriter) Write(p []byte) (int, error) { return w.c.write(p) }
func (w drainWriter) Close() error                { return nil }
