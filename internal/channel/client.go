// Package channel is the client side of the helper's status endpoint.
//
// A Client keeps best-effort connectivity to the named pipe (Unix socket on
// non-Windows hosts) the helper publishes, decodes each status line, and
// hands the result to a callback. While the endpoint does not exist yet the
// client retries forever with a fixed delay.
package channel

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/tessro/caretip/internal/event"
	"github.com/tessro/caretip/internal/imestate"
	"github.com/tessro/caretip/internal/logging"
	"github.com/tessro/caretip/internal/loop"
)

// DefaultRetryDelay is the fixed delay between reconnect attempts.
const DefaultRetryDelay = 1000 * time.Millisecond

// DialFunc opens a connection to the named endpoint.
type DialFunc func(ctx context.Context, endpoint string) (net.Conn, error)

// Option configures a Client.
type Option func(*Client)

// WithDialer replaces the platform dialer.
func WithDialer(dial DialFunc) Option {
	return func(c *Client) { c.dial = dial }
}

// WithRetryDelay sets the delay between reconnect attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// WithRedialOnClose makes the client reconnect after an established session
// ends, so a restarted helper is picked up again.
func WithRedialOnClose(redial bool) Option {
	return func(c *Client) { c.redialOnClose = redial }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// target is the argument set of a Connect call. Retries reuse it unchanged.
type target struct {
	endpoint string
	onStatus func(imestate.Status)
	onFatal  func(error)
}

// Client is the status channel client. All fields below the options are
// owned by the loop goroutine.
type Client struct {
	loop          *loop.Loop
	dial          DialFunc
	retryDelay    time.Duration
	redialOnClose bool
	log           *slog.Logger

	state    ConnState
	conn     net.Conn
	cancel   context.CancelFunc
	retry    *loop.Timer
	session  uint64
	attempts int
	closed   bool

	stateChanges event.Emitter[ConnState]
}

// New creates a client whose callbacks run on l.
func New(l *loop.Loop, opts ...Option) *Client {
	c := &Client{
		loop:       l,
		dial:       DialEndpoint,
		retryDelay: DefaultRetryDelay,
		log:        slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	c.log = c.log.With("component", "channel")
	return c
}

// Connect starts connecting to endpoint and returns immediately. Every well
// formed status line is passed to onStatus on the loop. Errors other than a
// missing endpoint are passed to onFatalError, which may be nil.
func (c *Client) Connect(endpoint string, onStatus func(imestate.Status), onFatalError func(error)) {
	t := &target{endpoint: endpoint, onStatus: onStatus, onFatal: onFatalError}
	c.loop.Post(func() { c.connect(t) })
}

// Close tears down the connection, cancels any in-flight dial and pending
// retry, and stops further reconnects. Safe to call more than once.
func (c *Client) Close() error {
	c.loop.Call(c.close)
	return nil
}

// State returns the current connection state.
func (c *Client) State() ConnState {
	state := Disconnected
	c.loop.Call(func() { state = c.state })
	return state
}

// Attempts returns how many dials have been started.
func (c *Client) Attempts() int {
	var n int
	c.loop.Call(func() { n = c.attempts })
	return n
}

// OnStateChange registers fn to be called on the loop for each state change.
func (c *Client) OnStateChange(fn func(ConnState)) (remove func()) {
	return c.stateChanges.OnEvent(fn)
}

func (c *Client) setState(s ConnState) {
	if c.state == s {
		return
	}
	c.log.Debug("state change", "from", c.state, "to", s)
	c.state = s
	c.stateChanges.Emit(s)
}

func (c *Client) connect(t *target) {
	if c.closed {
		return
	}
	if c.state != Disconnected {
		c.log.Debug("connect ignored", "state", c.state)
		return
	}

	c.session++
	c.attempts++
	id := c.session
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.setState(Connecting)

	go func() {
		defer logging.LogPanic("channel-dial", nil)
		conn, err := c.dial(ctx, t.endpoint)
		if !c.loop.Post(func() { c.dialed(id, conn, err, t) }) && conn != nil {
			_ = conn.Close()
		}
	}()
}

func (c *Client) dialed(id uint64, conn net.Conn, err error, t *target) {
	if c.closed || id != c.session {
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if err != nil {
		c.setState(Disconnected)
		if IsEndpointMissing(err) {
			c.log.Debug("endpoint not available, retrying", "endpoint", t.endpoint, "delay", c.retryDelay)
			c.scheduleRetry(t)
			return
		}
		c.fatal(err, t)
		return
	}

	c.log.Info("connected", "endpoint", t.endpoint)
	c.conn = conn
	c.setState(Connected)
	go c.read(id, conn, t)
}

// read scans lines off conn and posts each one to the loop in arrival order.
func (c *Client) read(id uint64, conn net.Conn, t *target) {
	defer logging.LogPanic("channel-read", nil)

	lines := newLineReader(conn, MaxLineLength)
	for {
		line, err := lines.Next()
		if errors.Is(err, errLineTooLong) {
			c.log.Debug("skipping oversized status line", "limit", MaxLineLength)
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = nil
			}
			c.loop.Post(func() { c.ended(id, err, t) })
			return
		}
		if !c.loop.Post(func() { c.deliver(id, line, t) }) {
			return
		}
	}
}

func (c *Client) deliver(id uint64, line string, t *target) {
	if c.closed || id != c.session {
		return
	}
	st, err := imestate.Parse(line)
	if err != nil {
		c.log.Debug("skipping status line", "line", line, "error", err)
		return
	}
	if t.onStatus != nil {
		t.onStatus(st)
	}
}

func (c *Client) ended(id uint64, err error, t *target) {
	if c.closed || id != c.session || c.conn == nil {
		return
	}
	_ = c.conn.Close()
	c.conn = nil
	c.setState(Disconnected)

	missing := err != nil && IsEndpointMissing(err)
	switch {
	case err == nil:
		c.log.Info("endpoint closed", "endpoint", t.endpoint)
	case !missing:
		c.fatal(err, t)
	}
	if missing || c.redialOnClose {
		c.scheduleRetry(t)
	}
}

func (c *Client) fatal(err error, t *target) {
	c.log.Error("status channel error", "endpoint", t.endpoint, "error", err)
	if t.onFatal != nil {
		t.onFatal(err)
	}
}

func (c *Client) scheduleRetry(t *target) {
	c.retry.Stop()
	c.retry = c.loop.AfterFunc(c.retryDelay, func() {
		c.retry = nil
		c.connect(t)
	})
}

func (c *Client) close() {
	if c.closed {
		return
	}
	c.closed = true
	c.retry.Stop()
	c.retry = nil
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.setState(Disconnected)
}
