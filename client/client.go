package client

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValerySidorin/smppc/pdu"
	"github.com/ValerySidorin/smppc/transport"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ReadBufferSize = 4096

const tracerName = "github.com/ValerySidorin/smppc/client"

// Client is an ESME session over a single stream.
type Client struct {
	conf  Config
	tconf transport.Config
	codec pdu.Codec

	rw    io.ReadWriter
	owned io.Closer // set when the client dialed rw itself

	sess *session
	cm   *correlator
	out  *outbound
	ev   *dispatcher

	keepaliveBusy atomic.Bool

	once  sync.Once
	cause error
	stop  chan struct{}
	done  chan struct{}
	wg    sync.WaitGroup

	obs    Observer
	tracer trace.Tracer
	l      *slog.Logger
}

// Connect dials addr and starts a session on the new stream. The stream is
// closed together with the session.
func Connect(ctx context.Context, addr string, opts ...Option) (*Client, <-chan Event, error) {
	c, err := newClient(opts...)
	if err != nil {
		return nil, nil, err
	}

	c.tconf.SetDefaults()
	s, err := transport.Dial(ctx, addr, c.tconf)
	if err != nil {
		return nil, nil, &ConnectError{Addr: addr, Err: err}
	}

	c.owned = s
	c.start(s)

	c.l.Info("connected", "addr", addr, "network", c.tconf.Network)

	return c, c.ev.events(), nil
}

// NewClient starts a session on an already open stream. The stream is not
// closed by the client. If it supports SetReadDeadline, the deadline is used
// to stop the reader on shutdown.
func NewClient(rw io.ReadWriter, opts ...Option) (*Client, <-chan Event, error) {
	c, err := newClient(opts...)
	if err != nil {
		return nil, nil, err
	}

	c.start(rw)

	return c, c.ev.events(), nil
}

func newClient(opts ...Option) (*Client, error) {
	c := &Client{
		stop: make(chan struct{}),
		done: make(chan struct{}),
		obs:  nopObserver{},
		l:    slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.conf.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}

	c.codec = c.conf.codec()
	c.cm = newCorrelator()
	c.sess = &session{onChange: c.stateChanged}

	return c, nil
}

func (c *Client) start(rw io.ReadWriter) {
	c.rw = rw
	c.out = newOutbound(rw, c.conf.WriteDeadline, c.l)
	c.ev = newDispatcher()

	c.wg.Add(1)
	go c.readLoop()

	if c.conf.EnquireLinkInterval > 0 {
		c.wg.Add(1)
		go c.keepalive()
	}
}

func (c *Client) stateChanged(from, to State) {
	c.l.Debug("session state", "from", from, "to", to)
	c.obs.StateChanged(from, to)
}

// Close initiates shutdown and does not wait for it. It is idempotent.
func (c *Client) Close() error {
	c.shutdown(nil)
	return nil
}

// Closed is closed once shutdown has completed: pending requests are
// cancelled and the event stream has been terminated.
func (c *Client) Closed() <-chan struct{} {
	return c.done
}

// Err returns the reason the session closed, nil if it is still open or was
// closed locally.
func (c *Client) Err() error {
	select {
	case <-c.done:
		return c.cause
	default:
		return nil
	}
}

func (c *Client) State() State {
	s, _ := c.sess.load()
	return s
}

func (c *Client) Role() Role {
	_, r := c.sess.load()
	return r
}

func (c *Client) IsClosed() bool {
	return c.State() == StateClosed
}

// IsActive reports whether the session is bound.
func (c *Client) IsActive() bool {
	return c.State() == StateBound
}

// Pending returns the number of requests awaiting a response.
func (c *Client) Pending() int {
	return c.cm.len()
}

func (c *Client) closing() bool {
	select {
	case <-c.stop:
		return true
	default:
		return false
	}
}

// shutdown closes the session: state, then pending requests, then the event
// stream, then the stream halves. A nil cause means a local or orderly close.
func (c *Client) shutdown(cause error) {
	c.once.Do(func() {
		c.cause = cause
		close(c.stop)

		c.sess.close()
		c.cm.cancelAll(ErrConnClosed)

		if cause != nil {
			c.l.Error("session closed", "err", cause)
			c.ev.closeWith(&ErrorEvent{Err: cause, Terminal: true})
		} else {
			c.l.Info("session closed")
			c.ev.close()
		}

		c.out.close()
		c.release()

		close(c.done)
	})
}

func (c *Client) release() {
	if c.owned != nil {
		if err := c.owned.Close(); err != nil {
			c.l.Debug("close stream", "err", err)
		}
		return
	}

	if d, ok := c.rw.(interface{ SetReadDeadline(time.Time) error }); ok {
		_ = d.SetReadDeadline(time.Now())
	}
}

// goingDown reports whether err means the session is already shutting down.
func goingDown(err error) bool {
	return errors.Is(err, ErrConnClosed) || errors.Is(err, ErrIO)
}

// write sends a frame. A failed write completes p with the write error and
// then closes the session.
func (c *Client) write(frame []byte, p *pending) error {
	err := c.out.send(frame)
	if err == nil {
		return nil
	}

	if p != nil {
		c.cm.finish(p, result{err: err})
	}
	if !errors.Is(err, ErrConnClosed) {
		c.shutdown(err)
	}

	return err
}

// request sends a correlated command and waits for its outcome.
func (c *Client) request(ctx context.Context, id pdu.CommandID, body pdu.Body, timeout time.Duration, settle func(result) result) (pdu.Command, error) {
	ctx, span := c.tracer.Start(ctx, "smpp."+id.String(), trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	fail := func(err error) (pdu.Command, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return pdu.Command{}, err
	}

	frame, err := c.codec.Encode(pdu.Command{ID: id, Body: body})
	if err != nil {
		return fail(err)
	}

	p, err := c.cm.register(id.Response(), timeout, settle)
	if err != nil {
		return fail(err)
	}
	binary.BigEndian.PutUint32(frame[12:16], p.seq)
	span.SetAttributes(attribute.Int64("smpp.sequence", int64(p.seq)))

	if err := c.write(frame, p); err == nil {
		c.obs.CommandSent(id)
		c.l.Debug("command sent", "command_id", id, "sequence", p.seq)
	}

	var res result
	select {
	case res = <-p.ch:
	case <-ctx.Done():
		c.cm.finish(p, result{err: ctx.Err()})
		res = <-p.ch
	}

	c.obs.RequestDone(id, time.Since(p.sent), res.err)

	if res.err != nil {
		return fail(res.err)
	}
	span.SetAttributes(attribute.String("smpp.status", res.cmd.Status.String()))

	return res.cmd, nil
}

// respond sends a command that answers an inbound one and expects nothing
// back.
func (c *Client) respond(id pdu.CommandID, status pdu.CommandStatus, seq uint32, body pdu.Body) error {
	frame, err := c.codec.Encode(pdu.Command{ID: id, Status: status, Sequence: seq, Body: body})
	if err != nil {
		return err
	}

	if err := c.write(frame, nil); err != nil {
		return err
	}

	c.obs.CommandSent(id)
	c.l.Debug("command sent", "command_id", id, "sequence", seq, "status", status)

	return nil
}

// stateErr builds the error for an operation attempted in the wrong state.
func (c *Client) stateErr(op string) error {
	s := c.State()
	if s == StateClosed {
		return ErrConnClosed
	}
	return &InvalidStateError{Op: op, State: s}
}

// requireBound checks the session is bound with a role allowing op.
func (c *Client) requireBound(op string, allowed func(Role) bool) error {
	s, r := c.sess.load()
	if s != StateBound || (allowed != nil && !allowed(r)) {
		return c.stateErr(op)
	}
	return nil
}
