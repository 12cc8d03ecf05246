package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
)

type Backoff string

const (
	BackoffNone        Backoff = "none"
	BackoffFixed       Backoff = "fixed"
	BackoffLinear      Backoff = "linear"
	BackoffExponential Backoff = "exponential"
)

const (
	DefaultReconnectDelay      = 500 * time.Millisecond
	DefaultReconnectMaxRetries = 10
)

var ErrReconnectExhausted = errors.New("reconnect attempts exhausted")

// ReconnectConfig controls how a Reconnector redials. With Enabled unset a
// single connect attempt is made and a lost session is not replaced.
type ReconnectConfig struct {
	Enabled bool    `yaml:"enabled"`
	Backoff Backoff `yaml:"backoff"`
	// Delay is the fixed delay, the linear step or the initial exponential
	// delay between attempts.
	Delay    time.Duration `yaml:"delay"`
	MaxDelay time.Duration `yaml:"max_delay"`
	// MaxRetries bounds the retries after a failed attempt. Zero means the
	// default, negative means no bound.
	MaxRetries int `yaml:"max_retries"`
	// Restart starts a fresh round of attempts once MaxRetries is spent.
	Restart bool `yaml:"restart"`
}

func (c *ReconnectConfig) ValidateAndSetDefaults() error {
	switch c.Backoff {
	case "":
		c.Backoff = BackoffExponential
	case BackoffNone, BackoffFixed, BackoffLinear, BackoffExponential:
	default:
		return fmt.Errorf("%w: unknown backoff %q", ErrInvalidConfig, c.Backoff)
	}

	if c.Delay < 0 || c.MaxDelay < 0 {
		return fmt.Errorf("%w: negative reconnect delay", ErrInvalidConfig)
	}
	if c.Delay == 0 {
		c.Delay = DefaultReconnectDelay
	}

	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultReconnectMaxRetries
	}

	return nil
}

func (c *ReconnectConfig) backOff() backoff.BackOff {
	var b backoff.BackOff
	switch c.Backoff {
	case BackoffNone:
		return &backoff.ZeroBackOff{}
	case BackoffFixed:
		b = backoff.NewConstantBackOff(c.Delay)
	case BackoffLinear:
		b = &linearBackOff{step: c.Delay}
	default:
		maxInterval := time.Duration(math.MaxInt64)
		if c.MaxDelay > 0 {
			maxInterval = c.MaxDelay
		}
		b = &backoff.ExponentialBackOff{
			InitialInterval: c.Delay,
			Multiplier:      2,
			MaxInterval:     maxInterval,
		}
	}

	if c.MaxDelay > 0 {
		b = &cappedBackOff{BackOff: b, max: c.MaxDelay}
	}
	b.Reset()
	return b
}

type linearBackOff struct {
	step time.Duration
	n    int64
}

func (b *linearBackOff) Reset() { b.n = 0 }

func (b *linearBackOff) NextBackOff() time.Duration {
	if b.step <= 0 {
		return 0
	}
	b.n++
	if b.n > math.MaxInt64/int64(b.step) {
		return time.Duration(math.MaxInt64)
	}
	return b.step * time.Duration(b.n)
}

type cappedBackOff struct {
	backoff.BackOff
	max time.Duration
}

func (b *cappedBackOff) NextBackOff() time.Duration {
	return min(b.BackOff.NextBackOff(), b.max)
}

// OnConnectFunc prepares a freshly dialed session, usually by binding it.
// A returned error counts as a failed attempt.
type OnConnectFunc func(ctx context.Context, c *Client) error

// ServeFunc runs one prepared session. If it returns while the session is
// still open, the Reconnector stops with its error. If the session was lost,
// a new one is dialed.
type ServeFunc func(ctx context.Context, c *Client, events <-chan Event) error

// Reconnector keeps a session to addr alive across disconnects.
type Reconnector struct {
	addr      string
	conf      ReconnectConfig
	onConnect OnConnectFunc
	opts      []Option
	l         *slog.Logger

	mu  sync.Mutex
	cur *Client
}

func NewReconnector(addr string, conf ReconnectConfig, onConnect OnConnectFunc, opts ...Option) (*Reconnector, error) {
	if err := conf.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	// Only the logger is taken from opts here; each session applies all of them.
	scratch := &Client{l: slog.Default()}
	for _, opt := range opts {
		opt(scratch)
	}

	return &Reconnector{
		addr:      addr,
		conf:      conf,
		onConnect: onConnect,
		opts:      opts,
		l:         scratch.l.With("addr", addr),
	}, nil
}

// Current returns the session being served, nil between sessions.
func (r *Reconnector) Current() *Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cur
}

func (r *Reconnector) setCurrent(c *Client) {
	r.mu.Lock()
	r.cur = c
	r.mu.Unlock()
}

// Run dials, prepares and serves sessions until ctx is done, serve stops on
// its own, or connecting fails for good. Cancellation returns serve's error
// or nil.
func (r *Reconnector) Run(ctx context.Context, serve ServeFunc) error {
	for id := 1; ; id++ {
		l := r.l.With("session", id)

		c, events, err := r.connect(ctx, l)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !r.conf.Enabled || !r.conf.Restart || errors.Is(err, ErrInvalidConfig) {
				return err
			}
			l.Warn("restarting reconnect", "err", err)
			if sleepCtx(ctx, r.conf.backOff().NextBackOff()) != nil {
				return nil
			}
			continue
		}

		r.setCurrent(c)
		err = serve(ctx, c, events)
		r.setCurrent(nil)

		lost := c.IsClosed()
		_ = c.Close()
		go drainEvents(events)

		if ctx.Err() != nil || !lost || !r.conf.Enabled {
			return err
		}
		l.Warn("session lost, reconnecting", "err", c.Err())
	}
}

type connected struct {
	c      *Client
	events <-chan Event
}

func (r *Reconnector) connect(ctx context.Context, l *slog.Logger) (*Client, <-chan Event, error) {
	var maxTries uint = 1
	if r.conf.Enabled {
		maxTries = 0
		if r.conf.MaxRetries >= 0 {
			maxTries = uint(r.conf.MaxRetries) + 1
		}
	}

	var attempts uint
	res, err := backoff.Retry(ctx, func() (connected, error) {
		attempts++

		c, events, err := Connect(ctx, r.addr, r.opts...)
		if err != nil {
			if errors.Is(err, ErrInvalidConfig) {
				return connected{}, backoff.Permanent(err)
			}
			return connected{}, err
		}

		if r.onConnect != nil {
			if err := r.onConnect(ctx, c); err != nil {
				_ = c.Close()
				go drainEvents(events)
				return connected{}, err
			}
		}

		return connected{c: c, events: events}, nil
	},
		backoff.WithBackOff(r.conf.backOff()),
		backoff.WithMaxTries(maxTries),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, d time.Duration) {
			l.Warn("connect failed, retrying", "attempt", attempts, "delay", d, "err", err)
		}),
	)
	if err != nil {
		if maxTries > 1 && attempts == maxTries && ctx.Err() == nil {
			err = fmt.Errorf("%w after %d attempts: %w", ErrReconnectExhausted, attempts, err)
		}
		return nil, nil, err
	}

	return res.c, res.events, nil
}

func drainEvents(events <-chan Event) {
	for range events {
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
