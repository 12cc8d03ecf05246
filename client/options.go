package client

import (
	"log/slog"
	"time"

	"github.com/ValerySidorin/smppc/transport"
	"go.opentelemetry.io/otel/trace"
)

type Option func(c *Client)

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.l = l
	}
}

// WithConfig replaces the whole session config. Options applied after it
// still override single fields.
func WithConfig(conf Config) Option {
	return func(c *Client) {
		c.conf = conf
	}
}

func WithResponseTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.conf.ResponseTimeout = d
	}
}

func WithEnquireLinkInterval(d time.Duration) Option {
	return func(c *Client) {
		c.conf.EnquireLinkInterval = d
	}
}

func WithEnquireLinkResponseTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.conf.EnquireLinkResponseTimeout = d
	}
}

func WithMaxCommandLength(n int) Option {
	return func(c *Client) {
		c.conf.MaxCommandLength = n
	}
}

func WithBindFailurePolicy(p BindFailurePolicy) Option {
	return func(c *Client) {
		c.conf.BindFailure = p
	}
}

func WithObserver(o Observer) Option {
	return func(c *Client) {
		if o != nil {
			c.obs = o
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithTransport sets how Connect dials. It has no effect on NewClient.
func WithTransport(conf transport.Config) Option {
	return func(c *Client) {
		c.tconf = conf
	}
}
