package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ValerySidorin/smppc/client"
	"github.com/ValerySidorin/smppc/config"
	"github.com/ValerySidorin/smppc/internal/observability"
	"github.com/ValerySidorin/smppc/pdu"
)

const unbindTimeout = 5 * time.Second

func (a *app) clientOptions() ([]client.Option, error) {
	opts, err := a.conf.ClientOptions()
	if err != nil {
		return nil, err
	}
	return append(opts,
		client.WithLogger(a.l),
		client.WithObserver(observability.Observer()),
		client.WithTracer(observability.Tracer()),
	), nil
}

func (a *app) connect(ctx context.Context, mode config.BindMode) (*client.Client, <-chan client.Event, error) {
	opts, err := a.clientOptions()
	if err != nil {
		return nil, nil, err
	}

	c, events, err := client.Connect(ctx, a.conf.SMPP.Addr, opts...)
	if err != nil {
		return nil, nil, err
	}

	if err := a.bind(ctx, c, mode); err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	return c, events, nil
}

func (a *app) bind(ctx context.Context, c *client.Client, mode config.BindMode) error {
	var (
		resp pdu.BindResp
		err  error
	)
	b := a.conf.SMPP.Bind.Body()
	switch mode {
	case config.BindTransmitter:
		resp, err = c.BindTransmitter(ctx, b)
	case config.BindReceiver:
		resp, err = c.BindReceiver(ctx, b)
	default:
		resp, err = c.BindTransceiver(ctx, b)
	}
	if err != nil {
		return fmt.Errorf("bind %s: %w", mode, err)
	}

	l := a.l.With("addr", a.conf.SMPP.Addr, "mode", string(mode), "smsc", resp.SystemID)
	if v, ok := resp.InterfaceVersion(); ok {
		l = l.With("interface_version", fmt.Sprintf("0x%02x", v))
	}
	l.Info("bound")

	return nil
}

// unbind leaves a bound session gracefully and always closes it.
func unbind(c *client.Client, l *slog.Logger) {
	if c.IsActive() {
		ctx, cancel := context.WithTimeout(context.Background(), unbindTimeout)
		defer cancel()
		if err := c.Unbind(ctx); err != nil {
			l.Warn("unbind", "err", err)
		}
	}
	_ = c.Close()
}

// logEvents drains events nobody else consumes.
func logEvents(events <-chan client.Event, l *slog.Logger) {
	for ev := range events {
		switch e := ev.(type) {
		case *client.IncomingEvent:
			l.Info("unsolicited command", "command", e.Command.String())
		case *client.ErrorEvent:
			l.Warn("session error", "kind", e.Kind().String(), "terminal", e.Terminal, "err", e.Err)
		}
	}
}

func initObservability(ctx context.Context, conf config.Config, l *slog.Logger) (func(), error) {
	shutdown, err := observability.Init(ctx, conf.Observability, l)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	return func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			l.Error("shutdown observability", "err", err)
		}
	}, nil
}
