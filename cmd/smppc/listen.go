package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/ValerySidorin/smppc/client"
	"github.com/ValerySidorin/smppc/config"
	"github.com/ValerySidorin/smppc/connector"
	"github.com/ValerySidorin/smppc/connector/writer"
	"github.com/ValerySidorin/smppc/internal/forward"
	"github.com/ValerySidorin/smppc/internal/observability"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newListenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Bind as receiver and forward deliveries until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.listen(cmd.Context())
		},
	}
}

func (a *app) listen(ctx context.Context) error {
	mode := a.conf.SMPP.Bind.Mode
	if mode == config.BindTransmitter {
		return errors.New("listen: bind mode transmitter cannot receive deliveries")
	}

	stop, err := initObservability(ctx, a.conf, a.l)
	if err != nil {
		return err
	}
	defer stop()

	var w writer.Writer
	if p := a.conf.Forward.Writer.Protocol; p != "" {
		w, err = connector.NewWriter(a.conf.Forward.Writer, a.l)
		if err != nil {
			return fmt.Errorf("listen: new writer: %w", err)
		}
		w = observability.WrapWriter(w, string(p))
		defer func() {
			if err := w.Close(); err != nil {
				a.l.Error("close writer", "err", err)
			}
		}()
		a.l.Info("forwarding deliveries", "endpoint", w.Endpoint())
	}

	opts, err := a.clientOptions()
	if err != nil {
		return err
	}
	r, err := client.NewReconnector(a.conf.SMPP.Addr, a.conf.SMPP.Reconnect, func(ctx context.Context, c *client.Client) error {
		return a.bind(ctx, c, mode)
	}, opts...)
	if err != nil {
		return err
	}

	fw, err := forward.New(a.conf.Forward, w, a.l)
	if err != nil {
		return err
	}
	defer func() {
		if err := fw.Close(); err != nil {
			a.l.Error("close forwarder", "err", err)
		}
	}()

	err = r.Run(ctx, func(ctx context.Context, c *client.Client, events <-chan client.Event) error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			// Consumes until the event stream ends so the final deliveries are
			// still acknowledged while unbinding.
			return fw.Run(context.Background(), c, events)
		})
		g.Go(func() error {
			select {
			case <-gctx.Done():
			case <-c.Closed():
			}
			unbind(c, a.l)
			return nil
		})
		return g.Wait()
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("listen: %w", err)
	}
	a.l.Info("stopped")
	return nil
}
