package nats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ValerySidorin/smppc/connector/protocol"
	"github.com/ValerySidorin/smppc/connector/util"
	"github.com/ValerySidorin/smppc/connector/writer"
	"github.com/nats-io/nats.go"
)

func init() {
	writer.RegisterWriterFactory(protocol.NatsCore, func(rawBrokerConfig any, l *slog.Logger) (writer.Writer, error) {
		var typedConfig WriterConfig
		if err := util.ConvertConfig(rawBrokerConfig, &typedConfig); err != nil {
			return nil, fmt.Errorf("nats_core writer factory: convert config: %w", err)
		}
		return NewWriter(typedConfig, l)
	})
}

type Writer struct {
	conf WriterConfig
	nc   *nats.Conn
	l    *slog.Logger
}

func NewWriter(conf WriterConfig, l *slog.Logger) (*Writer, error) {
	conf.SetDefaults()
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("nats: %w", err)
	}

	l = l.With("writer", "nats_core", "subject", conf.Subject)

	opts := []nats.Option{
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				l.Warn("disconnected", "err", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			l.Info("reconnected", "url", nc.ConnectedUrl())
		}),
	}
	if conf.Name != "" {
		opts = append(opts, nats.Name(conf.Name))
	}
	if conf.ReconnectWait > 0 {
		opts = append(opts, nats.ReconnectWait(conf.ReconnectWait))
	}
	if conf.MaxReconnects != 0 {
		opts = append(opts, nats.MaxReconnects(conf.MaxReconnects))
	}

	nc, err := nats.Connect(conf.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats: connect: %w", err)
	}

	return &Writer{
		conf: conf,
		nc:   nc,
		l:    l,
	}, nil
}

// Write settles once the server has processed the message: Publish only
// buffers it, so the round trip of a flush is what the callback waits for.
func (w *Writer) Write(ctx context.Context, msg []byte, callback func(err error)) {
	if err := w.nc.Publish(w.conf.Subject, msg); err != nil {
		callback(err)
		return
	}
	callback(w.Flush(ctx))
}

func (w *Writer) Flush(ctx context.Context) error {
	var err error
	if _, ok := ctx.Deadline(); ok {
		err = w.nc.FlushWithContext(ctx)
	} else {
		err = w.nc.FlushTimeout(w.conf.FlushTimeout)
	}
	if err != nil {
		return fmt.Errorf("nats: flush: %w", err)
	}
	return nil
}

func (w *Writer) Endpoint() string {
	return w.conf.URL + "/" + w.conf.Subject
}

func (w *Writer) Close() error {
	if err := w.nc.Drain(); err != nil {
		w.nc.Close()
		return fmt.Errorf("nats: drain: %w", err)
	}
	return nil
}
