package amqp091

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ValerySidorin/smppc/connector/protocol"
	"github.com/ValerySidorin/smppc/connector/util"
	"github.com/ValerySidorin/smppc/connector/writer"
	amqp "github.com/rabbitmq/amqp091-go"
)

func init() {
	writer.RegisterWriterFactory(protocol.AMQP091, func(rawBrokerConfig any, l *slog.Logger) (writer.Writer, error) {
		var typedConfig WriterConfig
		if err := util.ConvertConfig(rawBrokerConfig, &typedConfig); err != nil {
			return nil, fmt.Errorf("amqp091 writer factory: convert config: %w", err)
		}
		return NewWriter(typedConfig, l)
	})
}

type Writer struct {
	conf WriterConfig

	conn *amqp.Connection

	mu sync.Mutex
	ch *amqp.Channel

	l *slog.Logger
}

func NewWriter(conf WriterConfig, l *slog.Logger) (*Writer, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("amqp091: %w", err)
	}

	conn, err := amqp.Dial(conf.URL)
	if err != nil {
		return nil, fmt.Errorf("amqp091: dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp091: open channel: %w", err)
	}

	return &Writer{
		conf: conf,
		conn: conn,
		ch:   ch,
		l:    l.With("writer", "amqp091", "exchange", conf.Exchange, "routing_key", conf.RoutingKey),
	}, nil
}

func (w *Writer) Write(ctx context.Context, msg []byte, callback func(err error)) {
	mode := amqp.Persistent
	if w.conf.Transient {
		mode = amqp.Transient
	}

	w.mu.Lock()
	err := w.ch.PublishWithContext(ctx, w.conf.Exchange, w.conf.RoutingKey, w.conf.Mandatory, false, amqp.Publishing{
		ContentType:  w.conf.ContentType,
		DeliveryMode: mode,
		Body:         msg,
	})
	w.mu.Unlock()

	if err != nil {
		err = fmt.Errorf("amqp091: publish: %w", err)
	}
	callback(err)
}

func (w *Writer) Flush(_ context.Context) error {
	return nil
}

func (w *Writer) Endpoint() string {
	return w.conf.URL + "/" + w.conf.Exchange + "/" + w.conf.RoutingKey
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ch.Close(); err != nil {
		w.l.Error("close channel", "err", err)
	}
	if err := w.conn.Close(); err != nil {
		return fmt.Errorf("amqp091: close connection: %w", err)
	}
	return nil
}
