package amqp10

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Azure/go-amqp"
	"github.com/ValerySidorin/smppc/connector/protocol"
	"github.com/ValerySidorin/smppc/connector/util"
	"github.com/ValerySidorin/smppc/connector/writer"
)

func init() {
	writer.RegisterWriterFactory(protocol.AMQP10, func(rawBrokerConfig any, l *slog.Logger) (writer.Writer, error) {
		var typedConfig WriterConfig
		if err := util.ConvertConfig(rawBrokerConfig, &typedConfig); err != nil {
			return nil, fmt.Errorf("amqp10 writer factory: convert config: %w", err)
		}
		return NewWriter(typedConfig, l)
	})
}

type Writer struct {
	conf WriterConfig

	conn    *amqp.Conn
	session *amqp.Session
	sender  *amqp.Sender

	l *slog.Logger
}

func NewWriter(conf WriterConfig, l *slog.Logger) (*Writer, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("amqp10: %w", err)
	}

	ctx := context.Background()

	conn, err := amqp.Dial(ctx, conf.Conn.Addr, &amqp.ConnOptions{
		ContainerID:  conf.Conn.ContainerID,
		HostName:     conf.Conn.HostName,
		IdleTimeout:  conf.Conn.IdleTimeout,
		MaxFrameSize: conf.Conn.MaxFrameSize,
		WriteTimeout: conf.Conn.WriteTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("amqp10: dial: %w", err)
	}

	session, err := conn.NewSession(ctx, nil)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp10: new session: %w", err)
	}

	sender, err := session.NewSender(ctx, conf.Sender.Target, &amqp.SenderOptions{
		Name: conf.Sender.Name,
	})
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp10: new sender: %w", err)
	}

	return &Writer{
		conf:    conf,
		conn:    conn,
		session: session,
		sender:  sender,
		l:       l.With("writer", "amqp10", "target", conf.Sender.Target),
	}, nil
}

func (w *Writer) Write(ctx context.Context, msg []byte, callback func(err error)) {
	if err := w.sender.Send(ctx, amqp.NewMessage(msg), nil); err != nil {
		callback(fmt.Errorf("amqp10: send: %w", err))
		return
	}
	callback(nil)
}

func (w *Writer) Flush(_ context.Context) error {
	return nil
}

func (w *Writer) Endpoint() string {
	return w.conf.Conn.Addr + "/" + w.conf.Sender.Target
}

func (w *Writer) Close() error {
	ctx := context.Background()
	if err := w.sender.Close(ctx); err != nil {
		w.l.Error("close sender", "err", err)
	}
	if err := w.session.Close(ctx); err != nil {
		w.l.Error("close session", "err", err)
	}
	if err := w.conn.Close(); err != nil {
		return fmt.Errorf("amqp10: close conn: %w", err)
	}
	return nil
}
