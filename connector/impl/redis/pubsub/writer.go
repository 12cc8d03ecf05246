package pubsub

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ValerySidorin/smppc/connector/cerr"
	"github.com/ValerySidorin/smppc/connector/impl/redis"
	"github.com/ValerySidorin/smppc/connector/protocol"
	"github.com/ValerySidorin/smppc/connector/util"
	"github.com/ValerySidorin/smppc/connector/writer"
	"github.com/redis/rueidis"
)

func init() {
	writer.RegisterWriterFactory(protocol.RedisPubSub, func(rawBrokerConfig any, l *slog.Logger) (writer.Writer, error) {
		var typedConfig WriterConfig
		if err := util.ConvertConfig(rawBrokerConfig, &typedConfig); err != nil {
			return nil, fmt.Errorf("redis_pubsub writer factory: convert config: %w", err)
		}
		return NewWriter(typedConfig, l)
	})
}

type WriterConfig struct {
	redis.WriterConfig `yaml:",inline"`
	Channel            string `yaml:"channel"`
}

func (c WriterConfig) Validate() error {
	if err := c.WriterConfig.Validate(); err != nil {
		return err
	}

	if c.Channel == "" {
		return cerr.ValidationErr("channel is required")
	}

	return nil
}

type Writer struct {
	conf   WriterConfig
	client rueidis.Client
	b      *redis.Batcher
	l      *slog.Logger
}

func NewWriter(conf WriterConfig, l *slog.Logger) (*Writer, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("redis_pubsub: %w", err)
	}

	client, err := redis.NewClient(conf.WriterConfig)
	if err != nil {
		return nil, err
	}

	return &Writer{
		conf:   conf,
		client: client,
		b:      redis.NewBatcher(client, conf.WriterConfig),
		l:      l.With("writer", "redis_pubsub", "channel", conf.Channel),
	}, nil
}

func (w *Writer) Write(_ context.Context, msg []byte, callback func(err error)) {
	cmd := w.client.B().
		Publish().
		Channel(w.conf.Channel).
		Message(rueidis.BinaryString(msg)).
		Build()
	w.b.Add(cmd, callback)
}

func (w *Writer) Flush(ctx context.Context) error {
	return w.b.Wait(ctx)
}

func (w *Writer) Endpoint() string {
	return w.conf.Endpoint() + "/" + w.conf.Channel
}

func (w *Writer) Close() error {
	w.b.Close()
	return nil
}
