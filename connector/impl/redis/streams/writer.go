package streams

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
	writer.RegisterWriterFactory(protocol.RedisStreams, func(rawBrokerConfig any, l *slog.Logger) (writer.Writer, error) {
		var typedConfig WriterConfig
		if err := util.ConvertConfig(rawBrokerConfig, &typedConfig); err != nil {
			return nil, fmt.Errorf("redis_streams writer factory: convert config: %w", err)
		}
		return NewWriter(typedConfig, l)
	})
}

const defaultField = "delivery"

type WriterConfig struct {
	redis.WriterConfig `yaml:",inline"`
	Stream             string `yaml:"stream"`
	Field              string `yaml:"field"`
}

func (c WriterConfig) Validate() error {
	if err := c.WriterConfig.Validate(); err != nil {
		return err
	}

	if c.Stream == "" {
		return cerr.ValidationErr("stream is required")
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
		return nil, fmt.Errorf("redis_streams: %w", err)
	}
	if conf.Field == "" {
		conf.Field = defaultField
	}

	client, err := redis.NewClient(conf.WriterConfig)
	if err != nil {
		return nil, err
	}

	return &Writer{
		conf:   conf,
		client: client,
		b:      redis.NewBatcher(client, conf.WriterConfig),
		l:      l.With("writer", "redis_streams", "stream", conf.Stream),
	}, nil
}

func (w *Writer) Write(_ context.Context, msg []byte, callback func(err error)) {
	cmd := w.client.B().
		Xadd().
		Key(w.conf.Stream).
		Id("*").
		FieldValue().
		FieldValue(w.conf.Field, rueidis.BinaryString(msg)).
		Build()
	w.b.Add(cmd, callback)
}

func (w *Writer) Flush(ctx context.Context) error {
	return w.b.Wait(ctx)
}

func (w *Writer) Endpoint() string {
	return w.conf.Endpoint() + "/" + w.conf.Stream
}

func (w *Writer) Close() error {
	w.b.Close()
	return nil
}
