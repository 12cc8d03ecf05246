package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ValerySidorin/smppc/connector/protocol"
	"github.com/ValerySidorin/smppc/connector/util"
	"github.com/ValerySidorin/smppc/connector/writer"
	"github.com/twmb/franz-go/pkg/kgo"
)

func init() {
	writer.RegisterWriterFactory(protocol.Kafka, func(rawBrokerConfig any, l *slog.Logger) (writer.Writer, error) {
		var typedConfig WriterConfig
		if err := util.ConvertConfig(rawBrokerConfig, &typedConfig); err != nil {
			return nil, fmt.Errorf("kafka writer factory: convert config: %w", err)
		}
		return NewWriter(typedConfig, l)
	})
}

type Writer struct {
	conf WriterConfig
	c    *kgo.Client
	l    *slog.Logger
	wg   sync.WaitGroup
}

func NewWriter(conf WriterConfig, l *slog.Logger) (*Writer, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("kafka: %w", err)
	}

	c, err := kgo.NewClient(kgoOptsFromWriterConf(conf)...)
	if err != nil {
		return nil, fmt.Errorf("kafka: new client: %w", err)
	}

	return &Writer{
		conf: conf,
		c:    c,
		l:    l.With("writer", "kafka", "topic", conf.Topic),
	}, nil
}

func (w *Writer) Write(ctx context.Context, msg []byte, callback func(err error)) {
	w.wg.Add(1)
	w.c.Produce(ctx, &kgo.Record{
		Topic: w.conf.Topic,
		Value: msg,
	}, func(_ *kgo.Record, err error) {
		callback(err)
		w.wg.Done()
	})
}

func (w *Writer) Flush(ctx context.Context) error {
	if err := w.c.Flush(ctx); err != nil {
		return fmt.Errorf("kafka: flush: %w", err)
	}
	w.wg.Wait()
	return nil
}

func (w *Writer) Endpoint() string {
	return w.conf.endpoint()
}

func (w *Writer) Close() error {
	w.wg.Wait()
	w.c.Close()
	return nil
}
