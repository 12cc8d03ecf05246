package writer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ValerySidorin/smppc/connector/protocol"
)

// Writer publishes forwarded deliveries to a message bus. The callback of
// Write is invoked exactly once when the broker settles the message.
type Writer interface {
	Write(ctx context.Context, msg []byte, callback func(err error))
	Flush(ctx context.Context) error
	Endpoint() string
	Close() error
}

type WriterFactoryFunc func(brokerSpecificConfig any, l *slog.Logger) (Writer, error)

var writerFactories = make(map[protocol.Protocol]WriterFactoryFunc)

func RegisterWriterFactory(p protocol.Protocol, factory WriterFactoryFunc) {
	writerFactories[p] = factory
}

func NewWriter(p protocol.Protocol, brokerConf any, l *slog.Logger) (Writer, error) {
	factory, ok := writerFactories[p]
	if !ok {
		return nil, fmt.Errorf("unsupported writer protocol: %s", p)
	}

	return factory(brokerConf, l)
}
