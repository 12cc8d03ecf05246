package nsq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ValerySidorin/smppc/connector/protocol"
	"github.com/ValerySidorin/smppc/connector/util"
	"github.com/ValerySidorin/smppc/connector/writer"
	"github.com/nsqio/go-nsq"
)

func init() {
	writer.RegisterWriterFactory(protocol.NSQ, func(rawBrokerConfig any, l *slog.Logger) (writer.Writer, error) {
		var typedConfig WriterConfig
		if err := util.ConvertConfig(rawBrokerConfig, &typedConfig); err != nil {
			return nil, fmt.Errorf("nsq writer factory: convert config: %w", err)
		}
		return NewWriter(typedConfig, l)
	})
}

type Writer struct {
	conf WriterConfig
	p    *nsq.Producer
	l    *slog.Logger
}

func NewWriter(conf WriterConfig, l *slog.Logger) (*Writer, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("nsq: %w", err)
	}

	nconf := nsq.NewConfig()
	if conf.DialTimeout > 0 {
		nconf.DialTimeout = conf.DialTimeout
	}
	if conf.WriteTimeout > 0 {
		nconf.WriteTimeout = conf.WriteTimeout
	}

	p, err := nsq.NewProducer(conf.Address, nconf)
	if err != nil {
		return nil, fmt.Errorf("nsq: new producer: %w", err)
	}
	p.SetLoggerLevel(nsq.LogLevelWarning)

	return &Writer{
		conf: conf,
		p:    p,
		l:    l.With("writer", "nsq", "topic", conf.Topic),
	}, nil
}

func (w *Writer) Write(_ context.Context, msg []byte, callback func(err error)) {
	if err := w.p.Publish(w.conf.Topic, msg); err != nil {
		callback(fmt.Errorf("nsq: publish: %w", err))
		return
	}
	callback(nil)
}

func (w *Writer) Flush(_ context.Context) error {
	return nil
}

func (w *Writer) Endpoint() string {
	return w.conf.Address + "/" + w.conf.Topic
}

func (w *Writer) Close() error {
	w.p.Stop()
	return nil
}
