package mqtt

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ValerySidorin/smppc/connector/protocol"
	"github.com/ValerySidorin/smppc/connector/util"
	"github.com/ValerySidorin/smppc/connector/writer"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

func init() {
	writer.RegisterWriterFactory(protocol.MQTT, func(rawBrokerConfig any, l *slog.Logger) (writer.Writer, error) {
		var typedConfig WriterConfig
		if err := util.ConvertConfig(rawBrokerConfig, &typedConfig); err != nil {
			return nil, fmt.Errorf("mqtt writer factory: convert config: %w", err)
		}
		return NewWriter(typedConfig, l)
	})
}

type Writer struct {
	conf WriterConfig
	c    mqtt.Client
	wg   sync.WaitGroup
	l    *slog.Logger
}

func NewWriter(conf WriterConfig, l *slog.Logger) (*Writer, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("mqtt: %w", err)
	}
	conf.SetDefaults()

	l = l.With("writer", "mqtt", "topic", conf.Topic)

	opts := mqtt.NewClientOptions().
		AddBroker(conf.BrokerURL).
		SetClientID(conf.ClientID).
		SetUsername(conf.Username).
		SetPassword(conf.Password).
		SetCleanSession(conf.CleanSession).
		SetKeepAlive(conf.KeepAlive).
		SetConnectTimeout(conf.ConnectTimeout).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			l.Warn("connection lost", "err", err)
		})

	c := mqtt.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(conf.ConnectTimeout) {
		return nil, fmt.Errorf("mqtt: connect: timed out after %s", conf.ConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect: %w", err)
	}

	return &Writer{
		conf: conf,
		c:    c,
		l:    l,
	}, nil
}

func (w *Writer) Write(ctx context.Context, msg []byte, callback func(err error)) {
	w.wg.Add(1)
	token := w.c.Publish(w.conf.Topic, w.conf.QoS, w.conf.Retain, msg)
	go func() {
		defer w.wg.Done()
		select {
		case <-token.Done():
			callback(token.Error())
		case <-ctx.Done():
			callback(ctx.Err())
		}
	}()
}

func (w *Writer) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Writer) Endpoint() string {
	return w.conf.BrokerURL + "/" + w.conf.Topic
}

func (w *Writer) Close() error {
	w.wg.Wait()
	w.c.Disconnect(uint(w.conf.DisconnectWait.Milliseconds()))
	return nil
}
