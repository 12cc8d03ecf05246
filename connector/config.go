package connector

import (
	"fmt"
	"log/slog"

	"github.com/ValerySidorin/smppc/connector/impl/amqp091"
	"github.com/ValerySidorin/smppc/connector/impl/amqp10"
	"github.com/ValerySidorin/smppc/connector/impl/kafka"
	"github.com/ValerySidorin/smppc/connector/impl/mqtt"
	"github.com/ValerySidorin/smppc/connector/impl/nats"
	"github.com/ValerySidorin/smppc/connector/impl/nsq"
	redis_pubsub "github.com/ValerySidorin/smppc/connector/impl/redis/pubsub"
	redis_streams "github.com/ValerySidorin/smppc/connector/impl/redis/streams"
	"github.com/ValerySidorin/smppc/connector/protocol"
	"github.com/ValerySidorin/smppc/connector/writer"
)

// WriterConfig selects a broker by Protocol; only the matching section is read.
type WriterConfig struct {
	Protocol     protocol.Protocol          `yaml:"protocol"`
	Kafka        kafka.WriterConfig         `yaml:"kafka"`
	NatsCore     nats.WriterConfig          `yaml:"nats_core"`
	AMQP091      amqp091.WriterConfig       `yaml:"amqp091"`
	AMQP10       amqp10.WriterConfig        `yaml:"amqp10"`
	RedisPubSub  redis_pubsub.WriterConfig  `yaml:"redis_pubsub"`
	RedisStreams redis_streams.WriterConfig `yaml:"redis_streams"`
	MQTT         mqtt.WriterConfig          `yaml:"mqtt"`
	NSQ          nsq.WriterConfig           `yaml:"nsq"`
}

func (c *WriterConfig) brokerConfig() (any, error) {
	switch c.Protocol {
	case protocol.Kafka:
		return c.Kafka, c.Kafka.Validate()
	case protocol.NatsCore:
		return c.NatsCore, c.NatsCore.Validate()
	case protocol.AMQP091:
		return c.AMQP091, c.AMQP091.Validate()
	case protocol.AMQP10:
		return c.AMQP10, c.AMQP10.Validate()
	case protocol.RedisPubSub:
		return c.RedisPubSub, c.RedisPubSub.Validate()
	case protocol.RedisStreams:
		return c.RedisStreams, c.RedisStreams.Validate()
	case protocol.MQTT:
		return c.MQTT, c.MQTT.Validate()
	case protocol.NSQ:
		return c.NSQ, c.NSQ.Validate()
	default:
		return nil, fmt.Errorf("unknown writer protocol: %q", c.Protocol)
	}
}

func (c *WriterConfig) Validate() error {
	if _, err := c.brokerConfig(); err != nil {
		return fmt.Errorf("validate writer config: %s: %w", c.Protocol, err)
	}
	return nil
}

// NewWriter validates conf and builds the writer registered for its protocol.
func NewWriter(conf WriterConfig, l *slog.Logger) (writer.Writer, error) {
	brokerConf, err := conf.brokerConfig()
	if err != nil {
		return nil, fmt.Errorf("validate writer config: %s: %w", conf.Protocol, err)
	}

	return writer.NewWriter(conf.Protocol, brokerConf, l)
}
