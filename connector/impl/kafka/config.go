package kafka

import (
	"strings"
	"time"

	"github.com/ValerySidorin/smppc/connector/cerr"
)

type WriterConfig struct {
	Brokers                []string      `yaml:"brokers"`
	Topic                  string        `yaml:"topic"`
	Linger                 time.Duration `yaml:"linger"`
	AllowAutoTopicCreation bool          `yaml:"allow_auto_topic_creation"`
	ClientID               string        `yaml:"client_id"`
}

func (c *WriterConfig) Validate() error {
	if len(c.Brokers) <= 0 {
		return cerr.ValidationErr("brokers not defined")
	}
	if c.Topic == "" {
		return cerr.ValidationErr("topic not defined")
	}

	return nil
}

func (c *WriterConfig) endpoint() string {
	return "kafka://" + strings.Join(c.Brokers, ",") + "/" + c.Topic
}
