package amqp091

import (
	"github.com/ValerySidorin/smppc/connector/cerr"
)

type WriterConfig struct {
	URL         string `yaml:"url"`
	Exchange    string `yaml:"exchange"`
	RoutingKey  string `yaml:"routing_key"`
	ContentType string `yaml:"content_type"`
	Mandatory   bool   `yaml:"mandatory"`
	Transient   bool   `yaml:"transient"`
}

func (c *WriterConfig) Validate() error {
	if c.URL == "" {
		return cerr.ValidationErr("url not defined")
	}
	if c.Exchange == "" && c.RoutingKey == "" {
		return cerr.ValidationErr("exchange or routing key must be defined")
	}

	return nil
}
