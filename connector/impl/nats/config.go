package nats

import (
	"time"

	"github.com/ValerySidorin/smppc/connector/cerr"
)

type WriterConfig struct {
	URL           string        `yaml:"url"`
	Subject       string        `yaml:"subject"`
	Name          string        `yaml:"name"`
	ReconnectWait time.Duration `yaml:"reconnect_wait"`
	MaxReconnects int           `yaml:"max_reconnects"`
	// FlushTimeout bounds a flush whose context carries no deadline.
	FlushTimeout time.Duration `yaml:"flush_timeout"`
}

func (c *WriterConfig) SetDefaults() {
	if c.FlushTimeout <= 0 {
		c.FlushTimeout = 5 * time.Second
	}
}

func (c *WriterConfig) Validate() error {
	if c.URL == "" {
		return cerr.ValidationErr("url not defined")
	}
	if c.Subject == "" {
		return cerr.ValidationErr("subject not defined")
	}

	return nil
}
