package forward

import (
	"errors"
	"fmt"
	"time"

	"github.com/ValerySidorin/smppc/connector"
	"github.com/ValerySidorin/smppc/pdu"
)

const (
	DefaultPoolSize       = 64
	DefaultReleaseTimeout = 5 * time.Second
	DefaultPublishTimeout = 5 * time.Second
)

type PoolConfig struct {
	Size           int           `yaml:"size"`
	ReleaseTimeout time.Duration `yaml:"release_timeout"`
}

type Config struct {
	// An empty writer protocol acknowledges deliveries after logging them.
	Writer         connector.WriterConfig `yaml:"writer"`
	Pool           PoolConfig             `yaml:"pool"`
	PublishTimeout time.Duration          `yaml:"publish_timeout"`
	RejectStatus   pdu.CommandStatus      `yaml:"reject_status"`
}

func (c *Config) SetDefaults() {
	if c.Pool.Size <= 0 {
		c.Pool.Size = DefaultPoolSize
	}
	if c.Pool.ReleaseTimeout <= 0 {
		c.Pool.ReleaseTimeout = DefaultReleaseTimeout
	}
	if c.PublishTimeout <= 0 {
		c.PublishTimeout = DefaultPublishTimeout
	}
	if c.RejectStatus == pdu.StatusOK {
		c.RejectStatus = pdu.StatusRxTAppn
	}
}

func (c *Config) Validate() error {
	if c.Writer.Protocol != "" {
		if err := c.Writer.Validate(); err != nil {
			return fmt.Errorf("forward: %w", err)
		}
	}
	if c.Pool.Size < 0 {
		return errors.New("forward: pool size must not be negative")
	}

	return nil
}
