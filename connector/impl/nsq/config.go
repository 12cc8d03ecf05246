package nsq

import (
	"time"

	"github.com/ValerySidorin/smppc/connector/cerr"
)

type WriterConfig struct {
	Address      string        `yaml:"address"`
	Topic        string        `yaml:"topic"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

func (c *WriterConfig) Validate() error {
	if c.Address == "" {
		return cerr.ValidationErr("address not defined")
	}
	if c.Topic == "" {
		return cerr.ValidationErr("topic not defined")
	}

	return nil
}
