package amqp10

import (
	"time"

	"github.com/ValerySidorin/smppc/connector/cerr"
)

type ConnConfig struct {
	Addr         string        `yaml:"addr"`
	ContainerID  string        `yaml:"container_id"`
	HostName     string        `yaml:"host_name"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	MaxFrameSize uint32        `yaml:"max_frame_size"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type SenderConfig struct {
	Target string `yaml:"target"`
	Name   string `yaml:"name"`
}

type WriterConfig struct {
	Conn   ConnConfig   `yaml:"conn"`
	Sender SenderConfig `yaml:"sender"`
}

func (c *WriterConfig) Validate() error {
	if c.Conn.Addr == "" {
		return cerr.ValidationErr("conn addr not defined")
	}
	if c.Sender.Target == "" {
		return cerr.ValidationErr("sender target not defined")
	}

	return nil
}
