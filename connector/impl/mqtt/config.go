package mqtt

import (
	"time"

	"github.com/ValerySidorin/smppc/connector/cerr"
)

type WriterConfig struct {
	BrokerURL      string        `yaml:"broker_url"`
	ClientID       string        `yaml:"client_id"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	Topic          string        `yaml:"topic"`
	QoS            byte          `yaml:"qos"`
	Retain         bool          `yaml:"retain"`
	CleanSession   bool          `yaml:"clean_session"`
	KeepAlive      time.Duration `yaml:"keep_alive"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	DisconnectWait time.Duration `yaml:"disconnect_wait"`
}

func (c *WriterConfig) SetDefaults() {
	if c.KeepAlive <= 0 {
		c.KeepAlive = 30 * time.Second
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	if c.DisconnectWait <= 0 {
		c.DisconnectWait = 250 * time.Millisecond
	}
}

func (c *WriterConfig) Validate() error {
	if c.BrokerURL == "" {
		return cerr.ValidationErr("broker url not defined")
	}
	if c.Topic == "" {
		return cerr.ValidationErr("topic not defined")
	}
	if c.QoS > 2 {
		return cerr.ValidationErr("qos must be 0, 1 or 2")
	}

	return nil
}
