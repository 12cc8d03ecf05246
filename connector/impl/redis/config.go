package redis

import (
	"strings"
	"time"

	"github.com/ValerySidorin/smppc/connector/cerr"
)

type WriterConfig struct {
	InitAddress  []string      `yaml:"init_address"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	DisableCache bool          `yaml:"disable_cache"`
	BatchSize    int           `yaml:"batch_size"`
	Linger       time.Duration `yaml:"linger"`
}

func (c *WriterConfig) SetDefaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = 64
	}
	if c.Linger <= 0 {
		c.Linger = 5 * time.Millisecond
	}
}

func (c WriterConfig) Validate() error {
	if len(c.InitAddress) <= 0 {
		return cerr.ValidationErr("init address not defined")
	}

	return nil
}

func (c WriterConfig) Endpoint() string {
	return "redis://" + strings.Join(c.InitAddress, ",")
}
