package client

import (
	"fmt"
	"time"

	"github.com/ValerySidorin/smppc/pdu"
)

type BindFailurePolicy string

const (
	// BindFailureRetry leaves the session unbound so bind can be retried.
	BindFailureRetry BindFailurePolicy = "retry"
	// BindFailureClose closes the session on a failed bind.
	BindFailureClose BindFailurePolicy = "close"
)

const (
	DefaultEnquireLinkInterval        = 5 * time.Second
	DefaultEnquireLinkResponseTimeout = 2 * time.Second
	DefaultResponseTimeout            = 2 * time.Second
	DefaultWriteDeadline              = 10 * time.Second
)

// Config holds session tunables. Zero values are replaced by defaults,
// negative durations disable the corresponding timer.
type Config struct {
	EnquireLinkInterval          time.Duration     `yaml:"enquire_link_interval"`
	EnquireLinkResponseTimeout   time.Duration     `yaml:"enquire_link_response_timeout"`
	ResponseTimeout              time.Duration     `yaml:"response_timeout"`
	MaxCommandLength             int               `yaml:"max_command_length"`
	WriteDeadline                time.Duration     `yaml:"write_deadline"`
	StrictDecoding               bool              `yaml:"strict_decoding"`
	BindFailure                  BindFailurePolicy `yaml:"bind_failure"`
	ConcurrentKeepalives         bool              `yaml:"concurrent_keepalives"`
	DisableInterfaceVersionCheck bool              `yaml:"disable_interface_version_check"`
}

func (c *Config) ValidateAndSetDefaults() error {
	if c.EnquireLinkInterval == 0 {
		c.EnquireLinkInterval = DefaultEnquireLinkInterval
	}

	if c.EnquireLinkResponseTimeout == 0 {
		c.EnquireLinkResponseTimeout = DefaultEnquireLinkResponseTimeout
	}

	if c.ResponseTimeout == 0 {
		c.ResponseTimeout = DefaultResponseTimeout
	}

	if c.WriteDeadline == 0 {
		c.WriteDeadline = DefaultWriteDeadline
	}

	if c.MaxCommandLength == 0 {
		c.MaxCommandLength = pdu.DefaultMaxCommandLength
	}
	if c.MaxCommandLength < pdu.HeaderLen {
		return fmt.Errorf("%w: max command length %d is below header length", ErrInvalidConfig, c.MaxCommandLength)
	}

	switch c.BindFailure {
	case "":
		c.BindFailure = BindFailureRetry
	case BindFailureRetry, BindFailureClose:
	default:
		return fmt.Errorf("%w: unknown bind failure policy %q", ErrInvalidConfig, c.BindFailure)
	}

	return nil
}

func (c *Config) codec() pdu.Codec {
	return pdu.Codec{
		MaxCommandLength: c.MaxCommandLength,
		Strict:           c.StrictDecoding,
	}
}
