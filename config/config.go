package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ValerySidorin/smppc/client"
	"github.com/ValerySidorin/smppc/config/tls"
	"github.com/ValerySidorin/smppc/internal/forward"
	"github.com/ValerySidorin/smppc/internal/observability"
	"github.com/ValerySidorin/smppc/pdu"
	"github.com/ValerySidorin/smppc/transport"
)

type BindMode string

const (
	BindTransmitter BindMode = "transmitter"
	BindReceiver    BindMode = "receiver"
	BindTransceiver BindMode = "transceiver"
)

type Config struct {
	Log           LogConfig            `yaml:"log"`
	SMPP          SMPPConfig           `yaml:"smpp"`
	Observability observability.Config `yaml:"observability"`
	Forward       forward.Config       `yaml:"forward"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Type  string `yaml:"type"`
}

type SMPPConfig struct {
	Addr      string                 `yaml:"addr"`
	Transport transport.Config       `yaml:"transport"`
	TLS       tls.ClientConfig       `yaml:"tls"`
	Bind      BindConfig             `yaml:"bind"`
	Client    client.Config          `yaml:"client"`
	Reconnect client.ReconnectConfig `yaml:"reconnect"`
}

type BindConfig struct {
	Mode             BindMode `yaml:"mode"`
	SystemID         string   `yaml:"system_id"`
	Password         string   `yaml:"password"`
	SystemType       string   `yaml:"system_type"`
	InterfaceVersion byte     `yaml:"interface_version"`
	AddrTON          byte     `yaml:"addr_ton"`
	AddrNPI          byte     `yaml:"addr_npi"`
	AddressRange     string   `yaml:"address_range"`
}

func (b BindConfig) Body() pdu.Bind {
	return pdu.Bind{
		SystemID:         b.SystemID,
		Password:         b.Password,
		SystemType:       b.SystemType,
		InterfaceVersion: b.InterfaceVersion,
		AddrTON:          b.AddrTON,
		AddrNPI:          b.AddrNPI,
		AddressRange:     b.AddressRange,
	}
}

func (c *Config) SetDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Type == "" {
		c.Log.Type = "text"
	}

	if c.SMPP.Addr == "" {
		c.SMPP.Addr = "localhost:2775"
	}
	if c.SMPP.Bind.Mode == "" {
		c.SMPP.Bind.Mode = BindTransceiver
	}
	if c.SMPP.Bind.InterfaceVersion == 0 {
		c.SMPP.Bind.InterfaceVersion = pdu.InterfaceVersion34
	}
	c.SMPP.Transport.SetDefaults()

	c.Observability.SetDefaults()
	c.Forward.SetDefaults()
}

func (c *Config) Validate() error {
	switch c.SMPP.Bind.Mode {
	case BindTransmitter, BindReceiver, BindTransceiver:
	default:
		return fmt.Errorf("smpp: bind: unknown mode %q", c.SMPP.Bind.Mode)
	}

	if c.SMPP.Bind.SystemID == "" {
		return errors.New("smpp: bind: system_id not defined")
	}

	switch c.SMPP.Transport.Network {
	case transport.TCP:
	case transport.TLS, transport.QUIC:
		if !c.SMPP.TLS.Enabled {
			return fmt.Errorf("smpp: %s requires tls to be enabled", c.SMPP.Transport.Network)
		}
	default:
		return fmt.Errorf("smpp: unknown network %q", c.SMPP.Transport.Network)
	}

	if err := c.SMPP.TLS.Validate(); err != nil {
		return fmt.Errorf("smpp: tls: %w", err)
	}

	if err := c.SMPP.Client.ValidateAndSetDefaults(); err != nil {
		return fmt.Errorf("smpp: client: %w", err)
	}

	if err := c.SMPP.Reconnect.ValidateAndSetDefaults(); err != nil {
		return fmt.Errorf("smpp: reconnect: %w", err)
	}

	switch strings.ToLower(c.Log.Type) {
	case "text", "json":
	default:
		return fmt.Errorf("log: unknown type %q", c.Log.Type)
	}

	return c.Forward.Validate()
}

// ClientOptions builds the client options for the SMPP section, including
// the parsed TLS settings.
func (c *Config) ClientOptions() ([]client.Option, error) {
	tlsConf, err := c.SMPP.TLS.Parse()
	if err != nil {
		return nil, fmt.Errorf("smpp: tls: %w", err)
	}

	tconf := c.SMPP.Transport
	if tlsConf != nil {
		tconf.TLS = tlsConf
		if tconf.Network == transport.TCP {
			tconf.Network = transport.TLS
		}
	}

	return []client.Option{
		client.WithConfig(c.SMPP.Client),
		client.WithTransport(tconf),
	}, nil
}
