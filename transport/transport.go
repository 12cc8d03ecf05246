// Package transport dials the duplex byte streams a session runs on.
package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/quic-go/quic-go"
)

type Network string

const (
	TCP  Network = "tcp"
	TLS  Network = "tls"
	QUIC Network = "quic"
)

const DefaultNextProto = "smpp"

var ErrTLSRequired = errors.New("tls config required")

type Config struct {
	Network     Network       `yaml:"network"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
	KeepAlive   time.Duration `yaml:"keepalive"`
	QUIC        QUICConfig    `yaml:"quic"`

	TLS *tls.Config `yaml:"-"`
}

type QUICConfig struct {
	KeepAlivePeriod      time.Duration `yaml:"keepalive_period"`
	HandshakeIdleTimeout time.Duration `yaml:"handshake_idle_timeout"`
	MaxIdleTimeout       time.Duration `yaml:"max_idle_timeout"`
}

func (c QUICConfig) Parse() *quic.Config {
	return &quic.Config{
		KeepAlivePeriod:      c.KeepAlivePeriod,
		HandshakeIdleTimeout: c.HandshakeIdleTimeout,
		MaxIdleTimeout:       c.MaxIdleTimeout,
	}
}

func (c *Config) SetDefaults() {
	if c.Network == "" {
		c.Network = TCP
	}

	if c.DialTimeout == 0 {
		c.DialTimeout = 10 * time.Second
	}
}

// Stream is an ordered, reliable duplex byte stream.
type Stream interface {
	io.ReadWriteCloser
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

// Dial opens a stream to addr.
func Dial(ctx context.Context, addr string, conf Config) (Stream, error) {
	conf.SetDefaults()

	if conf.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, conf.DialTimeout)
		defer cancel()
	}

	d := &net.Dialer{KeepAlive: conf.KeepAlive}

	switch conf.Network {
	case TCP:
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("tcp: dial: %w", err)
		}
		return conn, nil
	case TLS:
		if conf.TLS == nil {
			return nil, fmt.Errorf("tls: dial: %w", ErrTLSRequired)
		}
		td := &tls.Dialer{NetDialer: d, Config: conf.TLS}
		conn, err := td.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("tls: dial: %w", err)
		}
		return conn, nil
	case QUIC:
		return dialQUIC(ctx, addr, conf)
	}

	return nil, fmt.Errorf("unsupported network: %s", conf.Network)
}

func dialQUIC(ctx context.Context, addr string, conf Config) (Stream, error) {
	if conf.TLS == nil {
		return nil, fmt.Errorf("quic: dial addr: %w", ErrTLSRequired)
	}

	tlsConf := conf.TLS
	if len(tlsConf.NextProtos) == 0 {
		tlsConf = tlsConf.Clone()
		tlsConf.NextProtos = []string{DefaultNextProto}
	}

	conn, err := quic.DialAddr(ctx, addr, tlsConf, conf.QUIC.Parse())
	if err != nil {
		return nil, fmt.Errorf("quic: dial addr: %w", err)
	}

	str, err := conn.OpenStreamSync(ctx)
	if err != nil {
		_ = conn.CloseWithError(0x0, "")
		return nil, fmt.Errorf("quic: open stream: %w", err)
	}

	return &quicStream{
		Stream: str,
		closeConn: func() error {
			return conn.CloseWithError(0x0, "")
		},
	}, nil
}

// quicStream owns the connection its single stream runs on.
type quicStream struct {
	Stream
	closeConn func() error
}

func (s *quicStream) Close() error {
	err := s.Stream.Close()
	if cerr := s.closeConn(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("quic: close: %w", err)
	}
	return nil
}
