package tls

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ClientConfig describes how the client authenticates the message center and,
// optionally, itself.
type ClientConfig struct {
	Enabled            bool     `yaml:"enabled"`
	CACertsDir         string   `yaml:"ca_certs_dir"`
	ClientCertPEMPath  string   `yaml:"client_cert_pem_path"`
	ClientKeyPEMPath   string   `yaml:"client_key_pem_path"`
	ServerName         string   `yaml:"server_name"`
	InsecureSkipVerify bool     `yaml:"insecure_skip_verify"`
	NextProtos         []string `yaml:"next_protos"`
}

func (c *ClientConfig) Validate() error {
	if (c.ClientCertPEMPath == "") != (c.ClientKeyPEMPath == "") {
		return errors.New("client cert and key must be specified together")
	}

	return nil
}

// Parse returns nil when TLS is disabled.
func (c *ClientConfig) Parse() (*tls.Config, error) {
	if !c.Enabled {
		return nil, nil
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	conf := &tls.Config{
		ServerName:         c.ServerName,
		InsecureSkipVerify: c.InsecureSkipVerify,
		NextProtos:         c.NextProtos,
		MinVersion:         tls.VersionTLS12,
	}

	if c.CACertsDir != "" {
		rootCAs := x509.NewCertPool()

		entries, err := os.ReadDir(c.CACertsDir)
		if err != nil {
			return nil, fmt.Errorf("read CA certs dir: %w", err)
		}

		for _, certEntry := range entries {
			if certEntry.IsDir() {
				continue
			}
			cert, err := os.ReadFile(filepath.Join(c.CACertsDir, certEntry.Name()))
			if err != nil {
				return nil, fmt.Errorf("read CA cert: %w", err)
			}
			if !rootCAs.AppendCertsFromPEM(cert) {
				return nil, fmt.Errorf("no certificates in %s", certEntry.Name())
			}
		}

		conf.RootCAs = rootCAs
	}

	if c.ClientCertPEMPath != "" {
		cert, err := tls.LoadX509KeyPair(c.ClientCertPEMPath, c.ClientKeyPEMPath)
		if err != nil {
			return nil, fmt.Errorf("load x509 key pair: %w", err)
		}
		conf.Certificates = []tls.Certificate{cert}
	}

	return conf, nil
}
