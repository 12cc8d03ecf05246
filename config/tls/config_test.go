package tls

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKeyPair(t *testing.T, dir string) (certPath, keyPath string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "smppc-test"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certPath = filepath.Join(dir, "cert.pem")
	keyPath = filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(certPath, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	require.NoError(t, os.WriteFile(keyPath, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600))
	return certPath, keyPath
}

func TestParseDisabled(t *testing.T) {
	conf, err := (&ClientConfig{}).Parse()
	require.NoError(t, err)
	assert.Nil(t, conf)
}

func TestParseMTLS(t *testing.T) {
	keys := t.TempDir()
	certPath, keyPath := writeKeyPair(t, keys)

	cas := t.TempDir()
	raw, err := os.ReadFile(certPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(cas, "ca.pem"), raw, 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(cas, "nested"), 0o700))

	c := ClientConfig{
		Enabled:           true,
		CACertsDir:        cas,
		ClientCertPEMPath: certPath,
		ClientKeyPEMPath:  keyPath,
		ServerName:        "smsc.example.com",
		NextProtos:        []string{"smpp"},
	}
	conf, err := c.Parse()
	require.NoError(t, err)
	require.NotNil(t, conf)

	assert.Equal(t, "smsc.example.com", conf.ServerName)
	assert.Equal(t, []string{"smpp"}, conf.NextProtos)
	assert.Len(t, conf.Certificates, 1)
	assert.NotNil(t, conf.RootCAs)
	assert.False(t, conf.InsecureSkipVerify)
}

func TestParseErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.pem"), []byte("not a cert"), 0o600))

	tests := []struct {
		name string
		conf ClientConfig
	}{
		{name: "cert without key", conf: ClientConfig{Enabled: true, ClientCertPEMPath: "cert.pem"}},
		{name: "missing ca dir", conf: ClientConfig{Enabled: true, CACertsDir: filepath.Join(dir, "nope")}},
		{name: "junk ca", conf: ClientConfig{Enabled: true, CACertsDir: dir}},
		{name: "missing key pair", conf: ClientConfig{Enabled: true, ClientCertPEMPath: "a.pem", ClientKeyPEMPath: "b.pem"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.conf.Parse()
			assert.Error(t, err)
		})
	}
}
