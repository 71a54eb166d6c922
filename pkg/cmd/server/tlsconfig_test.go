package server

import (
	"context"
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

	"github.com/mpapenbr/fantasyf1-service-go/log"
)

func writeSelfSigned(t *testing.T, dir, cn string) (certFile, keyFile string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: cn},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		DNSNames:     []string{cn},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	keyDer, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certFile = filepath.Join(dir, "tls.crt")
	keyFile = filepath.Join(dir, "tls.key")
	require.NoError(t, os.WriteFile(certFile,
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	require.NoError(t, os.WriteFile(keyFile,
		pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDer}), 0o600))
	return certFile, keyFile
}

func TestNewTLSConfigWithoutCert(t *testing.T) {
	assert.Nil(t, newTLSConfig(context.Background(), "", "", ""))
	assert.Nil(t, newTLSConfig(context.Background(), "/does/not/exist", "/nope", ""))
}

func TestNewTLSConfig(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dir := t.TempDir()
	certFile, keyFile := writeSelfSigned(t, dir, "ff1.local")

	cfg := newTLSConfig(ctx, certFile, keyFile, certFile)
	require.NotNil(t, cfg)
	assert.NotNil(t, cfg.ClientCAs)

	cert, err := cfg.GetCertificate(nil)
	require.NoError(t, err)
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	assert.Equal(t, "ff1.local", leaf.Subject.CommonName)
}

func TestLoadCertKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeSelfSigned(t, dir, "first.local")
	c := &certs{
		ctx:      context.Background(),
		certFile: certFile,
		keyFile:  keyFile,
		log:      log.Default(),
	}
	c.loadCert()
	first := c.current()
	require.NotNil(t, first)

	require.NoError(t, os.WriteFile(certFile, []byte("garbage"), 0o600))
	c.loadCert()
	assert.Same(t, first, c.current())

	writeSelfSigned(t, dir, "second.local")
	c.loadCert()
	leaf, err := x509.ParseCertificate(c.current().Certificate[0])
	require.NoError(t, err)
	assert.Equal(t, "second.local", leaf.Subject.CommonName)
}
