package connio

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func generateTestCA(t *testing.T) (certPEM, keyPEM []byte) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "test CA"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	return certPEM, keyPEM
}

func TestCertResolverMintsAndCaches(t *testing.T) {
	certPEM, keyPEM := generateTestCA(t)
	resolver, err := NewCertResolver(certPEM, keyPEM)
	require.NoError(t, err)

	hello := &tls.ClientHelloInfo{ServerName: "example.test"}
	first, err := resolver.GetCertificate(hello)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := resolver.GetCertificate(hello)
	require.NoError(t, err)
	require.Same(t, first, second, "second handshake for the same SNI must reuse the cached certificate")
}

func TestCertResolverDifferentNamesDifferentCerts(t *testing.T) {
	certPEM, keyPEM := generateTestCA(t)
	resolver, err := NewCertResolver(certPEM, keyPEM)
	require.NoError(t, err)

	a, err := resolver.GetCertificate(&tls.ClientHelloInfo{ServerName: "a.test"})
	require.NoError(t, err)
	b, err := resolver.GetCertificate(&tls.ClientHelloInfo{ServerName: "b.test"})
	require.NoError(t, err)
	require.NotSame(t, a, b)
}
