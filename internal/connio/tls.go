package connio

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"net"
	"sync"
	"time"
)

// CertResolver mints and caches leaf TLS certificates on demand, one per
// SNI hostname, signed by a single configured CA. No example in the
// retrieved corpus ships a library for ad-hoc leaf minting, so this stays
// on crypto/tls and crypto/x509 directly.
type CertResolver struct {
	ca    *x509.Certificate
	caKey *ecdsa.PrivateKey

	cacheMu sync.RWMutex
	cache   map[string]*tls.Certificate

	mintMu sync.Mutex
	mints  map[string]*sync.Mutex
}

// NewCertResolver parses a PEM-encoded CA certificate and its matching
// ECDSA private key.
func NewCertResolver(caCertPEM, caKeyPEM []byte) (*CertResolver, error) {
	caCert, err := parseCertificatePEM(caCertPEM)
	if err != nil {
		return nil, fmt.Errorf("connio: parsing CA certificate: %w", err)
	}
	caKey, err := parseECPrivateKeyPEM(caKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("connio: parsing CA key: %w", err)
	}
	return &CertResolver{
		ca:    caCert,
		caKey: caKey,
		cache: make(map[string]*tls.Certificate),
		mints: make(map[string]*sync.Mutex),
	}, nil
}

// GetCertificate implements tls.Config.GetCertificate. It extracts the SNI
// name (falling back to the local listener address when absent), serves a
// cached leaf when available, and otherwise mints one, serializing mints
// per-name so concurrent handshakes for the same new hostname do not race.
func (r *CertResolver) GetCertificate(hello *tls.ClientHelloInfo) (*tls.Certificate, error) {
	name := hello.ServerName
	if name == "" {
		name = localName(hello.Conn)
	}

	if cert, ok := r.lookup(name); ok {
		return cert, nil
	}

	lock := r.mintLock(name)
	lock.Lock()
	defer lock.Unlock()

	// Another handshake for the same name may have minted while we waited.
	if cert, ok := r.lookup(name); ok {
		return cert, nil
	}

	cert, err := r.mint(name)
	if err != nil {
		return nil, err
	}
	r.store(name, cert)
	return cert, nil
}

func (r *CertResolver) lookup(name string) (*tls.Certificate, bool) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	cert, ok := r.cache[name]
	return cert, ok
}

func (r *CertResolver) store(name string, cert *tls.Certificate) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	r.cache[name] = cert
}

func (r *CertResolver) mintLock(name string) *sync.Mutex {
	r.mintMu.Lock()
	defer r.mintMu.Unlock()
	lock, ok := r.mints[name]
	if !ok {
		lock = &sync.Mutex{}
		r.mints[name] = lock
	}
	return lock
}

// mint is CPU-bound key generation and certificate signing, never I/O: the
// certificate resolver contract requires it run synchronously during the
// handshake.
func (r *CertResolver) mint(name string) (*tls.Certificate, error) {
	leafKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("connio: generating leaf key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, fmt.Errorf("connio: generating serial: %w", err)
	}

	template := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: name},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * 365 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	if ip := net.ParseIP(name); ip != nil {
		template.IPAddresses = []net.IP{ip}
	} else {
		template.DNSNames = []string{name}
	}

	der, err := x509.CreateCertificate(rand.Reader, template, r.ca, &leafKey.PublicKey, r.caKey)
	if err != nil {
		return nil, fmt.Errorf("connio: signing leaf certificate: %w", err)
	}

	return &tls.Certificate{
		Certificate: [][]byte{der, r.ca.Raw},
		PrivateKey:  leafKey,
		Leaf:        template,
	}, nil
}

func localName(conn net.Conn) string {
	if conn == nil {
		return "localhost"
	}
	host, _, err := net.SplitHostPort(conn.LocalAddr().String())
	if err != nil {
		return conn.LocalAddr().String()
	}
	return host
}
