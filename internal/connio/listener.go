// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package connio implements the connection dispatcher: a single TCP accept
// loop that peeks the first bytes of each connection to decide between
// plaintext HTTP and TLS, minting per-SNI leaf certificates for the latter.
package connio

import (
	"bufio"
	"crypto/tls"
	"errors"
	"net"
)

var errNoTLSConfig = errors.New("connio: TLS connection received but HTTPS is not enabled")

// tlsRecordType is the first byte of a TLS handshake record
// (ContentType.handshake = 22); see RFC 8446 §5.1.
const tlsRecordType = 0x16

// peekConn wraps a net.Conn with a buffered reader so the dispatcher can
// look at the first byte without consuming it from whatever reads the
// connection next.
type peekConn struct {
	net.Conn
	r *bufio.Reader
}

func newPeekConn(c net.Conn) *peekConn {
	return &peekConn{Conn: c, r: bufio.NewReader(c)}
}

func (c *peekConn) Read(p []byte) (int, error) { return c.r.Read(p) }

// isTLS peeks the connection's first byte without consuming it.
func (c *peekConn) isTLS() (bool, error) {
	b, err := c.r.Peek(1)
	if err != nil {
		return false, err
	}
	return b[0] == tlsRecordType, nil
}

// Dispatcher accepts connections on an underlying listener and routes each
// one to either a plaintext or a TLS handler based on the first byte seen.
type Dispatcher struct {
	ln        net.Listener
	tlsConfig *tls.Config
}

// NewDispatcher wraps ln. resolver may be nil, in which case HTTPS is off:
// plaintext connections are served and TLS connections are closed.
func NewDispatcher(ln net.Listener, resolver *CertResolver) *Dispatcher {
	d := &Dispatcher{ln: ln}
	if resolver != nil {
		d.tlsConfig = &tls.Config{
			GetCertificate: resolver.GetCertificate,
			NextProtos:     []string{"h2", "http/1.1"},
		}
	}
	return d
}

// Addr returns the address the underlying listener is bound to.
func (d *Dispatcher) Addr() net.Addr { return d.ln.Addr() }

// Close closes the underlying listener.
func (d *Dispatcher) Close() error { return d.ln.Close() }

// Accept returns the next connection, already wrapped in a TLS server
// connection when the peeked bytes looked like a ClientHello. The caller is
// responsible for calling Handshake (or letting the HTTP server do so) and
// for closing the connection. A connection whose first byte cannot be read,
// or a TLS connection while HTTPS is off, is closed and skipped; only an
// error of the underlying listener is returned.
func (d *Dispatcher) Accept() (net.Conn, error) {
	for {
		raw, err := d.ln.Accept()
		if err != nil {
			return nil, err
		}
		pc := newPeekConn(raw)
		isTLS, err := pc.isTLS()
		if err != nil {
			pc.Close()
			continue
		}
		if !isTLS {
			return pc, nil
		}
		if d.tlsConfig == nil {
			pc.Close()
			continue
		}
		return tls.Server(pc, d.tlsConfig), nil
	}
}
