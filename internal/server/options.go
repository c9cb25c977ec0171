// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package server composes the state manager, HTTP engine and connection
// dispatcher into one running mock server, the way vdobler/ht's mock.Mock
// composed a router and a listener, generalized to also carry HTTPS. A
// Server hands out a pool.LocalAdapter for itself via Adapter; it does not
// build a pool.
package server

import (
	"fmt"
	"os"
)

// Options are the start-time parameters of one server instance, per §6
// "Server start options".
type Options struct {
	// Port to listen on; 0 asks the OS for a free port.
	Port int
	// Expose binds 0.0.0.0 instead of 127.0.0.1.
	Expose bool

	// HTTPS turns on the TLS-sniffing connection dispatcher and dynamic
	// per-SNI certificate minting. CACertPEM/CAKeyPEM take precedence
	// over CACertPath/CAKeyPath when non-empty.
	HTTPS      bool
	CACertPEM  []byte
	CAKeyPEM   []byte
	CACertPath string
	CAKeyPath  string

	// HistoryLimit bounds the FIFO request history; <= 0 falls back to
	// the state package's default.
	HistoryLimit int

	// StaticMocksDir, if non-empty, is walked at start for static mock
	// definitions (internal/loader).
	StaticMocksDir string
}

func (o Options) bindHost() string {
	if o.Expose {
		return "0.0.0.0"
	}
	return "127.0.0.1"
}

// loadCA resolves the CA certificate/key pair, preferring inline PEM bytes
// over paths when both are set.
func (o Options) loadCA() (certPEM, keyPEM []byte, err error) {
	certPEM, keyPEM = o.CACertPEM, o.CAKeyPEM
	if len(certPEM) == 0 {
		if o.CACertPath == "" {
			return nil, nil, fmt.Errorf("server: HTTPS enabled but no CA certificate given")
		}
		certPEM, err = os.ReadFile(o.CACertPath)
		if err != nil {
			return nil, nil, err
		}
	}
	if len(keyPEM) == 0 {
		if o.CAKeyPath == "" {
			return nil, nil, fmt.Errorf("server: HTTPS enabled but no CA private key given")
		}
		keyPEM, err = os.ReadFile(o.CAKeyPath)
		if err != nil {
			return nil, nil, err
		}
	}
	return certPEM, keyPEM, nil
}
