// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package httpclient builds the outbound client used to execute forwarding
// and proxy rules. It deliberately stays on net/http: no retrieved manifest
// pairs a mock/stub server with a third-party HTTP client, and the custom
// transport below is a thin, purpose-specific RoundTripper rather than a
// general client wrapper a library would meaningfully improve on.
package httpclient

import (
	"net"
	"net/http"
	"time"
)

// Options configures the outbound client's timeouts. Zero values fall back
// to generous defaults so an unconfigured client still behaves.
type Options struct {
	DialTimeout   time.Duration
	ReadTimeout   time.Duration
	IdleConnTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.DialTimeout <= 0 {
		o.DialTimeout = 10 * time.Second
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 30 * time.Second
	}
	if o.IdleConnTimeout <= 0 {
		o.IdleConnTimeout = 90 * time.Second
	}
	return o
}

// New builds an *http.Client whose Transport never consults the
// environment's HTTP_PROXY/HTTPS_PROXY variables: a mock server forwarding
// or proxying traffic on a developer or CI machine must not itself be
// routed through whatever proxy that machine happens to have configured.
func New(opts Options) *http.Client {
	opts = opts.withDefaults()
	dialer := &net.Dialer{Timeout: opts.DialTimeout}
	transport := &http.Transport{
		Proxy:                 nil,
		DialContext:           dialer.DialContext,
		IdleConnTimeout:       opts.IdleConnTimeout,
		ResponseHeaderTimeout: opts.ReadTimeout,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{
		Transport: transport,
		// Forwarding/proxy rules replay the upstream response verbatim;
		// the client must not silently follow redirects on their behalf.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
