// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pool manages the test-facing lifecycle of running mock servers:
// a bounded set of ready handles, spawned lazily and returned on release,
// following vdobler/ht's scope-local test-server reuse but generalized to
// two adapter kinds (in-process and over-the-wire).
package pool

import (
	"context"

	"github.com/vdobler/htmock/internal/wire"
)

// Adapter is the narrow surface a test-facing handle needs, whether the
// server underneath it lives in this process or across the network.
type Adapter interface {
	Address() string

	Ping(ctx context.Context) error
	Reset(ctx context.Context) error
	DeleteHistory(ctx context.Context) error

	AddMock(ctx context.Context, def wire.MockDefinition) (*wire.ActiveMock, error)
	FetchMock(ctx context.Context, id int) (*wire.ActiveMock, bool, error)
	DeleteMock(ctx context.Context, id int) error
	DeleteAllMocks(ctx context.Context) error

	Verify(ctx context.Context, rr wire.RequestRequirements) (wire.ClosestMatch, bool, error)

	AddForwardingRule(ctx context.Context, rule wire.ForwardingRuleDef) (*wire.ForwardingRuleDef, error)
	DeleteForwardingRule(ctx context.Context, id int) error
	AddProxyRule(ctx context.Context, rule wire.ProxyRuleDef) (*wire.ProxyRuleDef, error)
	DeleteProxyRule(ctx context.Context, id int) error

	AddRecording(ctx context.Context, create wire.RecordingCreate) (wire.Recording, error)
	FetchRecording(ctx context.Context, id int) ([]byte, bool, error)
	DeleteRecording(ctx context.Context, id int) error

	// Close releases any resources the adapter itself owns (e.g. a local
	// server's listener). It does not return the handle to its pool.
	Close() error
}
