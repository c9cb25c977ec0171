// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package state owns everything a running mock server remembers: active
// mocks, forwarding/proxy rules, recordings and bounded request history. It
// follows vdobler/ht's mock.Mock in keeping a single lock around an
// in-memory struct rather than message-passing between goroutines.
package state

import (
	"sync"
	"time"

	"github.com/vdobler/htmock/internal/log"
	"github.com/vdobler/htmock/internal/matcher"
	"github.com/vdobler/htmock/internal/wire"
)

const defaultHistoryLimit = 100

// historyEntry is one immutable request the server has seen, kept only for
// verify/record lookups.
type historyEntry struct {
	at  time.Time
	req *matcher.Request
}

// recordingState is a live Recording plus everything it has captured so
// far.
type recordingState struct {
	wire.Recording
	captured []wire.RecordedEntry
}

// State is the single-writer store backing one server instance. Every
// exported method takes mu for its whole duration, except Verify and
// ExportRecording, which copy what they need under mu and finish after
// releasing it; none of them perform I/O while holding it.
type State struct {
	mu  sync.Mutex
	log log.Log

	historyLimit int

	nextMockID      int
	nextForwardID   int
	nextProxyID     int
	nextRecordingID int

	mocks      []*wire.ActiveMock
	forwarding []*wire.ForwardingRuleDef
	proxying   []*wire.ProxyRuleDef
	recordings []*recordingState
	history    []historyEntry
}

// New builds an empty State. historyLimit <= 0 falls back to the default
// cap of 100 entries.
func New(historyLimit int, logger log.Log) *State {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	if logger == nil {
		logger = log.Discard
	}
	return &State{historyLimit: historyLimit, log: logger}
}

// Reset clears non-static mocks, history, all rules and all recordings, per
// the reset() contract in §4.3.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteAllMocksLocked()
	s.history = nil
	s.forwarding = nil
	s.proxying = nil
	s.recordings = nil
}
