package state

import (
	"github.com/vdobler/htmock/internal/matcher"
	"github.com/vdobler/htmock/internal/wire"
)

// Verify scans history for entries that do NOT satisfy rr and returns the
// one with the lowest distance, together with its mismatches. The bool
// result is false when every history entry already matches rr (nothing to
// report) or history is empty.
func (s *State) Verify(rr wire.RequestRequirements) (wire.ClosestMatch, bool) {
	s.mu.Lock()
	entries := s.historySnapshotLocked()
	s.mu.Unlock()

	var best *wire.ClosestMatch
	for _, h := range entries {
		result := matcher.Evaluate(h.req, &rr)
		if result.Matches {
			continue
		}
		cm := wire.ClosestMatch{
			Request:    snapshot(h),
			Distance:   result.Distance,
			Mismatches: result.Mismatches,
		}
		if best == nil || cm.Distance < best.Distance {
			best = &cm
		}
	}
	if best == nil {
		return wire.ClosestMatch{}, false
	}
	return *best, true
}

func snapshot(h historyEntry) wire.RequestSnapshot {
	req := h.req
	return wire.RequestSnapshot{
		Timestamp: h.at,
		Method:    req.Method,
		Scheme:    req.Scheme,
		Host:      req.Host,
		Port:      req.Port,
		Path:      req.Path,
		Query:     req.Query,
		Headers:   req.Headers,
		Cookies:   req.Cookies,
		Body:      string(req.Body),
	}
}
