package state

import (
	"time"

	"github.com/vdobler/htmock/internal/matcher"
)

// appendHistoryLocked records req, dropping the oldest entry first when
// already at capacity. Must be called with mu held.
func (s *State) appendHistoryLocked(req *matcher.Request) {
	if len(s.history) >= s.historyLimit {
		s.history = s.history[1:]
	}
	s.history = append(s.history, historyEntry{at: time.Now(), req: req})
}

// DeleteHistory drops every recorded history entry.
func (s *State) DeleteHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

// historySnapshotLocked returns a new slice holding copies of the history
// entries. The
// entries themselves (and the Request values they point to) are immutable
// once appended, so sharing the pointers past the lock's scope is safe.
func (s *State) historySnapshotLocked() []historyEntry {
	return append([]historyEntry(nil), s.history...)
}
