package state

import (
	"github.com/vdobler/htmock/internal/matcher"
	"github.com/vdobler/htmock/internal/wire"
)

// ServeMock records req in history and returns the first matching mock's
// response, incrementing that mock's call counter. The bool result is
// false when no mock matched.
func (s *State) ServeMock(req *matcher.Request) (wire.MockResponseDef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appendHistoryLocked(req)

	for _, m := range s.mocks {
		result := matcher.Evaluate(req, &m.Definition.Request)
		if result.Matches {
			m.CallCount++
			return m.Definition.Response, true
		}
	}
	return wire.MockResponseDef{}, false
}
