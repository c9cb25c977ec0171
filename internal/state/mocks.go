package state

import (
	"strings"

	"github.com/vdobler/htmock/errorlist"
	"github.com/vdobler/htmock/internal/wire"
)

// AddMock validates and inserts a new mock, returning its assigned,
// monotonically increasing id wrapped in the returned ActiveMock.
func (s *State) AddMock(def wire.MockDefinition, static bool) (*wire.ActiveMock, error) {
	if err := validateMockDefinition(def); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	mock := &wire.ActiveMock{
		ID:         s.nextMockID,
		Definition: def,
		Static:     static,
	}
	s.nextMockID++
	s.mocks = append(s.mocks, mock)
	return copyActiveMock(mock), nil
}

// validateMockDefinition checks every structural invariant a definition
// must satisfy and, unlike a fail-fast validator, collects all violations
// via errorlist so a caller fixing one does not have to resubmit to
// discover the next.
func validateMockDefinition(def wire.MockDefinition) error {
	var el errorlist.List

	method := strings.ToUpper(def.Request.Method.Equals)
	if (method == "GET" || method == "HEAD") && def.Request.Body.Equals != "" {
		el = el.Append(&wire.ValidationError{Reason: "GET and HEAD mocks cannot require a non-empty body"})
	}
	if def.Response.Status < 100 || def.Response.Status > 599 {
		el = el.Append(&wire.ValidationError{Reason: "response status must be a valid HTTP status code"})
	}

	if err := el.AsError(); err != nil {
		return &wire.ValidationError{Reason: err.Error()}
	}
	return nil
}

// FetchMock returns a copy of the mock with the given id, or false when
// none exists.
func (s *State) FetchMock(id int) (*wire.ActiveMock, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.mocks {
		if m.ID == id {
			return copyActiveMock(m), true
		}
	}
	return nil, false
}

// DeleteMock removes the mock with the given id. It fails with
// StaticMockError if the mock exists and is static, and reports whether a
// mock existed at all.
func (s *State) DeleteMock(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.mocks {
		if m.ID != id {
			continue
		}
		if m.Static {
			return false, &wire.StaticMockError{ID: id}
		}
		s.mocks = append(s.mocks[:i], s.mocks[i+1:]...)
		return true, nil
	}
	return false, nil
}

// DeleteAllMocks removes every non-static mock.
func (s *State) DeleteAllMocks() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteAllMocksLocked()
}

func (s *State) deleteAllMocksLocked() {
	kept := s.mocks[:0]
	for _, m := range s.mocks {
		if m.Static {
			kept = append(kept, m)
		}
	}
	s.mocks = kept
}

func copyActiveMock(m *wire.ActiveMock) *wire.ActiveMock {
	cp := *m
	return &cp
}
