package state

import (
	"github.com/vdobler/htmock/internal/matcher"
	"github.com/vdobler/htmock/internal/wire"
)

// AddForwardingRule inserts a new forwarding rule and assigns its id.
func (s *State) AddForwardingRule(rule wire.ForwardingRuleDef) *wire.ForwardingRuleDef {
	s.mu.Lock()
	defer s.mu.Unlock()
	rule.ID = s.nextForwardID
	s.nextForwardID++
	s.forwarding = append(s.forwarding, &rule)
	cp := rule
	return &cp
}

// DeleteForwardingRule removes the rule with the given id, reporting
// whether it existed.
func (s *State) DeleteForwardingRule(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.forwarding {
		if r.ID == id {
			s.forwarding = append(s.forwarding[:i], s.forwarding[i+1:]...)
			return true
		}
	}
	return false
}

// AddProxyRule inserts a new proxy rule and assigns its id.
func (s *State) AddProxyRule(rule wire.ProxyRuleDef) *wire.ProxyRuleDef {
	s.mu.Lock()
	defer s.mu.Unlock()
	rule.ID = s.nextProxyID
	s.nextProxyID++
	s.proxying = append(s.proxying, &rule)
	cp := rule
	return &cp
}

// DeleteProxyRule removes the rule with the given id, reporting whether it
// existed.
func (s *State) DeleteProxyRule(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.proxying {
		if r.ID == id {
			s.proxying = append(s.proxying[:i], s.proxying[i+1:]...)
			return true
		}
	}
	return false
}

// FindForwardingRule returns the first forwarding rule matching req, in
// insertion order.
func (s *State) FindForwardingRule(req *matcher.Request) (*wire.ForwardingRuleDef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.forwarding {
		if matcher.Evaluate(req, &r.Request).Matches {
			cp := *r
			return &cp, true
		}
	}
	return nil, false
}

// FindProxyRule returns the first proxy rule matching req, in insertion
// order.
func (s *State) FindProxyRule(req *matcher.Request) (*wire.ProxyRuleDef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.proxying {
		if matcher.Evaluate(req, &r.Request).Matches {
			cp := *r
			return &cp, true
		}
	}
	return nil, false
}
