// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package client gives test code a fluent way to build mock definitions
// and request requirements instead of hand-assembling wire.RequestRequirements
// literals, the way vdobler/ht's mock.Mock is configured as one declarative
// struct — here spread across chained setters so partial requirements read
// naturally at a call site.
package client

import (
	"encoding/json"
	"time"

	"github.com/vdobler/htmock/internal/wire"
)

// MockBuilder accumulates a wire.MockDefinition.
type MockBuilder struct {
	def wire.MockDefinition
}

// NewMock starts an empty mock definition.
func NewMock() *MockBuilder {
	return &MockBuilder{}
}

func (b *MockBuilder) Method(equals string) *MockBuilder {
	b.def.Request.Method = wire.StringConstraint{Equals: equals}
	return b
}

func (b *MockBuilder) Path(equals string) *MockBuilder {
	b.def.Request.Path = wire.StringConstraint{Equals: equals}
	return b
}

func (b *MockBuilder) PathPrefix(prefix string) *MockBuilder {
	b.def.Request.Path = wire.StringConstraint{Prefix: prefix}
	return b
}

func (b *MockBuilder) Host(equals string) *MockBuilder {
	b.def.Request.Host = wire.StringConstraint{Equals: equals}
	return b
}

func (b *MockBuilder) Scheme(equals string) *MockBuilder {
	b.def.Request.Scheme = wire.StringConstraint{Equals: equals}
	return b
}

func (b *MockBuilder) Header(key, value string) *MockBuilder {
	b.def.Request.Header = append(b.def.Request.Header, equalsPair(key, value))
	return b
}

func (b *MockBuilder) Query(key, value string) *MockBuilder {
	b.def.Request.QueryParam = append(b.def.Request.QueryParam, equalsPair(key, value))
	return b
}

func (b *MockBuilder) Cookie(key, value string) *MockBuilder {
	b.def.Request.Cookie = append(b.def.Request.Cookie, equalsPair(key, value))
	return b
}

func (b *MockBuilder) FormField(key, value string) *MockBuilder {
	b.def.Request.FormField = append(b.def.Request.FormField, equalsPair(key, value))
	return b
}

func (b *MockBuilder) Body(equals string) *MockBuilder {
	b.def.Request.Body = wire.BodyConstraint{Equals: equals}
	return b
}

func (b *MockBuilder) JSONBodyIncludes(v interface{}) *MockBuilder {
	raw, err := json.Marshal(v)
	if err != nil {
		panic("client: JSONBodyIncludes: " + err.Error())
	}
	b.def.Request.JSONBodyIncludes = raw
	return b
}

func (b *MockBuilder) RespondStatus(status int) *MockBuilder {
	b.def.Response.Status = status
	return b
}

func (b *MockBuilder) RespondHeader(name, value string) *MockBuilder {
	b.def.Response.Headers = append(b.def.Response.Headers, wire.HeaderField{Name: name, Value: value})
	return b
}

func (b *MockBuilder) RespondBody(body string) *MockBuilder {
	b.def.Response.Body = body
	return b
}

func (b *MockBuilder) RespondJSON(v interface{}) *MockBuilder {
	raw, err := json.Marshal(v)
	if err != nil {
		panic("client: RespondJSON: " + err.Error())
	}
	b.def.Response.Body = string(raw)
	b.def.Response.Headers = append(b.def.Response.Headers, wire.HeaderField{Name: "Content-Type", Value: "application/json"})
	return b
}

func (b *MockBuilder) RespondDelay(d time.Duration) *MockBuilder {
	b.def.Response.DelayMS = d.Milliseconds()
	return b
}

// Build returns the accumulated definition.
func (b *MockBuilder) Build() wire.MockDefinition {
	return b.def
}

func equalsPair(key, value string) wire.KVConstraint {
	return wire.KVConstraint{
		Key:      wire.StringConstraint{Equals: key},
		Value:    wire.StringConstraint{Equals: value},
		Strategy: wire.StrategyPresence,
		Operator: wire.OpAND,
	}
}
