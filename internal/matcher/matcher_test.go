package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vdobler/htmock/internal/wire"
)

func basicRequest() *Request {
	return &Request{
		Scheme: "http",
		Method: "GET",
		Host:   "127.0.0.1",
		Port:   "8080",
		Path:   "/widgets/42",
		Query:  []wire.KV{{Key: "verbose", Value: "true"}},
		Headers: []wire.KV{
			{Key: "Content-Type", Value: "application/json"},
			{Key: "X-Request-Id", Value: "abc-123"},
		},
		Cookies: []wire.KV{{Key: "session", Value: "xyz"}},
		Body:    []byte(`{"name":"widget","qty":3}`),
	}
}

func TestEvaluateAllEmptyMatchesAnything(t *testing.T) {
	result := Evaluate(basicRequest(), &wire.RequestRequirements{})
	assert.True(t, result.Matches)
	assert.Zero(t, result.Distance)
	assert.Empty(t, result.Mismatches)
}

func TestEvaluatePathPrefix(t *testing.T) {
	rr := &wire.RequestRequirements{Path: wire.StringConstraint{Prefix: "/widgets/"}}
	result := Evaluate(basicRequest(), rr)
	assert.True(t, result.Matches)
}

func TestEvaluateHostLocalhostAlias(t *testing.T) {
	rr := &wire.RequestRequirements{Host: wire.StringConstraint{Equals: "localhost"}}
	result := Evaluate(basicRequest(), rr)
	assert.True(t, result.Matches, "127.0.0.1 and localhost must compare equal")
}

func TestEvaluateMethodCaseInsensitive(t *testing.T) {
	rr := &wire.RequestRequirements{Method: wire.StringConstraint{Equals: "get"}}
	result := Evaluate(basicRequest(), rr)
	assert.True(t, result.Matches)
}

func TestEvaluateHeaderEqualsPresence(t *testing.T) {
	rr := &wire.RequestRequirements{
		Header: []wire.KVConstraint{{
			Key:      wire.StringConstraint{Equals: "content-type"},
			Value:    wire.StringConstraint{Equals: "application/json"},
			Strategy: wire.StrategyPresence,
			Operator: wire.OpAND,
		}},
	}
	result := Evaluate(basicRequest(), rr)
	assert.True(t, result.Matches)
}

func TestEvaluateHeaderNotAbsence(t *testing.T) {
	rr := &wire.RequestRequirements{
		Header: []wire.KVConstraint{{
			Key:      wire.StringConstraint{Equals: "x-request-id"},
			Value:    wire.StringConstraint{Equals: "wrong-value"},
			Strategy: wire.StrategyAbsence,
			Operator: wire.OpNAND,
		}},
	}
	result := Evaluate(basicRequest(), rr)
	assert.True(t, result.Matches, "NAND should pass when the key matches but the value does not")
}

func TestEvaluateHeaderMissingFails(t *testing.T) {
	rr := &wire.RequestRequirements{
		Header: []wire.KVConstraint{{
			Key:      wire.StringConstraint{Equals: "authorization"},
			Strategy: wire.StrategyPresence,
			Operator: wire.OpAND,
		}},
	}
	result := Evaluate(basicRequest(), rr)
	assert.False(t, result.Matches)
	assert.NotZero(t, result.Distance)
	assert.NotEmpty(t, result.Mismatches)
}

func TestEvaluateHeaderExistsIgnoresValue(t *testing.T) {
	rr := &wire.RequestRequirements{
		Header: []wire.KVConstraint{{
			Key:    wire.StringConstraint{Equals: "content-type"},
			Exists: true,
		}},
	}
	result := Evaluate(basicRequest(), rr)
	assert.True(t, result.Matches, "exists must only check the key is present")
}

func TestEvaluateHeaderExistsFailsWhenKeyAbsent(t *testing.T) {
	rr := &wire.RequestRequirements{
		Header: []wire.KVConstraint{{
			Key:    wire.StringConstraint{Equals: "authorization"},
			Exists: true,
		}},
	}
	result := Evaluate(basicRequest(), rr)
	assert.False(t, result.Matches)
}

func TestEvaluateHeaderMissingPassesWhenKeyAbsent(t *testing.T) {
	rr := &wire.RequestRequirements{
		Header: []wire.KVConstraint{{
			Key:     wire.StringConstraint{Equals: "authorization"},
			Missing: true,
		}},
	}
	result := Evaluate(basicRequest(), rr)
	assert.True(t, result.Matches)
}

func TestEvaluateHeaderMissingFailsWhenKeyPresent(t *testing.T) {
	// Without Missing, a bare Presence strategy (the zero value) would
	// match on this key being present — Missing must invert that.
	rr := &wire.RequestRequirements{
		Header: []wire.KVConstraint{{
			Key:     wire.StringConstraint{Equals: "content-type"},
			Missing: true,
		}},
	}
	result := Evaluate(basicRequest(), rr)
	assert.False(t, result.Matches)
}

func TestEvaluateJSONBodyEquals(t *testing.T) {
	rr := &wire.RequestRequirements{JSONBody: []byte(`{"qty":3,"name":"widget"}`)}
	result := Evaluate(basicRequest(), rr)
	assert.True(t, result.Matches, "map key order must not matter")
}

func TestEvaluateJSONBodyIncludes(t *testing.T) {
	rr := &wire.RequestRequirements{JSONBodyIncludes: []byte(`{"name":"widget"}`)}
	result := Evaluate(basicRequest(), rr)
	assert.True(t, result.Matches)
}

func TestEvaluateJSONBodyExcludes(t *testing.T) {
	rr := &wire.RequestRequirements{JSONBodyExcludes: []byte(`{"name":"gadget"}`)}
	result := Evaluate(basicRequest(), rr)
	assert.True(t, result.Matches)
}

func TestEvaluateCountByRegex(t *testing.T) {
	req := basicRequest()
	req.Query = append(req.Query, wire.KV{Key: "tag", Value: "a"}, wire.KV{Key: "tag", Value: "b"})
	rr := &wire.RequestRequirements{
		QueryParam: []wire.KVConstraint{{
			CountByRegex: &wire.CountByRegex{KeyRegex: "^tag$", ValueRegex: ".*", Count: 2},
		}},
	}
	result := Evaluate(req, rr)
	assert.True(t, result.Matches)
}

func TestEvaluateFormField(t *testing.T) {
	req := basicRequest()
	req.Body = []byte("name=widget&qty=3")
	rr := &wire.RequestRequirements{
		FormField: []wire.KVConstraint{{
			Key:      wire.StringConstraint{Equals: "qty"},
			Value:    wire.StringConstraint{Equals: "3"},
			Strategy: wire.StrategyPresence,
			Operator: wire.OpAND,
		}},
	}
	result := Evaluate(req, rr)
	assert.True(t, result.Matches)
}

func TestEvaluateBodyContains(t *testing.T) {
	rr := &wire.RequestRequirements{Body: wire.BodyConstraint{Contains: "widget"}}
	result := Evaluate(basicRequest(), rr)
	assert.True(t, result.Matches)
}

func TestEvaluateDistanceZeroIffMatch(t *testing.T) {
	match := Evaluate(basicRequest(), &wire.RequestRequirements{Path: wire.StringConstraint{Equals: "/widgets/42"}})
	assert.True(t, match.Matches)
	assert.Zero(t, match.Distance)

	miss := Evaluate(basicRequest(), &wire.RequestRequirements{Path: wire.StringConstraint{Equals: "/widgets/43"}})
	assert.False(t, miss.Matches)
	assert.NotZero(t, miss.Distance)
}
