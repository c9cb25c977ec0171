package diffreport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vdobler/htmock/internal/wire"
)

func sampleClosestMatch() wire.ClosestMatch {
	return wire.ClosestMatch{
		Request:  wire.RequestSnapshot{Method: "GET", Path: "/foo"},
		Distance: 3,
		Mismatches: []wire.Mismatch{{
			Matcher: "query_param", Constraint: "equals", Expected: "q=2", Actual: "q=1",
		}},
	}
}

func TestRenderNeverColorHasNoEscapes(t *testing.T) {
	out := Render(sampleClosestMatch(), ModeNever, true)
	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "/foo")
	assert.Contains(t, out, "query_param")
}

func TestRenderAlwaysColorAddsEscapes(t *testing.T) {
	out := Render(sampleClosestMatch(), ModeAlways, false)
	assert.True(t, strings.Contains(out, "\x1b["))
}
