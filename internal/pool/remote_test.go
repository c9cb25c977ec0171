package pool

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vdobler/htmock/internal/wire"
)

func predicateRequirements() wire.RequestRequirements {
	return wire.RequestRequirements{
		IsTrue: []wire.Predicate{func(*http.Request) bool { return true }},
	}
}

func TestRemoteAdapterRejectsPredicatesBeforeMarshaling(t *testing.T) {
	a := NewRemoteAdapter("127.0.0.1:0", "http", nil)

	_, err := a.AddMock(context.Background(), wire.MockDefinition{Request: predicateRequirements()})
	require.Error(t, err)
	var invalid *wire.InvalidMockDefinitionError
	assert.ErrorAs(t, err, &invalid)

	_, _, err = a.Verify(context.Background(), predicateRequirements())
	require.Error(t, err)
	assert.ErrorAs(t, err, &invalid)

	_, err = a.AddForwardingRule(context.Background(), wire.ForwardingRuleDef{Request: predicateRequirements()})
	require.Error(t, err)
	assert.ErrorAs(t, err, &invalid)

	_, err = a.AddProxyRule(context.Background(), wire.ProxyRuleDef{Request: predicateRequirements()})
	require.Error(t, err)
	assert.ErrorAs(t, err, &invalid)

	_, err = a.AddRecording(context.Background(), wire.RecordingCreate{Request: predicateRequirements()})
	require.Error(t, err)
	assert.ErrorAs(t, err, &invalid)
}
