package client

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMockBuilderAccumulatesRequestAndResponse(t *testing.T) {
	def := NewMock().
		Method("GET").
		Path("/widgets").
		Header("Accept", "application/json").
		RespondStatus(200).
		RespondBody(`{"ok":true}`).
		Build()

	require.Equal(t, "GET", def.Request.Method.Equals)
	require.Equal(t, "/widgets", def.Request.Path.Equals)
	require.Len(t, def.Request.Header, 1)
	require.Equal(t, "Accept", def.Request.Header[0].Key.Equals)
	require.Equal(t, 200, def.Response.Status)
	require.Equal(t, `{"ok":true}`, def.Response.Body)
}

func TestMockBuilderRespondJSONSetsContentType(t *testing.T) {
	def := NewMock().RespondJSON(map[string]int{"n": 1}).Build()
	require.JSONEq(t, `{"n":1}`, def.Response.Body)
	require.Equal(t, "Content-Type", def.Response.Headers[0].Name)
}

func TestRequirementsBuilderAccumulates(t *testing.T) {
	rr := NewRequirements().Method("POST").PathPrefix("/api/").Build()
	require.Equal(t, "POST", rr.Method.Equals)
	require.Equal(t, "/api/", rr.Path.Prefix)
}
