package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vdobler/htmock/internal/matcher"
	"github.com/vdobler/htmock/internal/wire"
)

func mockDef(path string, status int) wire.MockDefinition {
	return wire.MockDefinition{
		Request:  wire.RequestRequirements{Path: wire.StringConstraint{Equals: path}},
		Response: wire.MockResponseDef{Status: status},
	}
}

func TestAddMockAssignsMonotonicIDs(t *testing.T) {
	s := New(0, nil)
	m0, err := s.AddMock(mockDef("/hello", 202), false)
	require.NoError(t, err)
	assert.Equal(t, 0, m0.ID)

	m1, err := s.AddMock(mockDef("/world", 200), false)
	require.NoError(t, err)
	assert.Equal(t, 1, m1.ID)
}

func TestAddMockRejectsGetWithBody(t *testing.T) {
	s := New(0, nil)
	def := wire.MockDefinition{
		Request:  wire.RequestRequirements{Method: wire.StringConstraint{Equals: "GET"}, Body: wire.BodyConstraint{Equals: "x"}},
		Response: wire.MockResponseDef{Status: 200},
	}
	_, err := s.AddMock(def, false)
	require.Error(t, err)
	var verr *wire.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestServeMockCountsHits(t *testing.T) {
	s := New(0, nil)
	_, err := s.AddMock(mockDef("/hits", 200), false)
	require.NoError(t, err)

	req := &matcher.Request{Method: "GET", Path: "/hits"}
	_, ok := s.ServeMock(req)
	assert.True(t, ok)
	_, ok = s.ServeMock(req)
	assert.True(t, ok)

	fetched, ok := s.FetchMock(0)
	require.True(t, ok)
	assert.Equal(t, 2, fetched.CallCount)
}

func TestDeleteStaticMockFails(t *testing.T) {
	s := New(0, nil)
	m, err := s.AddMock(mockDef("/static", 200), true)
	require.NoError(t, err)

	_, err = s.DeleteMock(m.ID)
	require.Error(t, err)
	var serr *wire.StaticMockError
	assert.ErrorAs(t, err, &serr)
}

func TestResetClearsEverythingButStaticMocks(t *testing.T) {
	s := New(0, nil)
	_, _ = s.AddMock(mockDef("/a", 200), false)
	static, _ := s.AddMock(mockDef("/b", 200), true)
	s.AddForwardingRule(wire.ForwardingRuleDef{TargetBaseURL: "http://upstream"})
	s.AddRecording(wire.RecordingCreate{})
	s.ServeMock(&matcher.Request{Method: "GET", Path: "/a"})

	s.Reset()

	_, ok := s.FetchMock(static.ID)
	assert.True(t, ok, "static mock must survive reset")

	_, err := s.DeleteMock(static.ID)
	require.Error(t, err)

	_, found := s.Verify(wire.RequestRequirements{})
	assert.False(t, found, "history must be empty after reset")
}

func TestHistoryLimitDropsOldest(t *testing.T) {
	s := New(2, nil)
	s.ServeMock(&matcher.Request{Method: "GET", Path: "/1"})
	s.ServeMock(&matcher.Request{Method: "GET", Path: "/2"})
	s.ServeMock(&matcher.Request{Method: "GET", Path: "/3"})

	cm, found := s.Verify(wire.RequestRequirements{Path: wire.StringConstraint{Equals: "/nope"}})
	require.True(t, found)
	assert.NotEqual(t, "/1", cm.Request.Path, "oldest entry should have been dropped")
}

func TestVerifyReturnsAbsentWhenEverythingMatches(t *testing.T) {
	s := New(0, nil)
	s.ServeMock(&matcher.Request{Method: "GET", Path: "/ok"})
	_, found := s.Verify(wire.RequestRequirements{Path: wire.StringConstraint{Equals: "/ok"}})
	assert.False(t, found)
}

func TestRecordCapturesMatchingRequest(t *testing.T) {
	s := New(0, nil)
	s.AddRecording(wire.RecordingCreate{Request: wire.RequestRequirements{Path: wire.StringConstraint{Prefix: "/api"}}})

	req := &matcher.Request{Method: "GET", Scheme: "http", Host: "upstream.test", Port: "80", Path: "/api/x"}
	s.Record(true, 5*time.Millisecond, req, wire.MockResponseDef{Status: 200})

	data, ok, err := s.ExportRecording(0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(data), "/api/x")
}

func TestLoadMocksFromRecordingRejectsEmpty(t *testing.T) {
	s := New(0, nil)
	_, err := s.LoadMocksFromRecording(nil)
	require.Error(t, err)
}
