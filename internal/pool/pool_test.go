package pool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vdobler/htmock/internal/wire"
)

// fakeAdapter is a minimal Adapter that only counts Reset calls; the
// pool itself never touches any of the other methods.
type fakeAdapter struct {
	addr     string
	resetCnt int
}

func (f *fakeAdapter) Address() string                { return f.addr }
func (f *fakeAdapter) Ping(context.Context) error      { return nil }
func (f *fakeAdapter) Reset(context.Context) error     { f.resetCnt++; return nil }
func (f *fakeAdapter) DeleteHistory(context.Context) error { return nil }

func (f *fakeAdapter) AddMock(context.Context, wire.MockDefinition) (*wire.ActiveMock, error) {
	return nil, nil
}
func (f *fakeAdapter) FetchMock(context.Context, int) (*wire.ActiveMock, bool, error) {
	return nil, false, nil
}
func (f *fakeAdapter) DeleteMock(context.Context, int) error    { return nil }
func (f *fakeAdapter) DeleteAllMocks(context.Context) error     { return nil }
func (f *fakeAdapter) Verify(context.Context, wire.RequestRequirements) (wire.ClosestMatch, bool, error) {
	return wire.ClosestMatch{}, false, nil
}
func (f *fakeAdapter) AddForwardingRule(context.Context, wire.ForwardingRuleDef) (*wire.ForwardingRuleDef, error) {
	return nil, nil
}
func (f *fakeAdapter) DeleteForwardingRule(context.Context, int) error { return nil }
func (f *fakeAdapter) AddProxyRule(context.Context, wire.ProxyRuleDef) (*wire.ProxyRuleDef, error) {
	return nil, nil
}
func (f *fakeAdapter) DeleteProxyRule(context.Context, int) error { return nil }
func (f *fakeAdapter) AddRecording(context.Context, wire.RecordingCreate) (wire.Recording, error) {
	return wire.Recording{}, nil
}
func (f *fakeAdapter) FetchRecording(context.Context, int) ([]byte, bool, error) {
	return nil, false, nil
}
func (f *fakeAdapter) DeleteRecording(context.Context, int) error { return nil }
func (f *fakeAdapter) Close() error                               { return nil }

func TestPoolSpawnsUpToCapacity(t *testing.T) {
	spawned := 0
	p := New(2, func() (Adapter, error) {
		spawned++
		return &fakeAdapter{addr: "local"}, nil
	})

	h1, err := p.Take(context.Background())
	require.NoError(t, err)
	h2, err := p.Take(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, spawned)
	require.NotSame(t, h1, h2)
}

func TestPoolReusesReleasedHandle(t *testing.T) {
	spawned := 0
	p := New(1, func() (Adapter, error) {
		spawned++
		return &fakeAdapter{addr: "local"}, nil
	})

	h1, err := p.Take(context.Background())
	require.NoError(t, err)
	h1.Release()

	h2, err := p.Take(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, spawned, "second Take must reuse the released handle rather than spawn a new one")
	require.Same(t, h1, h2)
}
