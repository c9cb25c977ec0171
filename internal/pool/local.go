package pool

import (
	"context"

	"github.com/vdobler/htmock/internal/state"
	"github.com/vdobler/htmock/internal/wire"
)

// LocalAdapter talks to a state manager running in this process directly,
// skipping HTTP and JSON entirely the way an in-process ht.Test talks to a
// mock.Mock's fields straight.
type LocalAdapter struct {
	addr  string
	state *state.State
	close func() error
}

// NewLocalAdapter wraps a state manager and the address its data-plane
// listener is bound to. closeFn tears down that listener; it may be nil.
func NewLocalAdapter(addr string, st *state.State, closeFn func() error) *LocalAdapter {
	return &LocalAdapter{addr: addr, state: st, close: closeFn}
}

func (a *LocalAdapter) Address() string { return a.addr }

func (a *LocalAdapter) Ping(ctx context.Context) error { return nil }

func (a *LocalAdapter) Reset(ctx context.Context) error {
	a.state.Reset()
	return nil
}

func (a *LocalAdapter) DeleteHistory(ctx context.Context) error {
	a.state.DeleteHistory()
	return nil
}

func (a *LocalAdapter) AddMock(ctx context.Context, def wire.MockDefinition) (*wire.ActiveMock, error) {
	return a.state.AddMock(def, false)
}

func (a *LocalAdapter) FetchMock(ctx context.Context, id int) (*wire.ActiveMock, bool, error) {
	m, ok := a.state.FetchMock(id)
	return m, ok, nil
}

func (a *LocalAdapter) DeleteMock(ctx context.Context, id int) error {
	_, err := a.state.DeleteMock(id)
	return err
}

func (a *LocalAdapter) DeleteAllMocks(ctx context.Context) error {
	a.state.DeleteAllMocks()
	return nil
}

func (a *LocalAdapter) Verify(ctx context.Context, rr wire.RequestRequirements) (wire.ClosestMatch, bool, error) {
	cm, found := a.state.Verify(rr)
	return cm, found, nil
}

func (a *LocalAdapter) AddForwardingRule(ctx context.Context, rule wire.ForwardingRuleDef) (*wire.ForwardingRuleDef, error) {
	return a.state.AddForwardingRule(rule), nil
}

func (a *LocalAdapter) DeleteForwardingRule(ctx context.Context, id int) error {
	a.state.DeleteForwardingRule(id)
	return nil
}

func (a *LocalAdapter) AddProxyRule(ctx context.Context, rule wire.ProxyRuleDef) (*wire.ProxyRuleDef, error) {
	return a.state.AddProxyRule(rule), nil
}

func (a *LocalAdapter) DeleteProxyRule(ctx context.Context, id int) error {
	a.state.DeleteProxyRule(id)
	return nil
}

func (a *LocalAdapter) AddRecording(ctx context.Context, create wire.RecordingCreate) (wire.Recording, error) {
	return a.state.AddRecording(create), nil
}

func (a *LocalAdapter) FetchRecording(ctx context.Context, id int) ([]byte, bool, error) {
	return a.state.ExportRecording(id)
}

func (a *LocalAdapter) DeleteRecording(ctx context.Context, id int) error {
	a.state.DeleteRecording(id)
	return nil
}

func (a *LocalAdapter) Close() error {
	if a.close == nil {
		return nil
	}
	return a.close()
}
