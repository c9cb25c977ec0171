package pool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/vdobler/htmock/internal/wire"
)

// RemoteAdapter implements Adapter against a live server's control-plane
// protocol over HTTP, for tests that connect to an out-of-process server
// rather than starting one locally.
type RemoteAdapter struct {
	addr   string
	base   string
	client *http.Client
}

// NewRemoteAdapter builds an adapter that talks to the control plane at
// addr (host:port); scheme defaults to "http" when empty.
func NewRemoteAdapter(addr, scheme string, client *http.Client) *RemoteAdapter {
	if scheme == "" {
		scheme = "http"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteAdapter{addr: addr, base: scheme + "://" + addr + "/__httpmock__", client: client}
}

func (a *RemoteAdapter) Address() string { return a.addr }

func (a *RemoteAdapter) do(ctx context.Context, method, path string, body interface{}, out interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.base+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return resp, fmt.Errorf("pool: %s %s: %s: %s", method, path, resp.Status, data)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return resp, err
		}
	}
	return resp, nil
}

func (a *RemoteAdapter) Ping(ctx context.Context) error {
	_, err := a.do(ctx, http.MethodGet, "/ping", nil, nil)
	return err
}

func (a *RemoteAdapter) Reset(ctx context.Context) error {
	_, err := a.do(ctx, http.MethodDelete, "/state", nil, nil)
	return err
}

func (a *RemoteAdapter) DeleteHistory(ctx context.Context) error {
	_, err := a.do(ctx, http.MethodDelete, "/history", nil, nil)
	return err
}

func (a *RemoteAdapter) AddMock(ctx context.Context, def wire.MockDefinition) (*wire.ActiveMock, error) {
	if def.Request.HasPredicates() {
		return nil, &wire.InvalidMockDefinitionError{Reason: "is_true/is_false predicates cannot be sent to a remote server"}
	}
	var mock wire.ActiveMock
	_, err := a.do(ctx, http.MethodPost, "/mocks", def, &mock)
	if err != nil {
		return nil, err
	}
	return &mock, nil
}

func (a *RemoteAdapter) FetchMock(ctx context.Context, id int) (*wire.ActiveMock, bool, error) {
	var mock wire.ActiveMock
	resp, err := a.do(ctx, http.MethodGet, fmt.Sprintf("/mocks/%d", id), nil, &mock)
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &mock, true, nil
}

func (a *RemoteAdapter) DeleteMock(ctx context.Context, id int) error {
	_, err := a.do(ctx, http.MethodDelete, fmt.Sprintf("/mocks/%d", id), nil, nil)
	return err
}

func (a *RemoteAdapter) DeleteAllMocks(ctx context.Context) error {
	_, err := a.do(ctx, http.MethodDelete, "/mocks", nil, nil)
	return err
}

func (a *RemoteAdapter) Verify(ctx context.Context, rr wire.RequestRequirements) (wire.ClosestMatch, bool, error) {
	if rr.HasPredicates() {
		return wire.ClosestMatch{}, false, &wire.InvalidMockDefinitionError{Reason: "is_true/is_false predicates cannot be sent to a remote server"}
	}
	var cm wire.ClosestMatch
	resp, err := a.do(ctx, http.MethodPost, "/verify", rr, &cm)
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return wire.ClosestMatch{}, false, nil
	}
	if err != nil {
		return wire.ClosestMatch{}, false, err
	}
	return cm, true, nil
}

func (a *RemoteAdapter) AddForwardingRule(ctx context.Context, rule wire.ForwardingRuleDef) (*wire.ForwardingRuleDef, error) {
	if rule.Request.HasPredicates() {
		return nil, &wire.InvalidMockDefinitionError{Reason: "is_true/is_false predicates cannot be sent to a remote server"}
	}
	var out wire.ForwardingRuleDef
	_, err := a.do(ctx, http.MethodPost, "/forwarding_rules", rule, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *RemoteAdapter) DeleteForwardingRule(ctx context.Context, id int) error {
	_, err := a.do(ctx, http.MethodDelete, fmt.Sprintf("/forwarding_rules/%d", id), nil, nil)
	return err
}

func (a *RemoteAdapter) AddProxyRule(ctx context.Context, rule wire.ProxyRuleDef) (*wire.ProxyRuleDef, error) {
	if rule.Request.HasPredicates() {
		return nil, &wire.InvalidMockDefinitionError{Reason: "is_true/is_false predicates cannot be sent to a remote server"}
	}
	var out wire.ProxyRuleDef
	_, err := a.do(ctx, http.MethodPost, "/proxy_rules", rule, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *RemoteAdapter) DeleteProxyRule(ctx context.Context, id int) error {
	_, err := a.do(ctx, http.MethodDelete, fmt.Sprintf("/proxy_rules/%d", id), nil, nil)
	return err
}

func (a *RemoteAdapter) AddRecording(ctx context.Context, create wire.RecordingCreate) (wire.Recording, error) {
	if create.Request.HasPredicates() {
		return wire.Recording{}, &wire.InvalidMockDefinitionError{Reason: "is_true/is_false predicates cannot be sent to a remote server"}
	}
	var rec wire.Recording
	_, err := a.do(ctx, http.MethodPost, "/recordings", create, &rec)
	return rec, err
}

func (a *RemoteAdapter) FetchRecording(ctx context.Context, id int) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/recordings/%d", a.base, id), nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (a *RemoteAdapter) DeleteRecording(ctx context.Context, id int) error {
	_, err := a.do(ctx, http.MethodDelete, fmt.Sprintf("/recordings/%d", id), nil, nil)
	return err
}

func (a *RemoteAdapter) Close() error { return nil }
