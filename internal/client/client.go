package client

import (
	"context"
	"fmt"

	"github.com/vdobler/htmock/internal/pool"
	"github.com/vdobler/htmock/internal/wire"
)

// Client is the test-facing handle to one running server: a thin,
// typed wrapper over a pool.Adapter so test code never constructs wire
// types by hand.
type Client struct {
	Adapter pool.Adapter
}

// New wraps an already-borrowed adapter (typically a *pool.Handle).
func New(a pool.Adapter) *Client {
	return &Client{Adapter: a}
}

// AddMock submits b's accumulated definition and returns the stored mock,
// which carries the assigned id.
func (c *Client) AddMock(ctx context.Context, b *MockBuilder) (*wire.ActiveMock, error) {
	return c.Adapter.AddMock(ctx, b.Build())
}

// Verify checks that every request history entry satisfies b's accumulated
// requirements, returning an error describing the closest counterexample
// when it does not.
func (c *Client) Verify(ctx context.Context, b *RequirementsBuilder) error {
	cm, found, err := c.Adapter.Verify(ctx, b.Build())
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	return fmt.Errorf("client: a request in history did not satisfy the requirements (closest distance %d)", cm.Distance)
}

// Reset clears the server's non-static mocks, history, rules and recordings.
func (c *Client) Reset(ctx context.Context) error {
	return c.Adapter.Reset(ctx)
}
