package client

import (
	"context"

	"docengine/internal/core/id"
)

// Repository defines persistence for clients, scoped to the operator in ctx.
type Repository interface {
	Create(ctx context.Context, c *Client) error
	Update(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, clientID id.ID) (*Client, error)
	Delete(ctx context.Context, clientID id.ID) error

	// List returns clients whose name, email or phone contains search
	// (case-insensitive), ordered by name.
	List(ctx context.Context, search string) ([]*Client, error)
}
