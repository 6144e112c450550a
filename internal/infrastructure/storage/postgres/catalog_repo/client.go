package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"docengine/internal/domain/catalogs/client"
	"docengine/internal/infrastructure/storage/postgres"
)

// ClientRepo implements client.Repository.
type ClientRepo struct {
	*BaseOwnedRepo[*client.Client]
}

// NewClientRepo creates a new client repository.
func NewClientRepo(txm *postgres.TxManager) *ClientRepo {
	return &ClientRepo{
		BaseOwnedRepo: NewBaseOwnedRepo(txm, "clients", "client",
			func() *client.Client { return &client.Client{} }),
	}
}

// Create inserts a client.
func (r *ClientRepo) Create(ctx context.Context, c *client.Client) error {
	return r.Insert(ctx, c, c.Name)
}

// Update saves a client.
func (r *ClientRepo) Update(ctx context.Context, c *client.Client) error {
	return r.UpdateRow(ctx, c, c.ID, c.Name)
}

// List returns clients matching search, ordered by name.
func (r *ClientRepo) List(ctx context.Context, search string) ([]*client.Client, error) {
	return r.SelectAll(ctx, searchClients(search), "name", "id")
}

// searchClients matches name, email or phone case-insensitively.
func searchClients(search string) squirrel.Sqlizer {
	if search == "" {
		return nil
	}
	pattern := "%" + escapeLike(search) + "%"
	return squirrel.Or{
		squirrel.ILike{"name": pattern},
		squirrel.ILike{"email": pattern},
		squirrel.ILike{"phone": pattern},
	}
}

var _ client.Repository = (*ClientRepo)(nil)
