package documents

import (
	"context"

	"docengine/internal/core/id"
	"docengine/internal/domain/doctype"
)

// Repository defines persistence for documents and their items. Every
// method is scoped to the operator in ctx; foreign rows behave as absent.
type Repository interface {
	// Create inserts the header. A taken number yields an error wrapping
	// numerator.ErrCollision.
	Create(ctx context.Context, d *Document) error

	// Update saves header fields. Number and owner are never written.
	Update(ctx context.Context, d *Document) error

	GetByID(ctx context.Context, docType doctype.Type, docID id.ID) (*Document, error)

	// GetForUpdate loads and row-locks the header inside a transaction.
	GetForUpdate(ctx context.Context, docType doctype.Type, docID id.ID) (*Document, error)

	// Delete removes the document and its items.
	Delete(ctx context.Context, docType doctype.Type, docID id.ID) error

	// ReplaceItems swaps the item collection of a document.
	ReplaceItems(ctx context.Context, docID id.ID, items []Item) error

	// GetItems returns items ordered by row_order.
	GetItems(ctx context.Context, docID id.ID) ([]Item, error)

	// List returns one page plus aggregates over the full filtered set.
	List(ctx context.Context, docType doctype.Type, filter ListFilter) (Page, error)
}
