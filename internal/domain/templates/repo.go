package templates

import (
	"context"

	"docengine/internal/core/id"
	"docengine/internal/domain/doctype"
)

// Repository defines persistence for templates. Every method is scoped to
// the operator in ctx; foreign rows behave as absent.
type Repository interface {
	// Create fails with DuplicateName on a repeated (owner, doc type, name).
	Create(ctx context.Context, t *Template) error

	// Update fails with DuplicateName or NotFound.
	Update(ctx context.Context, t *Template) error

	GetByID(ctx context.Context, templateID id.ID) (*Template, error)

	// Delete removes the template; referencing documents keep a NULL template.
	Delete(ctx context.Context, templateID id.ID) error

	// List returns the templates of docType ordered by id (creation order).
	List(ctx context.Context, docType doctype.Type) ([]*Template, error)

	// ClearDefaults unsets is_default on every template of docType except keep.
	ClearDefaults(ctx context.Context, docType doctype.Type, keep id.ID) error

	// NameExists reports whether a template of docType already uses name.
	NameExists(ctx context.Context, docType doctype.Type, name string) (bool, error)
}

// DocumentBinder re-points documents at a template.
type DocumentBinder interface {
	// BindTemplate sets templateID on every document of docType owned by
	// the operator in ctx and returns the number of documents changed.
	BindTemplate(ctx context.Context, docType doctype.Type, templateID id.ID) (int64, error)
}
