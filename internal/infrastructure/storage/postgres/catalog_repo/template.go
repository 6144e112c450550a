package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"docengine/internal/core/id"
	"docengine/internal/domain/doctype"
	"docengine/internal/domain/templates"
	"docengine/internal/infrastructure/storage/postgres"
)

// TemplateRepo implements templates.Repository and templates.DocumentBinder.
type TemplateRepo struct {
	*BaseOwnedRepo[*templates.Template]
}

// NewTemplateRepo creates a new template repository.
func NewTemplateRepo(txm *postgres.TxManager) *TemplateRepo {
	return &TemplateRepo{
		BaseOwnedRepo: NewBaseOwnedRepo(txm, "templates", "template",
			func() *templates.Template { return &templates.Template{} }),
	}
}

// Create inserts a template; a repeated name maps to DuplicateName.
func (r *TemplateRepo) Create(ctx context.Context, t *templates.Template) error {
	return r.Insert(ctx, t, t.Name)
}

// Update saves a template.
func (r *TemplateRepo) Update(ctx context.Context, t *templates.Template) error {
	return r.UpdateRow(ctx, t, t.ID, t.Name)
}

// List returns the templates of docType in creation order.
func (r *TemplateRepo) List(ctx context.Context, docType doctype.Type) ([]*templates.Template, error) {
	return r.SelectAll(ctx, squirrel.Eq{"doc_type": docType}, "id")
}

// ClearDefaults unsets is_default on the other templates of docType.
func (r *TemplateRepo) ClearDefaults(ctx context.Context, docType doctype.Type, keep id.ID) error {
	return r.ClearFlag(ctx, "is_default", squirrel.Eq{"doc_type": docType}, keep)
}

// NameExists reports whether name is taken within docType.
func (r *TemplateRepo) NameExists(ctx context.Context, docType doctype.Type, name string) (bool, error) {
	return r.Exists(ctx, squirrel.Eq{"doc_type": docType, "name": name})
}

// BindTemplate points every document of docType at templateID.
func (r *TemplateRepo) BindTemplate(ctx context.Context, docType doctype.Type, templateID id.ID) (int64, error) {
	owner, err := ownerEq(ctx)
	if err != nil {
		return 0, err
	}
	sql, args, err := r.Builder().
		Update("documents").
		Set("template_id", templateID).
		Set("updated_at", squirrel.Expr("now()")).
		Where(owner).
		Where(squirrel.Eq{"doc_type": docType}).
		Where("template_id IS DISTINCT FROM ?", templateID).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build bind template: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("bind template: %w", err)
	}
	return result.RowsAffected(), nil
}

var (
	_ templates.Repository     = (*TemplateRepo)(nil)
	_ templates.DocumentBinder = (*TemplateRepo)(nil)
)
