// Package document_repo provides the PostgreSQL implementation of the
// document store shared by every document type.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"docengine/internal/core/apperror"
	"docengine/internal/core/id"
	"docengine/internal/core/tenant"
	"docengine/internal/domain/doctype"
	"docengine/internal/domain/documents"
	"docengine/internal/infrastructure/storage/postgres"
)

const (
	documentsTable = "documents"
	itemsTable     = "document_items"
)

// Columns never written by Update.
var immutableCols = []string{"id", "owner_id", "doc_type", "number", "created_at"}

// DocumentRepo implements documents.Repository and numerator.SequenceSource.
type DocumentRepo struct {
	txm        *postgres.TxManager
	docCols    []string
	itemCols   []string
	maxPerPage uint64
}

// NewDocumentRepo creates a new document repository.
func NewDocumentRepo(txm *postgres.TxManager) *DocumentRepo {
	return &DocumentRepo{
		txm:        txm,
		docCols:    postgres.ExtractDBColumns[documents.Document](),
		itemCols:   postgres.ExtractDBColumns[documents.Item](),
		maxPerPage: documents.PageSize,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *DocumentRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *DocumentRepo) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// scope is the owner and type predicate of every document statement.
func scope(ctx context.Context, docType doctype.Type) (squirrel.Eq, error) {
	owner, err := tenant.RequireOwner(ctx)
	if err != nil {
		return nil, err
	}
	return squirrel.Eq{"owner_id": owner, "doc_type": docType}, nil
}

// Create inserts the header. A taken number wraps numerator.ErrCollision.
func (r *DocumentRepo) Create(ctx context.Context, d *documents.Document) error {
	if _, err := tenant.RequireOwner(ctx); err != nil {
		return err
	}
	data := postgres.Pick(postgres.StructToMap(d), r.docCols)

	sql, args, err := r.Builder().Insert(documentsTable).SetMap(data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "document", d.Number)
	}
	return nil
}

// Update saves header fields.
func (r *DocumentRepo) Update(ctx context.Context, d *documents.Document) error {
	where, err := scope(ctx, d.DocType)
	if err != nil {
		return err
	}
	data := postgres.Pick(postgres.StructToMap(d), r.docCols, immutableCols...)

	sql, args, err := r.Builder().
		Update(documentsTable).
		SetMap(data).
		Where(where).
		Where(squirrel.Eq{"id": d.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "document", d.ID.String())
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(string(d.DocType), d.ID.String())
	}
	return nil
}

func (r *DocumentRepo) get(ctx context.Context, docType doctype.Type, docID id.ID, suffix string) (*documents.Document, error) {
	where, err := scope(ctx, docType)
	if err != nil {
		return nil, err
	}
	q := r.Builder().
		Select(r.docCols...).
		From(documentsTable).
		Where(where).
		Where(squirrel.Eq{"id": docID})
	if suffix != "" {
		q = q.Suffix(suffix)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	d := &documents.Document{}
	if err := pgxscan.Get(ctx, r.querier(ctx), d, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(string(docType), docID.String())
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	d.Items = make([]documents.Item, 0)
	return d, nil
}

// GetByID returns the header of one of the caller's documents.
func (r *DocumentRepo) GetByID(ctx context.Context, docType doctype.Type, docID id.ID) (*documents.Document, error) {
	return r.get(ctx, docType, docID, "")
}

// GetForUpdate loads and row-locks the header.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, docType doctype.Type, docID id.ID) (*documents.Document, error) {
	if r.txm.GetTx(ctx) == nil {
		return nil, fmt.Errorf("GetForUpdate requires transaction context")
	}
	return r.get(ctx, docType, docID, "FOR UPDATE")
}

// Delete removes the document; items go with it by cascade.
func (r *DocumentRepo) Delete(ctx context.Context, docType doctype.Type, docID id.ID) error {
	where, err := scope(ctx, docType)
	if err != nil {
		return err
	}
	sql, args, err := r.Builder().
		Delete(documentsTable).
		Where(where).
		Where(squirrel.Eq{"id": docID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "document", docID.String())
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(string(docType), docID.String())
	}
	return nil
}

// ownedDocument restricts item statements to documents of the caller.
func ownedDocument(ctx context.Context, docID id.ID) (squirrel.Sqlizer, error) {
	owner, err := tenant.RequireOwner(ctx)
	if err != nil {
		return nil, err
	}
	return squirrel.Expr(
		"document_id = ? AND EXISTS (SELECT 1 FROM documents d WHERE d.id = document_id AND d.owner_id = ?)",
		docID, owner,
	), nil
}

// ReplaceItems deletes the current rows and inserts items in one
// transaction, so readers never see an empty collection.
func (r *DocumentRepo) ReplaceItems(ctx context.Context, docID id.ID, items []documents.Item) error {
	owned, err := ownedDocument(ctx, docID)
	if err != nil {
		return err
	}

	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		sql, args, err := r.Builder().Delete(itemsTable).Where(owned).ToSql()
		if err != nil {
			return fmt.Errorf("build delete items: %w", err)
		}
		if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		if len(items) == 0 {
			return nil
		}

		insert := r.Builder().Insert(itemsTable).Columns(r.itemCols...)
		for i := range items {
			items[i].DocumentID = docID
			if id.IsNil(items[i].ID) {
				items[i].ID = id.New()
			}
			row := postgres.StructToMap(&items[i])
			values := make([]any, len(r.itemCols))
			for j, col := range r.itemCols {
				values[j] = row[col]
			}
			insert = insert.Values(values...)
		}
		sql, args, err = insert.ToSql()
		if err != nil {
			return fmt.Errorf("build insert items: %w", err)
		}
		if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert items: %w", err)
		}
		return nil
	})
}

// GetItems returns the document's rows ordered by row_order.
func (r *DocumentRepo) GetItems(ctx context.Context, docID id.ID) ([]documents.Item, error) {
	owned, err := ownedDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	sql, args, err := r.Builder().
		Select(r.itemCols...).
		From(itemsTable).
		Where(owned).
		OrderBy("row_order", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]documents.Item, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return items, nil
}

var _ documents.Repository = (*DocumentRepo)(nil)
