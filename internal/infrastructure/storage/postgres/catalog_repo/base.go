// Package catalog_repo provides PostgreSQL implementations for the
// operator-owned reference data: company profiles, clients, bank accounts
// and templates.
//
// Every statement carries an owner_id predicate taken from the request
// context, so rows of another operator behave as absent.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"docengine/internal/core/apperror"
	"docengine/internal/core/id"
	"docengine/internal/core/tenant"
	"docengine/internal/infrastructure/storage/postgres"
)

// immutableCols are never written by an update.
var immutableCols = []string{"id", "owner_id", "created_at"}

// BaseOwnedRepo provides common CRUD operations for owner-scoped rows.
// Embed this in specific repositories.
type BaseOwnedRepo[T any] struct {
	txm        *postgres.TxManager
	tableName  string
	entityName string
	selectCols []string
	newFn      func() T
}

// NewBaseOwnedRepo creates a base repository. Columns are read from the
// "db" tags of T.
func NewBaseOwnedRepo[T any](
	txm *postgres.TxManager,
	tableName string,
	entityName string,
	newFn func() T,
) *BaseOwnedRepo[T] {
	return &BaseOwnedRepo[T]{
		txm:        txm,
		tableName:  tableName,
		entityName: entityName,
		selectCols: postgres.ExtractDBColumns[T](),
		newFn:      newFn,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseOwnedRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// querier returns the transaction in ctx or the pool.
func (r *BaseOwnedRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// ownerEq is the tenant predicate of every statement.
func ownerEq(ctx context.Context) (squirrel.Eq, error) {
	owner, err := tenant.RequireOwner(ctx)
	if err != nil {
		return nil, err
	}
	return squirrel.Eq{"owner_id": owner}, nil
}

// selectQuery builds an owner-scoped SELECT of all columns.
func (r *BaseOwnedRepo[T]) selectQuery(ctx context.Context) (squirrel.SelectBuilder, error) {
	owner, err := ownerEq(ctx)
	if err != nil {
		return squirrel.SelectBuilder{}, err
	}
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName).
		Where(owner), nil
}

// Insert writes entity using its "db" tags. key names the row in
// duplicate errors.
func (r *BaseOwnedRepo[T]) Insert(ctx context.Context, entity T, key string) error {
	if _, err := tenant.RequireOwner(ctx); err != nil {
		return err
	}
	data := postgres.Pick(postgres.StructToMap(entity), r.selectCols)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in %s", r.entityName)
	}

	sql, args, err := r.Builder().Insert(r.tableName).SetMap(data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, r.entityName, key)
	}
	return nil
}

// UpdateRow rewrites every mutable column of the caller's row entityID.
func (r *BaseOwnedRepo[T]) UpdateRow(ctx context.Context, entity T, entityID id.ID, key string) error {
	owner, err := ownerEq(ctx)
	if err != nil {
		return err
	}
	data := postgres.Pick(postgres.StructToMap(entity), r.selectCols, immutableCols...)

	sql, args, err := r.Builder().
		Update(r.tableName).
		SetMap(data).
		Where(squirrel.Eq{"id": entityID}).
		Where(owner).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, r.entityName, key)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, entityID.String())
	}
	return nil
}

// GetOne returns the caller's row matching where.
func (r *BaseOwnedRepo[T]) GetOne(ctx context.Context, where squirrel.Sqlizer, key string) (T, error) {
	entity := r.newFn()

	q, err := r.selectQuery(ctx)
	if err != nil {
		return entity, err
	}
	sql, args, err := q.Where(where).Limit(1).ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.entityName, key)
		}
		return entity, fmt.Errorf("get %s: %w", r.entityName, err)
	}
	return entity, nil
}

// GetByID retrieves one of the caller's rows by id.
func (r *BaseOwnedRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	return r.GetOne(ctx, squirrel.Eq{"id": entityID}, entityID.String())
}

// SelectAll returns the caller's rows matching where (nil for all) in
// orderBy order.
func (r *BaseOwnedRepo[T]) SelectAll(ctx context.Context, where squirrel.Sqlizer, orderBy ...string) ([]T, error) {
	q, err := r.selectQuery(ctx)
	if err != nil {
		return nil, err
	}
	if where != nil {
		q = q.Where(where)
	}
	sql, args, err := q.OrderBy(orderBy...).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]T, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.entityName, err)
	}
	return items, nil
}

// Exists reports whether the caller has a row matching where.
func (r *BaseOwnedRepo[T]) Exists(ctx context.Context, where squirrel.Sqlizer) (bool, error) {
	owner, err := ownerEq(ctx)
	if err != nil {
		return false, err
	}
	sql, args, err := r.Builder().
		Select("1").
		Prefix("SELECT EXISTS (").
		From(r.tableName).
		Where(owner).
		Where(where).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists bool
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists %s: %w", r.entityName, err)
	}
	return exists, nil
}

// Delete performs physical removal of one of the caller's rows.
func (r *BaseOwnedRepo[T]) Delete(ctx context.Context, entityID id.ID) error {
	owner, err := ownerEq(ctx)
	if err != nil {
		return err
	}
	sql, args, err := r.Builder().
		Delete(r.tableName).
		Where(squirrel.Eq{"id": entityID}).
		Where(owner).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, r.entityName, entityID.String())
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, entityID.String())
	}
	return nil
}

// ClearFlag sets column to false on the caller's rows matching scope,
// except keep.
func (r *BaseOwnedRepo[T]) ClearFlag(ctx context.Context, column string, scope squirrel.Eq, keep id.ID) error {
	owner, err := ownerEq(ctx)
	if err != nil {
		return err
	}
	sql, args, err := r.Builder().
		Update(r.tableName).
		Set(column, false).
		Where(owner).
		Where(scope).
		Where(squirrel.Eq{column: true}).
		Where(squirrel.NotEq{"id": keep}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build clear %s: %w", column, err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("clear %s on %s: %w", column, r.tableName, err)
	}
	return nil
}
