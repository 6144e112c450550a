package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"docengine/internal/core/entity"
	"docengine/internal/core/id"
	"docengine/internal/domain/doctype"
	"docengine/internal/domain/documents/waybill"
	"docengine/internal/infrastructure/storage/postgres"
	"docengine/pkg/logger"
)

// DefaultLegacyBatchSize is the number of waybills rewritten per transaction.
const DefaultLegacyBatchSize = 200

// LegacyWaybillMigrator rewrites flat waybill payloads into the sectioned
// layout. It runs across all operators and is meant for the migrate command
// only, never for request handling.
type LegacyWaybillMigrator struct {
	txm       *postgres.TxManager
	batch     *postgres.BatchExecutor
	batchSize uint64
}

// NewLegacyWaybillMigrator creates a migrator; batchSize <= 0 selects the default.
func NewLegacyWaybillMigrator(txm *postgres.TxManager, batchSize int) *LegacyWaybillMigrator {
	if batchSize <= 0 {
		batchSize = DefaultLegacyBatchSize
	}
	return &LegacyWaybillMigrator{
		txm:       txm,
		batch:     postgres.NewBatchExecutor(txm),
		batchSize: uint64(batchSize),
	}
}

type legacyRow struct {
	ID         id.ID             `db:"id"`
	CustomData entity.Attributes `db:"custom_data"`
}

// Run walks every waybill in id order and returns how many were rewritten.
func (m *LegacyWaybillMigrator) Run(ctx context.Context) (int64, error) {
	builder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	var (
		after     id.ID
		rewritten int64
	)
	for {
		q := builder.
			Select("id", "custom_data").
			From(documentsTable).
			Where(squirrel.Eq{"doc_type": doctype.Waybill}).
			OrderBy("id").
			Limit(m.batchSize)
		if !id.IsNil(after) {
			q = q.Where(squirrel.Gt{"id": after})
		}
		sql, args, err := q.ToSql()
		if err != nil {
			return rewritten, fmt.Errorf("build legacy scan: %w", err)
		}

		var rows []legacyRow
		if err := pgxscan.Select(ctx, m.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
			return rewritten, fmt.Errorf("scan waybills: %w", err)
		}
		if len(rows) == 0 {
			return rewritten, nil
		}
		after = rows[len(rows)-1].ID

		var updates []postgres.BatchQuery
		for _, row := range rows {
			migrated, changed := waybill.MigrateLegacy(row.CustomData)
			if !changed {
				continue
			}
			updates = append(updates, postgres.BatchQuery{
				SQL:  `UPDATE documents SET custom_data = $1, updated_at = now() WHERE id = $2`,
				Args: []any{migrated, row.ID},
			})
		}
		if len(updates) == 0 {
			continue
		}

		var n int64
		err = m.txm.RunInTransaction(ctx, func(ctx context.Context) error {
			var err error
			n, err = m.batch.ExecuteBatch(ctx, updates)
			return err
		})
		if err != nil {
			return rewritten, fmt.Errorf("rewrite waybill batch: %w", err)
		}
		rewritten += n
		logger.Info(ctx, "legacy waybill batch migrated",
			"rewritten", len(updates),
			"last_id", after)
	}
}
