package document_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"docengine/internal/core/types"
	"docengine/internal/domain/doctype"
	"docengine/internal/domain/documents"
)

// searchCols are matched by the free-text search.
var searchCols = []string{"number", "client_name", "client_email", "client_phone", "notes", "terms"}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// filterQuery applies the listing filter to an owner-scoped select.
func filterQuery(q squirrel.SelectBuilder, f documents.ListFilter) squirrel.SelectBuilder {
	if f.Search != "" {
		pattern := "%" + likeEscaper.Replace(f.Search) + "%"
		or := make(squirrel.Or, 0, len(searchCols))
		for _, col := range searchCols {
			or = append(or, squirrel.ILike{col: pattern})
		}
		q = q.Where(or)
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": f.Status})
	}
	if f.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *f.DateFrom})
	}
	if f.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *f.DateTo})
	}
	if f.ClientID != nil {
		q = q.Where(squirrel.Eq{"client_id": *f.ClientID})
	}
	if f.TemplateID != nil {
		q = q.Where(squirrel.Eq{"template_id": *f.TemplateID})
	}
	return q
}

// orderBy renders the sort key of a normalized filter. Ties fall back to id.
func orderBy(f documents.ListFilter) string {
	col, desc := f.SortColumn()
	if desc {
		return fmt.Sprintf("%s DESC, id DESC", col)
	}
	return fmt.Sprintf("%s ASC, id ASC", col)
}

// List returns one page plus aggregates computed over the whole filtered
// set. f must already be normalized for docType.
func (r *DocumentRepo) List(ctx context.Context, docType doctype.Type, f documents.ListFilter) (documents.Page, error) {
	var page documents.Page

	where, err := scope(ctx, docType)
	if err != nil {
		return page, err
	}

	base := func(cols ...string) squirrel.SelectBuilder {
		return filterQuery(r.Builder().Select(cols...).From(documentsTable).Where(where), f)
	}

	// Aggregates
	var agg struct {
		Count      int64       `db:"count"`
		GrandTotal types.Money `db:"grand_total"`
		AmountPaid types.Money `db:"amount_paid"`
	}
	sql, args, err := base(
		"COUNT(*) AS count",
		"COALESCE(SUM(grand_total), 0) AS grand_total",
		"COALESCE(SUM(amount_paid), 0) AS amount_paid",
	).ToSql()
	if err != nil {
		return page, fmt.Errorf("build aggregate query: %w", err)
	}
	if err := pgxscan.Get(ctx, r.querier(ctx), &agg, sql, args...); err != nil {
		return page, fmt.Errorf("aggregate documents: %w", err)
	}
	page.Aggregates.Count = agg.Count
	page.Aggregates.GrandTotal = agg.GrandTotal
	page.Aggregates.AmountPaid = &agg.AmountPaid

	// Per-status counts
	if docType == doctype.Quotation || docType == doctype.Waybill {
		var rows []struct {
			Status string `db:"status"`
			Count  int64  `db:"count"`
		}
		sql, args, err := base("status", "COUNT(*) AS count").GroupBy("status").ToSql()
		if err != nil {
			return page, fmt.Errorf("build status query: %w", err)
		}
		if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
			return page, fmt.Errorf("count statuses: %w", err)
		}
		page.Aggregates.StatusCounts = make(map[string]int64, len(rows))
		for _, row := range rows {
			page.Aggregates.StatusCounts[row.Status] = row.Count
		}
	}

	// Page
	sql, args, err = base(r.docCols...).
		OrderBy(orderBy(f)).
		Limit(r.maxPerPage).
		Offset(uint64(f.Offset())).
		ToSql()
	if err != nil {
		return page, fmt.Errorf("build list query: %w", err)
	}
	page.Items = make([]*documents.Document, 0, r.maxPerPage)
	if err := pgxscan.Select(ctx, r.querier(ctx), &page.Items, sql, args...); err != nil {
		return page, fmt.Errorf("list documents: %w", err)
	}
	return page, nil
}
