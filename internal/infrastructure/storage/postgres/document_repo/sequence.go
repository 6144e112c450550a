package document_repo

import (
	"context"
	"fmt"

	"docengine/internal/core/numerator"
)

// maxSequenceSQL reads the sequence segment that follows the year head
// ("INV-2024-") of every number in the family. Suffixes appended by the
// collision fallback are outside the captured group.
const maxSequenceSQL = `
SELECT COALESCE(MAX(substring(substr(number, length($3::text) + 1) FROM $4::text)::bigint), 0)
FROM documents
WHERE owner_id = $1
  AND doc_type = $2
  AND starts_with(number, $3::text)`

// MaxSequence implements numerator.SequenceSource.
func (r *DocumentRepo) MaxSequence(ctx context.Context, req numerator.Request) (int64, error) {
	head := req.Config.YearHead(req.Period)

	var last int64
	err := r.querier(ctx).QueryRow(ctx, maxSequenceSQL,
		req.OwnerID, req.DocType, head, req.Config.SequencePattern(),
	).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("max sequence for %s: %w", head, err)
	}
	return last, nil
}

var _ numerator.SequenceSource = (*DocumentRepo)(nil)
