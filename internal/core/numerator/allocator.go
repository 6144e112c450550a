// Package numerator allocates per-owner document numbers.
//
// The allocator is optimistic: it reads the highest issued sequence, formats
// the next number and lets the caller insert it. The store's unique index on
// (owner, doc type, number) is the only synchronization; on collision the
// allocator reads again and retries.
package numerator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"docengine/internal/core/apperror"
	"docengine/internal/core/id"
	"docengine/internal/core/tx"
	"docengine/pkg/logger"
	pkgnum "docengine/pkg/numerator"
)

// MaxAttempts is the number of insert attempts before giving up.
const MaxAttempts = 10

// ErrCollision is returned (wrapped) by an insert whose number is already taken.
var ErrCollision = errors.New("document number already taken")

// Request identifies one number family.
type Request struct {
	OwnerID id.ID
	DocType string
	Config  pkgnum.Config
	Period  time.Time
}

// SequenceSource reports the highest sequence already issued in a family.
type SequenceSource interface {
	// MaxSequence returns 0 when the owner has no number in the family and year.
	MaxSequence(ctx context.Context, req Request) (int64, error)
}

// InsertFunc persists a document under number. It must return an error
// wrapping ErrCollision when the number is already taken.
type InsertFunc func(ctx context.Context, number string) error

// Allocator issues collision-free numbers.
type Allocator struct {
	source      SequenceSource
	txManager   tx.Manager
	now         func() time.Time
	randDigits  func() int
	maxAttempts int
}

// NewAllocator creates an allocator. txManager must open a savepoint on
// nested use so that a collided insert can be retried.
func NewAllocator(source SequenceSource, txManager tx.Manager) *Allocator {
	return &Allocator{
		source:      source,
		txManager:   txManager,
		now:         time.Now,
		randDigits:  func() int { return rand.IntN(9000) + 1000 },
		maxAttempts: MaxAttempts,
	}
}

// WithClock overrides the time source used for the timestamp fallback.
func (a *Allocator) WithClock(now func() time.Time) *Allocator {
	a.now = now
	return a
}

// WithRandom overrides the 4-digit random suffix source.
func (a *Allocator) WithRandom(fn func() int) *Allocator {
	a.randDigits = fn
	return a
}

// Allocate computes candidate numbers and calls insert with each until one
// succeeds. The second-to-last attempt carries a random 4-digit suffix and
// the last one the low 5 digits of the millisecond clock.
func (a *Allocator) Allocate(ctx context.Context, req Request, insert InsertFunc) (string, error) {
	ctx, span := otel.Tracer("numerator").Start(ctx, "numerator.Allocate")
	defer span.End()
	span.SetAttributes(attribute.String("doc_type", req.DocType))

	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		last, err := a.source.MaxSequence(ctx, req)
		if err != nil {
			return "", fmt.Errorf("read max sequence: %w", err)
		}

		number := pkgnum.Format(req.Config, req.Period, last+1, a.suffix(attempt))

		err = a.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			return insert(ctx, number)
		})
		if err == nil {
			span.SetAttributes(attribute.Int("attempts", attempt))
			return number, nil
		}
		if !errors.Is(err, ErrCollision) {
			return "", err
		}

		logger.Debug(ctx, "document number collision",
			"number", number,
			"attempt", attempt)
	}

	logger.Warn(ctx, "document number allocation exhausted",
		"doc_type", req.DocType,
		"attempts", a.maxAttempts)
	return "", apperror.NewNumberAllocationExhausted(req.DocType, a.maxAttempts)
}

func (a *Allocator) suffix(attempt int) string {
	switch attempt {
	case a.maxAttempts:
		return fmt.Sprintf("%05d", a.now().UnixMilli()%100000)
	case a.maxAttempts - 1:
		return fmt.Sprintf("%04d", a.randDigits())
	default:
		return ""
	}
}
