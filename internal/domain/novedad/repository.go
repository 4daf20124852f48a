package novedad

import (
	"context"
	"time"
)

// Repository defines operations for Novedad and its lookup entities.
type Repository interface {
	// Create inserts a new novedad. The store's UNIQUE constraint on the
	// consecutive number is the authoritative idempotency guard; a duplicate
	// insert fails with ErrDuplicateConsecutive from the implementation.
	Create(ctx context.Context, n *Novedad) error
	GetByID(ctx context.Context, id int64) (*Novedad, error)
	// FilterExistingConsecutives returns the subset of candidates already
	// present in the store.
	FilterExistingConsecutives(ctx context.Context, candidates []string) ([]string, error)
	// ListUnnotified returns novedades not yet picked up by the dispatch job,
	// oldest first.
	ListUnnotified(ctx context.Context, limit int) ([]*Novedad, error)
	MarkNotified(ctx context.Context, id int64, at time.Time) error
	// CountByEventTypeSince aggregates novedad counts per event type name for
	// novedades created at or after the given instant.
	CountByEventTypeSince(ctx context.Context, since time.Time) (map[string]int, error)

	ListEventTypes(ctx context.Context, reportTypeID int64) ([]*EventType, error)
}
