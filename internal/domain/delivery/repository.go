package delivery

import (
	"context"
)

// Repository defines the operations for the append-only delivery history.
// There are no update or delete operations: corrections are recorded as
// additional rows.
type Repository interface {
	Create(ctx context.Context, r *Record) error
	// ListByNovedad returns records in chronological order; insertion order
	// (the serial id) breaks timestamp ties.
	ListByNovedad(ctx context.Context, novedadID int64) ([]*Record, error)
}
