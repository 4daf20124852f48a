package assignment

import (
	"context"
)

// Repository defines the operations for persisting and retrieving Assignment entities.
type Repository interface {
	// Create inserts a new active assignment. The same
	// (puesto, event type, recipient) triple must not be active twice; the
	// implementation maps the store constraint to ErrDuplicateAssignment.
	Create(ctx context.Context, a *Assignment) error
	// List returns assignments, optionally filtered by puesto (puestoID > 0).
	List(ctx context.Context, puestoID int64) ([]*Assignment, error)
	// ListActiveFor returns the active assignments matching a
	// (puesto, event type) pair.
	ListActiveFor(ctx context.Context, puestoID, eventTypeID int64) ([]*Assignment, error)
	// Delete hard-deletes an assignment, returning ErrAssignmentNotFound when
	// no row matched so callers can distinguish "already gone" from success.
	Delete(ctx context.Context, id int64) error
}
