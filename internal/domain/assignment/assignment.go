package assignment

import (
	"time"
)

// Assignment is a standing rule routing notifications for a
// (puesto, event type) pair to a recipient. Assignments are soft-deletable:
// IsActive=false removes one from resolution while the row survives for
// traceability. Hard delete is still supported for administrative cleanup.
type Assignment struct {
	ID          int64
	PuestoID    int64
	EventTypeID int64
	RecipientID int64
	IsActive    bool
	CreatedAt   time.Time
}
