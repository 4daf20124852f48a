// internal/domain/novedad/novedad.go
package novedad

import (
	"database/sql"
	"time"
)

// Novedad is a field-reported event tied to a puesto (staffed post) and an
// event type, identified externally by a consecutive number. The consecutive
// number is the sole idempotency key for ingestion: it is externally assigned,
// globally unique and never reused.
type Novedad struct {
	ID          int64
	Consecutive string // 'consecutivo' column; UNIQUE in the store
	PuestoID    int64
	EventTypeID int64
	// NotifiedAt is set once the dispatch job has attempted delivery for this
	// novedad (even when the resolved audience was empty).
	NotifiedAt sql.NullTime
	CreatedAt  time.Time
}

// EventType categorizes novedades. Each type belongs to exactly one ReportType.
type EventType struct {
	ID           int64
	Name         string
	ReportTypeID int64
}

// ReportType groups event types for filtering.
type ReportType struct {
	ID   int64
	Name string
}
