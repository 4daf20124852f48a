// internal/domain/delivery/record.go
package delivery

import (
	"time"
)

// Outcome is the terminal result of one notification dispatch attempt.
type Outcome string

const (
	OutcomeSent   Outcome = "SENT"
	OutcomeFailed Outcome = "FAILED"
	// OutcomeRetrySent marks a successful re-send after an earlier FAILED
	// record. History is append-only, so corrections are additive rather than
	// mutations of prior rows.
	OutcomeRetrySent Outcome = "RETRY_SENT"
)

// Record is an append-only log entry of one notification dispatch attempt.
// Records are never mutated after creation.
type Record struct {
	ID          int64
	NovedadID   int64
	RecipientID int64
	Outcome     Outcome
	SentAt      time.Time
}
