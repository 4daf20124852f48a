package recipient

import (
	"time"
)

// Recipient represents an addressable notification target (email + display name).
// Recipients are never hard-deleted: deactivation removes them from resolution
// without breaking historical delivery references.
type Recipient struct {
	ID        int64
	Name      string
	Email     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
