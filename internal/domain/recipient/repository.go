package recipient

import (
	"context"
)

// Repository defines the operations for persisting and retrieving Recipient entities.
type Repository interface {
	Create(ctx context.Context, r *Recipient) error
	GetByID(ctx context.Context, id int64) (*Recipient, error)
	// SearchByEmail performs a case-insensitive substring match over active
	// recipients, ordered lexically by email, returning at most limit rows.
	SearchByEmail(ctx context.Context, fragment string, limit int) ([]*Recipient, error)
	// ExistsActiveEmail checks for an exact email match among active recipients.
	ExistsActiveEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, r *Recipient) error // Handles Name, Email, IsActive updates
	ListActive(ctx context.Context) ([]*Recipient, error)
}
