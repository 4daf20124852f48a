package app

import (
	"context"
	"fmt"
	"strings"

	"novedad_notification_service/internal/domain/recipient"
	idb "novedad_notification_service/internal/infra/database"
)

// Custom application-level errors for the recipient directory
var ErrEmailTaken = fmt.Errorf("an active recipient with this email already exists")
var ErrRecipientAlreadyInactive = fmt.Errorf("recipient is already inactive")

// maxSearchResults bounds substring searches to protect against unbounded scans.
const maxSearchResults = 10

// RecipientService implements the recipient directory: creation, bounded
// search, existence checks and soft deactivation.
type RecipientService struct {
	recipientRepo recipient.Repository
}

func NewRecipientService(rr recipient.Repository) *RecipientService {
	return &RecipientService{recipientRepo: rr}
}

// CreateRecipient registers a new active recipient. Duplicate active emails
// are rejected, consistent with the verify/search semantics.
func (s *RecipientService) CreateRecipient(ctx context.Context, name, email string) (*recipient.Recipient, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	exists, err := s.recipientRepo.ExistsActiveEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing recipient email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	newRecipient := &recipient.Recipient{
		Name:     name,
		Email:    email,
		IsActive: true, // New recipients are active by default
	}
	if err := s.recipientRepo.Create(ctx, newRecipient); err != nil {
		// The partial unique index closes the race between the existence check
		// and the insert.
		if err == idb.ErrDuplicateRecipientEmail {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create recipient in repository: %w", err)
	}
	return newRecipient, nil
}

// Search performs a bounded, case-insensitive substring match over active
// recipients, ordered lexically by email.
func (s *RecipientService) Search(ctx context.Context, fragment string) ([]*recipient.Recipient, error) {
	results, err := s.recipientRepo.SearchByEmail(ctx, fragment, maxSearchResults)
	if err != nil {
		return nil, fmt.Errorf("failed to search recipients: %w", err)
	}
	return results, nil
}

// Exists checks for an exact email match among active recipients.
func (s *RecipientService) Exists(ctx context.Context, email string) (bool, error) {
	exists, err := s.recipientRepo.ExistsActiveEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to verify recipient email: %w", err)
	}
	return exists, nil
}

// ListActive returns all active recipients.
func (s *RecipientService) ListActive(ctx context.Context) ([]*recipient.Recipient, error) {
	recipients, err := s.recipientRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active recipients: %w", err)
	}
	return recipients, nil
}

// Deactivate soft-deletes a recipient: the row survives so historical
// assignments and delivery records keep their references, but the recipient
// no longer appears in resolution or search.
func (s *RecipientService) Deactivate(ctx context.Context, id int64) (*recipient.Recipient, error) {
	target, err := s.recipientRepo.GetByID(ctx, id)
	if err != nil {
		if err == idb.ErrRecipientNotFound {
			return nil, idb.ErrRecipientNotFound // Propagate specific error
		}
		return nil, fmt.Errorf("failed to get recipient for deactivation: %w", err)
	}

	if !target.IsActive {
		return target, ErrRecipientAlreadyInactive
	}

	target.IsActive = false
	if err := s.recipientRepo.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to deactivate recipient in repository: %w", err)
	}
	return target, nil
}
