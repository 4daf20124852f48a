package app

import (
	"context"
	"fmt"

	"novedad_notification_service/internal/domain/assignment"
	"novedad_notification_service/internal/domain/recipient"
	idb "novedad_notification_service/internal/infra/database"
)

// Custom application-level errors for the assignment graph
var ErrRecipientInactive = fmt.Errorf("recipient is inactive and cannot be assigned")
var ErrAssignmentExists = fmt.Errorf("recipient is already actively assigned to this (puesto, event type)")

// AssignmentService manages the many-to-many links between
// (puesto, event type) pairs and recipients.
type AssignmentService struct {
	assignmentRepo assignment.Repository
	recipientRepo  recipient.Repository
}

func NewAssignmentService(ar assignment.Repository, rr recipient.Repository) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: ar,
		recipientRepo:  rr,
	}
}

// CreateAssignment links a recipient to a (puesto, event type) pair. Inactive
// recipients cannot be assigned, and the same triple must not be active twice.
func (s *AssignmentService) CreateAssignment(ctx context.Context, puestoID, eventTypeID, recipientID int64) (*assignment.Assignment, error) {
	target, err := s.recipientRepo.GetByID(ctx, recipientID)
	if err != nil {
		if err == idb.ErrRecipientNotFound {
			return nil, idb.ErrRecipientNotFound
		}
		return nil, fmt.Errorf("failed to get recipient for assignment: %w", err)
	}
	if !target.IsActive {
		return nil, ErrRecipientInactive
	}

	newAssignment := &assignment.Assignment{
		PuestoID:    puestoID,
		EventTypeID: eventTypeID,
		RecipientID: recipientID,
		IsActive:    true,
	}
	if err := s.assignmentRepo.Create(ctx, newAssignment); err != nil {
		if err == idb.ErrDuplicateAssignment {
			return nil, ErrAssignmentExists
		}
		return nil, fmt.Errorf("failed to create assignment in repository: %w", err)
	}
	return newAssignment, nil
}

// List returns assignments, optionally filtered by puesto (puestoID > 0).
func (s *AssignmentService) List(ctx context.Context, puestoID int64) ([]*assignment.Assignment, error) {
	assignments, err := s.assignmentRepo.List(ctx, puestoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

// Delete hard-deletes an assignment. ErrAssignmentNotFound is propagated so
// callers can distinguish "already gone" from success.
func (s *AssignmentService) Delete(ctx context.Context, id int64) error {
	if err := s.assignmentRepo.Delete(ctx, id); err != nil {
		if err == idb.ErrAssignmentNotFound {
			return idb.ErrAssignmentNotFound
		}
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	return nil
}
