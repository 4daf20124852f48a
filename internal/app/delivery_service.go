package app

import (
	"context"
	"fmt"
	"time"

	"novedad_notification_service/internal/domain/delivery"
	"novedad_notification_service/internal/domain/novedad"
	idb "novedad_notification_service/internal/infra/database"
)

// ErrInvalidOutcome rejects delivery records with an outcome outside the
// known taxonomy.
var ErrInvalidOutcome = fmt.Errorf("delivery outcome must be SENT, FAILED or RETRY_SENT")

// DeliveryService owns the append-only delivery history. There are no update
// or delete operations: corrections are recorded as additional rows.
type DeliveryService struct {
	deliveryRepo delivery.Repository
	novedadRepo  novedad.Repository
}

func NewDeliveryService(dr delivery.Repository, nr novedad.Repository) *DeliveryService {
	return &DeliveryService{
		deliveryRepo: dr,
		novedadRepo:  nr,
	}
}

// Record appends one dispatch attempt to the history of a novedad.
func (s *DeliveryService) Record(ctx context.Context, novedadID, recipientID int64, outcome delivery.Outcome) (*delivery.Record, error) {
	switch outcome {
	case delivery.OutcomeSent, delivery.OutcomeFailed, delivery.OutcomeRetrySent:
	default:
		return nil, ErrInvalidOutcome
	}

	if _, err := s.novedadRepo.GetByID(ctx, novedadID); err != nil {
		if err == idb.ErrNovedadNotFound {
			return nil, idb.ErrNovedadNotFound
		}
		return nil, fmt.Errorf("failed to load novedad for delivery record: %w", err)
	}

	rec := &delivery.Record{
		NovedadID:   novedadID,
		RecipientID: recipientID,
		Outcome:     outcome,
		SentAt:      time.Now(),
	}
	if err := s.deliveryRepo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create delivery record: %w", err)
	}
	return rec, nil
}

// ListForNovedad returns the delivery history of a novedad in chronological
// order, insertion order breaking ties.
func (s *DeliveryService) ListForNovedad(ctx context.Context, novedadID int64) ([]*delivery.Record, error) {
	records, err := s.deliveryRepo.ListByNovedad(ctx, novedadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list delivery records: %w", err)
	}
	return records, nil
}
