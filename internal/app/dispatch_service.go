package app

import (
	"context"
	"fmt"
	"time"

	"novedad_notification_service/internal/domain/delivery"
	"novedad_notification_service/internal/domain/mailer"
	"novedad_notification_service/internal/domain/novedad"
	"novedad_notification_service/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Dispatcher is the operation the scheduler drives on every dispatch tick.
type Dispatcher interface {
	DispatchPending(ctx context.Context) error
}

// DispatchService pushes pending novedades through the mailer collaborator:
// resolve the audience, send one message per recipient, append a delivery
// record per attempt, then mark the novedad notified.
type DispatchService struct {
	novedadRepo  novedad.Repository
	resolver     *ResolverService
	deliveryRepo delivery.Repository
	mailerClient mailer.Client
	logger       *logrus.Entry
	batchSize    int
}

func NewDispatchService(
	nr novedad.Repository,
	resolver *ResolverService,
	dr delivery.Repository,
	mc mailer.Client,
	logger *logrus.Entry,
	batchSize int,
) *DispatchService {
	return &DispatchService{
		novedadRepo:  nr,
		resolver:     resolver,
		deliveryRepo: dr,
		mailerClient: mc,
		logger:       logger,
		batchSize:    batchSize,
	}
}

// DispatchPending processes one batch of novedades that have not been
// dispatched yet. A failed send for one recipient is recorded and does not
// block the rest of the audience; a novedad with an empty audience is still
// marked notified so it is not retried forever.
func (s *DispatchService) DispatchPending(ctx context.Context) error {
	runLogger := s.logger.WithField("run_id", uuid.New().String())
	start := time.Now()
	defer func() {
		metrics.DispatchRunDuration.Observe(time.Since(start).Seconds())
	}()

	pending, err := s.novedadRepo.ListUnnotified(ctx, s.batchSize)
	if err != nil {
		return fmt.Errorf("failed to list unnotified novedades: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}
	runLogger.WithField("count", len(pending)).Info("Dispatching pending novedades")

	for _, n := range pending {
		if err := s.dispatchOne(ctx, runLogger, n); err != nil {
			// Resolution or bookkeeping failed; leave the novedad pending and
			// let the next run retry it.
			runLogger.WithFields(logrus.Fields{
				"novedad_id":  n.ID,
				"consecutivo": n.Consecutive,
			}).WithError(err).Error("Failed to dispatch novedad")
		}
	}
	return nil
}

func (s *DispatchService) dispatchOne(ctx context.Context, runLogger *logrus.Entry, n *novedad.Novedad) error {
	audience, err := s.resolver.Resolve(ctx, n.ID)
	if err != nil {
		return fmt.Errorf("failed to resolve audience: %w", err)
	}

	for _, rec := range audience {
		msg := mailer.Message{
			ToEmail:     rec.Email,
			ToName:      rec.Name,
			Consecutive: n.Consecutive,
			PuestoID:    n.PuestoID,
			EventTypeID: n.EventTypeID,
		}

		outcome := delivery.OutcomeSent
		if sendErr := s.mailerClient.Send(ctx, msg); sendErr != nil {
			outcome = delivery.OutcomeFailed
			metrics.NotificationsFailedTotal.Inc()
			runLogger.WithFields(logrus.Fields{
				"novedad_id": n.ID,
				"recipient":  rec.Email,
			}).WithError(sendErr).Warn("Mailer send failed")
		} else {
			metrics.NotificationsSentTotal.Inc()
		}

		record := &delivery.Record{
			NovedadID:   n.ID,
			RecipientID: rec.ID,
			Outcome:     outcome,
			SentAt:      time.Now(),
		}
		if err := s.deliveryRepo.Create(ctx, record); err != nil {
			return fmt.Errorf("failed to record delivery for recipient %d: %w", rec.ID, err)
		}
	}

	if err := s.novedadRepo.MarkNotified(ctx, n.ID, time.Now()); err != nil {
		return fmt.Errorf("failed to mark novedad as notified: %w", err)
	}
	return nil
}
