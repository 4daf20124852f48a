package app

import (
	"context"
	"fmt"
	"strings"

	"novedad_notification_service/internal/domain/assignment"
	"novedad_notification_service/internal/domain/novedad"
	"novedad_notification_service/internal/domain/recipient"
	idb "novedad_notification_service/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// ResolverService computes the notification audience for a novedad by joining
// the assignment graph against the recipient directory at resolution time.
// The join is evaluated against current activity flags, never cached, because
// assignments and recipient activity change independently of when the novedad
// was created.
type ResolverService struct {
	novedadRepo    novedad.Repository
	assignmentRepo assignment.Repository
	recipientRepo  recipient.Repository
	logger         *logrus.Entry
}

func NewResolverService(
	nr novedad.Repository,
	ar assignment.Repository,
	rr recipient.Repository,
	logger *logrus.Entry,
) *ResolverService {
	return &ResolverService{
		novedadRepo:    nr,
		assignmentRepo: ar,
		recipientRepo:  rr,
		logger:         logger,
	}
}

// Resolve returns the deduplicated set of active recipients interested in the
// given novedad. An empty result is a valid outcome: the novedad simply has
// no interested parties. ErrNovedadNotFound is propagated when the novedad
// does not exist.
func (s *ResolverService) Resolve(ctx context.Context, novedadID int64) ([]*recipient.Recipient, error) {
	n, err := s.novedadRepo.GetByID(ctx, novedadID)
	if err != nil {
		if err == idb.ErrNovedadNotFound {
			return nil, idb.ErrNovedadNotFound
		}
		return nil, fmt.Errorf("failed to load novedad for resolution: %w", err)
	}

	assignments, err := s.assignmentRepo.ListActiveFor(ctx, n.PuestoID, n.EventTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active assignments for novedad %d: %w", novedadID, err)
	}

	// Deduplicate by email: a recipient reachable via more than one assignment
	// row must be notified once.
	resolved := make([]*recipient.Recipient, 0, len(assignments))
	seen := make(map[string]bool, len(assignments))
	for _, a := range assignments {
		rec, err := s.recipientRepo.GetByID(ctx, a.RecipientID)
		if err != nil {
			if err == idb.ErrRecipientNotFound {
				// Dangling reference: no cross-table cascade is assumed, so an
				// assignment may outlive its recipient row.
				s.logger.WithFields(logrus.Fields{
					"assignment_id": a.ID,
					"recipient_id":  a.RecipientID,
				}).Warn("Assignment references a missing recipient, skipping")
				continue
			}
			return nil, fmt.Errorf("failed to load recipient %d for assignment %d: %w", a.RecipientID, a.ID, err)
		}
		// A recipient deactivated after the assignment was created must not be
		// notified even though the assignment row persists.
		if !rec.IsActive {
			continue
		}

		key := strings.ToLower(rec.Email)
		if seen[key] {
			continue
		}
		seen[key] = true
		resolved = append(resolved, rec)
	}

	return resolved, nil
}
