package app

import (
	"context"
	"fmt"
	"strings"

	"novedad_notification_service/internal/domain/novedad"
	idb "novedad_notification_service/internal/infra/database"
	"novedad_notification_service/internal/infra/metrics"

	"github.com/sirupsen/logrus"
)

// ErrEmptyConsecutive rejects ingestion items without an idempotency key.
var ErrEmptyConsecutive = fmt.Errorf("consecutive number must not be empty")

// NovedadInput is one candidate event in an ingestion batch.
type NovedadInput struct {
	Consecutive string
	PuestoID    int64
	EventTypeID int64
}

// IngestResult summarizes one ingestion batch.
type IngestResult struct {
	Ingested   int
	Duplicates int
}

// NovedadService owns event ingestion and the consecutive validator.
type NovedadService struct {
	novedadRepo novedad.Repository
	logger      *logrus.Entry
}

func NewNovedadService(nr novedad.Repository, logger *logrus.Entry) *NovedadService {
	return &NovedadService{
		novedadRepo: nr,
		logger:      logger,
	}
}

// FindMissingConsecutives returns the subset of candidates not yet present in
// the store. Empty input returns an empty result without a storage round
// trip. This check is advisory for batching convenience only: the UNIQUE
// constraint on insert remains the authoritative guard, so a storage failure
// here fails the whole batch rather than answering partially.
func (s *NovedadService) FindMissingConsecutives(ctx context.Context, candidates []string) ([]string, error) {
	if len(candidates) == 0 {
		return []string{}, nil
	}

	existing, err := s.novedadRepo.FilterExistingConsecutives(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to filter existing consecutives: %w", err)
	}

	known := make(map[string]bool, len(existing))
	for _, c := range existing {
		known[c] = true
	}

	missing := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if known[c] || seen[c] {
			continue
		}
		seen[c] = true
		missing = append(missing, c)
	}
	return missing, nil
}

// IngestBatch persists a batch of candidate novedades. A duplicate
// consecutive number is a benign no-op (two callers may both have observed it
// as missing); any other storage failure aborts the batch.
func (s *NovedadService) IngestBatch(ctx context.Context, items []NovedadInput) (*IngestResult, error) {
	result := &IngestResult{}
	for _, item := range items {
		if strings.TrimSpace(item.Consecutive) == "" {
			return nil, ErrEmptyConsecutive
		}

		n := &novedad.Novedad{
			Consecutive: item.Consecutive,
			PuestoID:    item.PuestoID,
			EventTypeID: item.EventTypeID,
		}
		err := s.novedadRepo.Create(ctx, n)
		if err == idb.ErrDuplicateConsecutive {
			s.logger.WithField("consecutivo", item.Consecutive).
				Info("Consecutive already ingested, skipping")
			metrics.NovedadesDuplicateTotal.Inc()
			result.Duplicates++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to ingest novedad %q: %w", item.Consecutive, err)
		}
		metrics.NovedadesIngestedTotal.Inc()
		result.Ingested++
	}
	return result, nil
}

// ListEventTypes returns the event type lookup list, optionally filtered by
// report type (reportTypeID > 0).
func (s *NovedadService) ListEventTypes(ctx context.Context, reportTypeID int64) ([]*novedad.EventType, error) {
	types, err := s.novedadRepo.ListEventTypes(ctx, reportTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list event types: %w", err)
	}
	return types, nil
}
