// internal/infra/database/postgres_delivery_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"novedad_notification_service/internal/domain/delivery"
)

type PostgresDeliveryRepository struct {
	db *sql.DB
}

func NewPostgresDeliveryRepository(db *sql.DB) *PostgresDeliveryRepository {
	return &PostgresDeliveryRepository{db: db}
}

func (r *PostgresDeliveryRepository) Create(ctx context.Context, rec *delivery.Record) error {
	query := `INSERT INTO delivery_records (novedad_id, recipient_id, outcome, sent_at)
               VALUES ($1, $2, $3, $4)
               RETURNING id`
	err := r.db.QueryRowContext(ctx, query, rec.NovedadID, rec.RecipientID, rec.Outcome, rec.SentAt).
		Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("error creating delivery record: %w", err)
	}
	return nil
}

func (r *PostgresDeliveryRepository) ListByNovedad(ctx context.Context, novedadID int64) ([]*delivery.Record, error) {
	// Serial id breaks timestamp ties, so insertion order stays authoritative.
	query := `SELECT id, novedad_id, recipient_id, outcome, sent_at
               FROM delivery_records
               WHERE novedad_id = $1
               ORDER BY sent_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, novedadID)
	if err != nil {
		return nil, fmt.Errorf("error listing delivery records: %w", err)
	}
	defer rows.Close()

	records := make([]*delivery.Record, 0)
	for rows.Next() {
		rec := delivery.Record{}
		if err := rows.Scan(
			&rec.ID, &rec.NovedadID, &rec.RecipientID, &rec.Outcome, &rec.SentAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning delivery record row: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delivery record rows: %w", err)
	}
	return records, nil
}
