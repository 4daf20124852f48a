// internal/infra/database/postgres_novedad_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"novedad_notification_service/internal/domain/novedad"
	"time"

	"github.com/lib/pq" // For pq.Array
)

// Custom errors specific to novedad repository
var ErrNovedadNotFound = fmt.Errorf("novedad not found")
var ErrDuplicateConsecutive = fmt.Errorf("novedad with this consecutive number already exists")

type PostgresNovedadRepository struct {
	db *sql.DB
}

func NewPostgresNovedadRepository(db *sql.DB) *PostgresNovedadRepository {
	return &PostgresNovedadRepository{db: db}
}

func (r *PostgresNovedadRepository) Create(ctx context.Context, n *novedad.Novedad) error {
	query := `INSERT INTO novedades (consecutivo, puesto_id, event_type_id)
               VALUES ($1, $2, $3)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, n.Consecutive, n.PuestoID, n.EventTypeID).
		Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		// The UNIQUE constraint on consecutivo is the authoritative idempotency
		// guard; two racing inserts of the same consecutive both reach here and
		// exactly one loses with 23505.
		if isUniqueViolation(err, "novedades_consecutivo_key") {
			return ErrDuplicateConsecutive
		}
		return fmt.Errorf("error creating novedad: %w", err)
	}
	return nil
}

func (r *PostgresNovedadRepository) GetByID(ctx context.Context, id int64) (*novedad.Novedad, error) {
	query := `SELECT id, consecutivo, puesto_id, event_type_id, notified_at, created_at
               FROM novedades WHERE id = $1`
	n := novedad.Novedad{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&n.ID, &n.Consecutive, &n.PuestoID, &n.EventTypeID, &n.NotifiedAt, &n.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNovedadNotFound
		}
		return nil, fmt.Errorf("error getting novedad by ID: %w", err)
	}
	return &n, nil
}

func (r *PostgresNovedadRepository) FilterExistingConsecutives(ctx context.Context, candidates []string) ([]string, error) {
	if len(candidates) == 0 {
		return []string{}, nil
	}

	query := `SELECT consecutivo FROM novedades WHERE consecutivo = ANY($1::varchar[])`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(candidates))
	if err != nil {
		return nil, fmt.Errorf("error filtering existing consecutives: %w", err)
	}
	defer rows.Close()

	existing := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("error scanning consecutive row: %w", err)
		}
		existing = append(existing, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating consecutive rows: %w", err)
	}
	return existing, nil
}

func (r *PostgresNovedadRepository) ListUnnotified(ctx context.Context, limit int) ([]*novedad.Novedad, error) {
	query := `SELECT id, consecutivo, puesto_id, event_type_id, notified_at, created_at
               FROM novedades
               WHERE notified_at IS NULL
               ORDER BY created_at ASC, id ASC
               LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing unnotified novedades: %w", err)
	}
	defer rows.Close()

	novedades := make([]*novedad.Novedad, 0)
	for rows.Next() {
		n := novedad.Novedad{}
		if err := rows.Scan(
			&n.ID, &n.Consecutive, &n.PuestoID, &n.EventTypeID, &n.NotifiedAt, &n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning novedad row: %w", err)
		}
		novedades = append(novedades, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating novedad rows: %w", err)
	}
	return novedades, nil
}

func (r *PostgresNovedadRepository) MarkNotified(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE novedades SET notified_at = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("error marking novedad as notified: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows for mark notified: %w", err)
	}
	if affected == 0 {
		return ErrNovedadNotFound
	}
	return nil
}

func (r *PostgresNovedadRepository) CountByEventTypeSince(ctx context.Context, since time.Time) (map[string]int, error) {
	query := `SELECT et.name, COUNT(n.id)
               FROM novedades n
               JOIN event_types et ON et.id = n.event_type_id
               WHERE n.created_at >= $1
               GROUP BY et.name`
	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("error counting novedades by event type: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("error scanning count row: %w", err)
		}
		counts[name] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating count rows: %w", err)
	}
	return counts, nil
}

func (r *PostgresNovedadRepository) ListEventTypes(ctx context.Context, reportTypeID int64) ([]*novedad.EventType, error) {
	var rows *sql.Rows
	var err error
	if reportTypeID > 0 {
		query := `SELECT id, name, report_type_id FROM event_types WHERE report_type_id = $1 ORDER BY name`
		rows, err = r.db.QueryContext(ctx, query, reportTypeID)
	} else {
		query := `SELECT id, name, report_type_id FROM event_types ORDER BY name`
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("error listing event types: %w", err)
	}
	defer rows.Close()

	types := make([]*novedad.EventType, 0)
	for rows.Next() {
		et := novedad.EventType{}
		if err := rows.Scan(&et.ID, &et.Name, &et.ReportTypeID); err != nil {
			return nil, fmt.Errorf("error scanning event type row: %w", err)
		}
		types = append(types, &et)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event type rows: %w", err)
	}
	return types, nil
}
