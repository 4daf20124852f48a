// internal/infra/database/postgres_assignment_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"novedad_notification_service/internal/domain/assignment"
)

// Custom errors specific to assignment repository
var ErrAssignmentNotFound = fmt.Errorf("assignment not found")
var ErrDuplicateAssignment = fmt.Errorf("active assignment for this (puesto, event type, recipient) already exists")

type PostgresAssignmentRepository struct {
	db *sql.DB
}

func NewPostgresAssignmentRepository(db *sql.DB) *PostgresAssignmentRepository {
	return &PostgresAssignmentRepository{db: db}
}

func (r *PostgresAssignmentRepository) Create(ctx context.Context, a *assignment.Assignment) error {
	query := `INSERT INTO assignments (puesto_id, event_type_id, recipient_id, is_active)
               VALUES ($1, $2, $3, $4)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, a.PuestoID, a.EventTypeID, a.RecipientID, a.IsActive).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "assignments_active_triple_unique") {
			return ErrDuplicateAssignment
		}
		return fmt.Errorf("error creating assignment: %w", err)
	}
	return nil
}

func (r *PostgresAssignmentRepository) List(ctx context.Context, puestoID int64) ([]*assignment.Assignment, error) {
	var rows *sql.Rows
	var err error
	if puestoID > 0 {
		query := `SELECT id, puesto_id, event_type_id, recipient_id, is_active, created_at
                   FROM assignments WHERE puesto_id = $1 ORDER BY id`
		rows, err = r.db.QueryContext(ctx, query, puestoID)
	} else {
		query := `SELECT id, puesto_id, event_type_id, recipient_id, is_active, created_at
                   FROM assignments ORDER BY id`
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}
	defer rows.Close()
	return scanAssignments(rows)
}

func (r *PostgresAssignmentRepository) ListActiveFor(ctx context.Context, puestoID, eventTypeID int64) ([]*assignment.Assignment, error) {
	query := `SELECT id, puesto_id, event_type_id, recipient_id, is_active, created_at
               FROM assignments
               WHERE puesto_id = $1 AND event_type_id = $2 AND is_active = TRUE
               ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, puestoID, eventTypeID)
	if err != nil {
		return nil, fmt.Errorf("error listing active assignments for puesto/event type: %w", err)
	}
	defer rows.Close()
	return scanAssignments(rows)
}

func (r *PostgresAssignmentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting assignment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows for assignment delete: %w", err)
	}
	if affected == 0 {
		// Distinguish "already gone" from success for caller idempotency.
		return ErrAssignmentNotFound
	}
	return nil
}

// Helper to scan multiple rows
func scanAssignments(rows *sql.Rows) ([]*assignment.Assignment, error) {
	assignments := make([]*assignment.Assignment, 0)
	for rows.Next() {
		a := assignment.Assignment{}
		if err := rows.Scan(
			&a.ID, &a.PuestoID, &a.EventTypeID, &a.RecipientID, &a.IsActive, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning assignment row: %w", err)
		}
		assignments = append(assignments, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignment rows: %w", err)
	}
	return assignments, nil
}
