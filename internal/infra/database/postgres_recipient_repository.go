// internal/infra/database/postgres_recipient_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"novedad_notification_service/internal/domain/recipient"
)

// Custom errors specific to recipient repository
var ErrRecipientNotFound = fmt.Errorf("recipient not found")
var ErrDuplicateRecipientEmail = fmt.Errorf("active recipient with this email already exists")

type PostgresRecipientRepository struct {
	db *sql.DB
}

func NewPostgresRecipientRepository(db *sql.DB) *PostgresRecipientRepository {
	return &PostgresRecipientRepository{db: db}
}

func (r *PostgresRecipientRepository) Create(ctx context.Context, rec *recipient.Recipient) error {
	query := `INSERT INTO recipients (name, email, is_active)
               VALUES ($1, $2, $3)
               RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, rec.Name, rec.Email, rec.IsActive).
		Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "recipients_active_email_unique") {
			return ErrDuplicateRecipientEmail
		}
		return fmt.Errorf("error creating recipient: %w", err)
	}
	return nil
}

func (r *PostgresRecipientRepository) GetByID(ctx context.Context, id int64) (*recipient.Recipient, error) {
	query := `SELECT id, name, email, is_active, created_at, updated_at FROM recipients WHERE id = $1`
	rec := recipient.Recipient{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.Name, &rec.Email, &rec.IsActive, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("error getting recipient by ID: %w", err)
	}
	return &rec, nil
}

func (r *PostgresRecipientRepository) SearchByEmail(ctx context.Context, fragment string, limit int) ([]*recipient.Recipient, error) {
	// ILIKE gives the case-insensitive substring match; lexical order by email
	// keeps identical inputs deterministic.
	query := `SELECT id, name, email, is_active, created_at, updated_at
               FROM recipients
               WHERE is_active = TRUE AND email ILIKE '%' || $1 || '%'
               ORDER BY email ASC
               LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, fragment, limit)
	if err != nil {
		return nil, fmt.Errorf("error searching recipients by email: %w", err)
	}
	defer rows.Close()
	return scanRecipients(rows)
}

func (r *PostgresRecipientRepository) ExistsActiveEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM recipients WHERE email = $1 AND is_active = TRUE)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking recipient email existence: %w", err)
	}
	return exists, nil
}

func (r *PostgresRecipientRepository) Update(ctx context.Context, rec *recipient.Recipient) error {
	query := `UPDATE recipients
               SET name = $1, email = $2, is_active = $3, updated_at = NOW()
               WHERE id = $4
               RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, rec.Name, rec.Email, rec.IsActive, rec.ID).Scan(&rec.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrRecipientNotFound
		}
		if isUniqueViolation(err, "recipients_active_email_unique") {
			return ErrDuplicateRecipientEmail
		}
		return fmt.Errorf("error updating recipient: %w", err)
	}
	return nil
}

func (r *PostgresRecipientRepository) ListActive(ctx context.Context) ([]*recipient.Recipient, error) {
	query := `SELECT id, name, email, is_active, created_at, updated_at
               FROM recipients WHERE is_active = TRUE ORDER BY email ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing active recipients: %w", err)
	}
	defer rows.Close()
	return scanRecipients(rows)
}

// Helper to scan multiple rows
func scanRecipients(rows *sql.Rows) ([]*recipient.Recipient, error) {
	recipients := make([]*recipient.Recipient, 0)
	for rows.Next() {
		rec := recipient.Recipient{}
		if err := rows.Scan(
			&rec.ID, &rec.Name, &rec.Email, &rec.IsActive, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning recipient row: %w", err)
		}
		recipients = append(recipients, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipient rows: %w", err)
	}
	return recipients, nil
}
