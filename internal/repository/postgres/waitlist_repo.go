package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"parishlaunch/internal/domain"
)

const pqUniqueViolation = "23505"

type waitlistRepository struct {
	DB *sql.DB
}

func NewWaitlistRepository(db *sql.DB) domain.WaitlistRepository {
	return &waitlistRepository{DB: db}
}

func (r *waitlistRepository) Create(ctx context.Context, e *domain.WaitlistEntry) error {
	query := `
		INSERT INTO waitlist_entries (full_name, email, phone, parish, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, e.FullName, e.Email, e.Phone, e.Parish, e.Role, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// List returns all waitlist entries in insertion order. The campaign sender
// iterates this order and writes logs in the same order.
func (r *waitlistRepository) List(ctx context.Context) ([]*domain.WaitlistEntry, error) {
	query := `
		SELECT id, full_name, email, phone, parish, role, created_at
		FROM waitlist_entries
		ORDER BY id
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]*domain.WaitlistEntry, 0)
	for rows.Next() {
		e := &domain.WaitlistEntry{}
		var phoneNull, parishNull sql.NullString
		if err := rows.Scan(&e.ID, &e.FullName, &e.Email, &phoneNull, &parishNull, &e.Role, &e.CreatedAt); err != nil {
			return nil, err
		}
		if phoneNull.Valid {
			e.Phone = &phoneNull.String
		}
		if parishNull.Valid {
			e.Parish = &parishNull.String
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
