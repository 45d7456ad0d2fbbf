package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"parishlaunch/internal/domain"
)

type parishRepository struct {
	DB *sql.DB
}

func NewParishRepository(db *sql.DB) domain.ParishRepository {
	return &parishRepository{DB: db}
}

func (r *parishRepository) Create(ctx context.Context, p *domain.Parish) error {
	query := `
		INSERT INTO parishes (name, active, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, p.Name, p.Active, p.CreatedAt).Scan(&p.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return domain.ErrDuplicateParish
		}
		return err
	}
	return nil
}

func (r *parishRepository) GetByID(ctx context.Context, id int64) (*domain.Parish, error) {
	query := `
		SELECT id, name, active, created_at
		FROM parishes
		WHERE id = $1
	`
	p := &domain.Parish{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *parishRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Parish, error) {
	query := `
		SELECT id, name, active, created_at
		FROM parishes
	`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY name`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	parishes := make([]*domain.Parish, 0)
	for rows.Next() {
		p := &domain.Parish{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		parishes = append(parishes, p)
	}
	return parishes, rows.Err()
}

func (r *parishRepository) Update(ctx context.Context, id int64, patch *domain.ParishPatch) (*domain.Parish, error) {
	setClauses := []string{}
	args := []interface{}{}
	n := 1
	if patch.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", n))
		args = append(args, *patch.Name)
		n++
	}
	if patch.Active != nil {
		setClauses = append(setClauses, fmt.Sprintf("active = $%d", n))
		args = append(args, *patch.Active)
		n++
	}
	if n == 1 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE parishes SET %s
		WHERE id = $%d
		RETURNING id, name, active, created_at
	`, strings.Join(setClauses, ", "), n)
	p := &domain.Parish{}
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.Name, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, domain.ErrDuplicateParish
		}
		return nil, err
	}
	return p, nil
}

func (r *parishRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM parishes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
