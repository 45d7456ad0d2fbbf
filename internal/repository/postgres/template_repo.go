package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"parishlaunch/internal/domain"
)

type emailTemplateRepository struct {
	DB *sql.DB
}

func NewEmailTemplateRepository(db *sql.DB) domain.EmailTemplateRepository {
	return &emailTemplateRepository{DB: db}
}

func (r *emailTemplateRepository) Create(ctx context.Context, t *domain.EmailTemplate) error {
	query := `
		INSERT INTO email_templates (name, subject, body, plain_text, from_name, from_email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		t.Name, t.Subject, t.Body, t.PlainText, t.FromName, t.FromEmail, t.Status, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
}

func (r *emailTemplateRepository) GetByID(ctx context.Context, id int64) (*domain.EmailTemplate, error) {
	query := `
		SELECT id, name, subject, body, plain_text, from_name, from_email, status, created_at, updated_at
		FROM email_templates
		WHERE id = $1
	`
	t := &domain.EmailTemplate{}
	var plainNull sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Subject, &t.Body, &plainNull, &t.FromName, &t.FromEmail, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, err
	}
	if plainNull.Valid {
		t.PlainText = &plainNull.String
	}
	return t, nil
}

func (r *emailTemplateRepository) List(ctx context.Context) ([]*domain.EmailTemplate, error) {
	query := `
		SELECT id, name, subject, body, plain_text, from_name, from_email, status, created_at, updated_at
		FROM email_templates
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	templates := make([]*domain.EmailTemplate, 0)
	for rows.Next() {
		t := &domain.EmailTemplate{}
		var plainNull sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &plainNull, &t.FromName, &t.FromEmail, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if plainNull.Valid {
			t.PlainText = &plainNull.String
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *emailTemplateRepository) Update(ctx context.Context, id int64, patch *domain.EmailTemplatePatch) (*domain.EmailTemplate, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Subject != nil {
		add("subject", *patch.Subject)
	}
	if patch.Body != nil {
		add("body", *patch.Body)
	}
	if patch.PlainText != nil {
		add("plain_text", *patch.PlainText)
	}
	if patch.FromName != nil {
		add("from_name", *patch.FromName)
	}
	if patch.FromEmail != nil {
		add("from_email", *patch.FromEmail)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE email_templates SET %s
		WHERE id = $%d
		RETURNING id, name, subject, body, plain_text, from_name, from_email, status, created_at, updated_at
	`, strings.Join(setClauses, ", "), n)
	t := &domain.EmailTemplate{}
	var plainNull sql.NullString
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&t.ID, &t.Name, &t.Subject, &t.Body, &plainNull, &t.FromName, &t.FromEmail, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, err
	}
	if plainNull.Valid {
		t.PlainText = &plainNull.String
	}
	return t, nil
}

func (r *emailTemplateRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM email_templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}
