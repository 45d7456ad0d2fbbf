package postgres

import (
	"context"
	"database/sql"

	"parishlaunch/internal/domain"
)

type emailLogRepository struct {
	DB *sql.DB
}

func NewEmailLogRepository(db *sql.DB) domain.EmailLogRepository {
	return &emailLogRepository{DB: db}
}

func (r *emailLogRepository) Create(ctx context.Context, l *domain.EmailLog) error {
	query := `
		INSERT INTO email_logs (campaign_id, recipient_email, recipient_name, status, error, metadata, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var metadata interface{}
	if l.Metadata != nil {
		metadata = []byte(l.Metadata)
	}
	return r.DB.QueryRowContext(ctx, query,
		l.CampaignID, l.RecipientEmail, l.RecipientName, l.Status, l.Error, metadata, l.SentAt,
	).Scan(&l.ID)
}

const emailLogColumns = "id, campaign_id, recipient_email, recipient_name, status, error, metadata, sent_at"

func scanEmailLog(row interface{ Scan(...any) error }) (*domain.EmailLog, error) {
	l := &domain.EmailLog{}
	var nameNull, errNull sql.NullString
	var metadataNull []byte
	err := row.Scan(&l.ID, &l.CampaignID, &l.RecipientEmail, &nameNull, &l.Status, &errNull, &metadataNull, &l.SentAt)
	if err != nil {
		return nil, err
	}
	if nameNull.Valid {
		l.RecipientName = &nameNull.String
	}
	if errNull.Valid {
		l.Error = &errNull.String
	}
	if metadataNull != nil {
		l.Metadata = metadataNull
	}
	return l, nil
}

func (r *emailLogRepository) List(ctx context.Context, campaignID *int64) ([]*domain.EmailLog, error) {
	query := `SELECT ` + emailLogColumns + ` FROM email_logs`
	args := []interface{}{}
	if campaignID != nil {
		query += ` WHERE campaign_id = $1`
		args = append(args, *campaignID)
	}
	query += ` ORDER BY sent_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	logs := make([]*domain.EmailLog, 0)
	for rows.Next() {
		l, err := scanEmailLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *emailLogRepository) ListByRecipient(ctx context.Context, email string) ([]*domain.EmailLog, error) {
	query := `SELECT ` + emailLogColumns + ` FROM email_logs WHERE recipient_email = $1 ORDER BY sent_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	logs := make([]*domain.EmailLog, 0)
	for rows.Next() {
		l, err := scanEmailLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
