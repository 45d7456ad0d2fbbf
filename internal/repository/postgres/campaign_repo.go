package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"parishlaunch/internal/domain"
)

type emailCampaignRepository struct {
	DB *sql.DB
}

func NewEmailCampaignRepository(db *sql.DB) domain.EmailCampaignRepository {
	return &emailCampaignRepository{DB: db}
}

const campaignColumns = "id, name, description, template_id, trigger_type, trigger_value, status, audience, created_at, updated_at"

func scanCampaign(row interface{ Scan(...any) error }) (*domain.EmailCampaign, error) {
	c := &domain.EmailCampaign{}
	var descNull, triggerValueNull sql.NullString
	var audienceNull []byte
	err := row.Scan(
		&c.ID, &c.Name, &descNull, &c.TemplateID, &c.TriggerType, &triggerValueNull, &c.Status, &audienceNull, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if descNull.Valid {
		c.Description = &descNull.String
	}
	if triggerValueNull.Valid {
		c.TriggerValue = &triggerValueNull.String
	}
	if audienceNull != nil {
		c.Audience = audienceNull
	}
	return c, nil
}

func (r *emailCampaignRepository) Create(ctx context.Context, c *domain.EmailCampaign) error {
	query := `
		INSERT INTO email_campaigns (name, description, template_id, trigger_type, trigger_value, status, audience, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var audience interface{}
	if c.Audience != nil {
		audience = []byte(c.Audience)
	}
	return r.DB.QueryRowContext(ctx, query,
		c.Name, c.Description, c.TemplateID, c.TriggerType, c.TriggerValue, c.Status, audience, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
}

func (r *emailCampaignRepository) GetByID(ctx context.Context, id int64) (*domain.EmailCampaign, error) {
	query := fmt.Sprintf(`SELECT %s FROM email_campaigns WHERE id = $1`, campaignColumns)
	c, err := scanCampaign(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *emailCampaignRepository) List(ctx context.Context) ([]*domain.EmailCampaign, error) {
	query := fmt.Sprintf(`SELECT %s FROM email_campaigns ORDER BY created_at DESC`, campaignColumns)
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	campaigns := make([]*domain.EmailCampaign, 0)
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *emailCampaignRepository) Update(ctx context.Context, id int64, patch *domain.EmailCampaignPatch) (*domain.EmailCampaign, error) {
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
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.TemplateID != nil {
		add("template_id", *patch.TemplateID)
	}
	if patch.TriggerType != nil {
		add("trigger_type", *patch.TriggerType)
	}
	if patch.TriggerValue != nil {
		add("trigger_value", *patch.TriggerValue)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Audience != nil {
		add("audience", []byte(patch.Audience))
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE email_campaigns SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, campaignColumns)
	c, err := scanCampaign(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *emailCampaignRepository) UpdateStatus(ctx context.Context, id int64, status string) (*domain.EmailCampaign, error) {
	query := fmt.Sprintf(`
		UPDATE email_campaigns SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING %s
	`, campaignColumns)
	c, err := scanCampaign(r.DB.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *emailCampaignRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM email_campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrCampaignNotFound
	}
	return nil
}

func (r *emailCampaignRepository) CountByTemplateID(ctx context.Context, templateID int64) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM email_campaigns WHERE template_id = $1`, templateID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
