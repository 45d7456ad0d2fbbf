package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"parishlaunch/internal/domain"
)

type siteSettingRepository struct {
	DB *sql.DB
}

func NewSiteSettingRepository(db *sql.DB) domain.SiteSettingRepository {
	return &siteSettingRepository{DB: db}
}

func (r *siteSettingRepository) Get(ctx context.Context, key string) (*domain.SiteSetting, error) {
	query := `
		SELECT id, key, value, updated_at
		FROM site_settings
		WHERE key = $1
	`
	s := &domain.SiteSetting{}
	err := r.DB.QueryRowContext(ctx, query, key).Scan(&s.ID, &s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *siteSettingRepository) List(ctx context.Context) ([]*domain.SiteSetting, error) {
	query := `
		SELECT id, key, value, updated_at
		FROM site_settings
		ORDER BY key
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	settings := make([]*domain.SiteSetting, 0)
	for rows.Next() {
		s := &domain.SiteSetting{}
		if err := rows.Scan(&s.ID, &s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (r *siteSettingRepository) Upsert(ctx context.Context, key, value string, updatedAt time.Time) (*domain.SiteSetting, error) {
	query := `
		INSERT INTO site_settings (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
		RETURNING id, key, value, updated_at
	`
	s := &domain.SiteSetting{}
	err := r.DB.QueryRowContext(ctx, query, key, value, updatedAt).Scan(&s.ID, &s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

type socialLinkRepository struct {
	DB *sql.DB
}

func NewSocialLinkRepository(db *sql.DB) domain.SocialLinkRepository {
	return &socialLinkRepository{DB: db}
}

func (r *socialLinkRepository) Get(ctx context.Context, platform string) (*domain.SocialLink, error) {
	query := `
		SELECT id, platform, url, icon, updated_at
		FROM social_links
		WHERE platform = $1
	`
	l := &domain.SocialLink{}
	err := r.DB.QueryRowContext(ctx, query, platform).Scan(&l.ID, &l.Platform, &l.URL, &l.Icon, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *socialLinkRepository) List(ctx context.Context) ([]*domain.SocialLink, error) {
	query := `
		SELECT id, platform, url, icon, updated_at
		FROM social_links
		ORDER BY platform
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	links := make([]*domain.SocialLink, 0)
	for rows.Next() {
		l := &domain.SocialLink{}
		if err := rows.Scan(&l.ID, &l.Platform, &l.URL, &l.Icon, &l.UpdatedAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (r *socialLinkRepository) Upsert(ctx context.Context, link *domain.SocialLink) (*domain.SocialLink, error) {
	query := `
		INSERT INTO social_links (platform, url, icon, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (platform) DO UPDATE SET url = EXCLUDED.url, icon = EXCLUDED.icon, updated_at = EXCLUDED.updated_at
		RETURNING id, platform, url, icon, updated_at
	`
	l := &domain.SocialLink{}
	err := r.DB.QueryRowContext(ctx, query, link.Platform, link.URL, link.Icon, link.UpdatedAt).Scan(&l.ID, &l.Platform, &l.URL, &l.Icon, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}
