package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"parishlaunch/internal/domain"
)

type siteService struct {
	settingRepo domain.SiteSettingRepository
	linkRepo    domain.SocialLinkRepository
	parishRepo  domain.ParishRepository
}

// NewSiteService creates a SiteService with the given repositories.
func NewSiteService(settingRepo domain.SiteSettingRepository, linkRepo domain.SocialLinkRepository, parishRepo domain.ParishRepository) domain.SiteService {
	return &siteService{
		settingRepo: settingRepo,
		linkRepo:    linkRepo,
		parishRepo:  parishRepo,
	}
}

func (s *siteService) ListSettings(ctx context.Context) ([]*domain.SiteSetting, error) {
	settings, err := s.settingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

func (s *siteService) UpsertSetting(ctx context.Context, key, value string) (*domain.SiteSetting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%w: key is required", domain.ErrInvalidInput)
	}
	setting, err := s.settingRepo.Upsert(ctx, key, value, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to upsert setting: %w", err)
	}
	return setting, nil
}

func (s *siteService) ListSocialLinks(ctx context.Context) ([]*domain.SocialLink, error) {
	links, err := s.linkRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list social links: %w", err)
	}
	return links, nil
}

func (s *siteService) UpsertSocialLink(ctx context.Context, platform, url, icon string) (*domain.SocialLink, error) {
	platform = strings.TrimSpace(strings.ToLower(platform))
	if platform == "" {
		return nil, fmt.Errorf("%w: platform is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: url is required", domain.ErrInvalidInput)
	}
	link, err := s.linkRepo.Upsert(ctx, &domain.SocialLink{
		Platform:  platform,
		URL:       url,
		Icon:      icon,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert social link: %w", err)
	}
	return link, nil
}

func (s *siteService) ListParishes(ctx context.Context, activeOnly bool) ([]*domain.Parish, error) {
	parishes, err := s.parishRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list parishes: %w", err)
	}
	return parishes, nil
}

func (s *siteService) CreateParish(ctx context.Context, name string, active bool) (*domain.Parish, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	parish := &domain.Parish{Name: name, Active: active, CreatedAt: time.Now()}
	if err := s.parishRepo.Create(ctx, parish); err != nil {
		if err == domain.ErrDuplicateParish {
			return nil, domain.ErrDuplicateParish
		}
		return nil, fmt.Errorf("failed to create parish: %w", err)
	}
	return parish, nil
}

func (s *siteService) UpdateParish(ctx context.Context, id int64, patch *domain.ParishPatch) (*domain.Parish, error) {
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
		}
		patch.Name = &trimmed
	}
	parish, err := s.parishRepo.Update(ctx, id, patch)
	if err != nil {
		if err == domain.ErrNotFound || err == domain.ErrDuplicateParish {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update parish: %w", err)
	}
	return parish, nil
}

func (s *siteService) DeleteParish(ctx context.Context, id int64) error {
	if err := s.parishRepo.Delete(ctx, id); err != nil {
		if err == domain.ErrNotFound {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to delete parish: %w", err)
	}
	return nil
}
