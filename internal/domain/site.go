package domain

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateParish is returned when a parish name is already taken.
var ErrDuplicateParish = errors.New("parish already exists")

// SiteSetting is a key/value pair of editable landing page content
// (hero text, logo URL, background media URL, ...).
// swagger:model SiteSetting
type SiteSetting struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SocialLink is a footer social media link.
// swagger:model SocialLink
type SocialLink struct {
	ID        int64     `json:"id"`
	Platform  string    `json:"platform"`
	URL       string    `json:"url"`
	Icon      string    `json:"icon"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Parish is an entry of the parish list offered on the registration form.
// swagger:model Parish
type Parish struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// ParishPatch carries optional fields for a partial parish update.
type ParishPatch struct {
	Name   *string
	Active *bool
}

// SiteSettingRepository stores landing page settings, keyed by setting name.
type SiteSettingRepository interface {
	Get(ctx context.Context, key string) (*SiteSetting, error)
	List(ctx context.Context) ([]*SiteSetting, error)
	Upsert(ctx context.Context, key, value string, updatedAt time.Time) (*SiteSetting, error)
}

// SocialLinkRepository stores social links, keyed by platform.
type SocialLinkRepository interface {
	Get(ctx context.Context, platform string) (*SocialLink, error)
	List(ctx context.Context) ([]*SocialLink, error)
	Upsert(ctx context.Context, link *SocialLink) (*SocialLink, error)
}

// ParishRepository defines the interface for parish storage.
type ParishRepository interface {
	Create(ctx context.Context, parish *Parish) error
	GetByID(ctx context.Context, id int64) (*Parish, error)
	List(ctx context.Context, activeOnly bool) ([]*Parish, error)
	Update(ctx context.Context, id int64, patch *ParishPatch) (*Parish, error)
	Delete(ctx context.Context, id int64) error
}

// SiteService groups the editable site content operations used by the
// admin dashboard and the public landing page.
type SiteService interface {
	ListSettings(ctx context.Context) ([]*SiteSetting, error)
	UpsertSetting(ctx context.Context, key, value string) (*SiteSetting, error)
	ListSocialLinks(ctx context.Context) ([]*SocialLink, error)
	UpsertSocialLink(ctx context.Context, platform, url, icon string) (*SocialLink, error)
	ListParishes(ctx context.Context, activeOnly bool) ([]*Parish, error)
	CreateParish(ctx context.Context, name string, active bool) (*Parish, error)
	UpdateParish(ctx context.Context, id int64, patch *ParishPatch) (*Parish, error)
	DeleteParish(ctx context.Context, id int64) error
}
