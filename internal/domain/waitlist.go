package domain

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateEmail is returned when a waitlist email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// WaitlistEntry represents a person who registered interest via the public
// landing page form. Waitlist entries are the recipient source for every
// email campaign.
// swagger:model WaitlistEntry
type WaitlistEntry struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Parish    *string   `json:"parish,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewWaitlistEntry returns a new WaitlistEntry. ID is set by the repository on create.
func NewWaitlistEntry(fullName, email string, phone, parish *string, role string, createdAt time.Time) *WaitlistEntry {
	return &WaitlistEntry{
		FullName:  fullName,
		Email:     email,
		Phone:     phone,
		Parish:    parish,
		Role:      role,
		CreatedAt: createdAt,
	}
}

// WaitlistRepository defines the interface for waitlist storage.
// List returns entries in insertion order; the campaign sender depends on
// this ordering for its log-write order.
type WaitlistRepository interface {
	Create(ctx context.Context, entry *WaitlistEntry) error
	List(ctx context.Context) ([]*WaitlistEntry, error)
}

// WaitlistService defines the business logic for waitlist registration.
type WaitlistService interface {
	Register(ctx context.Context, entry *WaitlistEntry) error
	List(ctx context.Context) ([]*WaitlistEntry, error)
}
