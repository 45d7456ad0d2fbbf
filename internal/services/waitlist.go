package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"parishlaunch/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type waitlistService struct {
	waitlistRepo domain.WaitlistRepository
}

// NewWaitlistService creates a WaitlistService with the given repository.
func NewWaitlistService(waitlistRepo domain.WaitlistRepository) domain.WaitlistService {
	return &waitlistService{waitlistRepo: waitlistRepo}
}

func (s *waitlistService) Register(ctx context.Context, entry *domain.WaitlistEntry) error {
	entry.FullName = strings.TrimSpace(entry.FullName)
	entry.Email = strings.TrimSpace(strings.ToLower(entry.Email))
	entry.Role = strings.TrimSpace(entry.Role)
	if len(entry.FullName) < 2 {
		return fmt.Errorf("%w: full name must be at least 2 characters", domain.ErrInvalidInput)
	}
	if !emailRegexp.MatchString(entry.Email) {
		return fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	if entry.Role == "" {
		return fmt.Errorf("%w: role is required", domain.ErrInvalidInput)
	}
	entry.CreatedAt = time.Now()
	if err := s.waitlistRepo.Create(ctx, entry); err != nil {
		if err == domain.ErrDuplicateEmail {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create waitlist entry: %w", err)
	}
	return nil
}

func (s *waitlistService) List(ctx context.Context) ([]*domain.WaitlistEntry, error) {
	entries, err := s.waitlistRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist entries: %w", err)
	}
	if entries == nil {
		entries = []*domain.WaitlistEntry{}
	}
	return entries, nil
}
