package services

import (
	"context"
	"errors"
	"testing"

	"parishlaunch/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitlistRegister(t *testing.T) {
	repo := &fakeWaitlistRepo{}
	svc := NewWaitlistService(repo)

	entry := &domain.WaitlistEntry{
		FullName: "  Grace Hopper  ",
		Email:    "Grace@Example.COM",
		Role:     "parishioner",
	}
	require.NoError(t, svc.Register(context.Background(), entry))
	assert.Equal(t, int64(1), entry.ID)
	assert.Equal(t, "Grace Hopper", entry.FullName)
	assert.Equal(t, "grace@example.com", entry.Email, "email is normalized to lowercase")
	assert.False(t, entry.CreatedAt.IsZero())

	t.Run("duplicate email", func(t *testing.T) {
		dup := &domain.WaitlistEntry{FullName: "Grace H", Email: "grace@example.com", Role: "priest"}
		err := svc.Register(context.Background(), dup)
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})

	t.Run("name too short", func(t *testing.T) {
		err := svc.Register(context.Background(), &domain.WaitlistEntry{FullName: "G", Email: "g@example.com", Role: "member"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("invalid email", func(t *testing.T) {
		err := svc.Register(context.Background(), &domain.WaitlistEntry{FullName: "Good Name", Email: "nope", Role: "member"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing role", func(t *testing.T) {
		err := svc.Register(context.Background(), &domain.WaitlistEntry{FullName: "Good Name", Email: "ok@example.com", Role: "  "})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestWaitlistList(t *testing.T) {
	repo := &fakeWaitlistRepo{}
	svc := NewWaitlistService(repo)

	entries, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	require.NoError(t, svc.Register(context.Background(), &domain.WaitlistEntry{FullName: "First Person", Email: "one@example.com", Role: "member"}))
	require.NoError(t, svc.Register(context.Background(), &domain.WaitlistEntry{FullName: "Second Person", Email: "two@example.com", Role: "member"}))

	entries, err = svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "one@example.com", entries[0].Email, "insertion order is preserved")

	t.Run("repo error is wrapped", func(t *testing.T) {
		repo.listErr = errors.New("connection refused")
		_, err := svc.List(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list waitlist entries")
	})
}
