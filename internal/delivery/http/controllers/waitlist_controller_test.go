package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"parishlaunch/internal/delivery/http/helpers"
	"parishlaunch/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWaitlistService implements domain.WaitlistService for handler tests.
type fakeWaitlistService struct {
	registerErr error
	listResult  []*domain.WaitlistEntry
	listErr     error
	lastEntry   *domain.WaitlistEntry
}

func (f *fakeWaitlistService) Register(ctx context.Context, entry *domain.WaitlistEntry) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	entry.ID = 1
	f.lastEntry = entry
	return nil
}

func (f *fakeWaitlistService) List(ctx context.Context) ([]*domain.WaitlistEntry, error) {
	return f.listResult, f.listErr
}

func TestWaitlistController_Register(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeWaitlistService{}
		ctrl := NewWaitlistController(testLogger, svc)
		body := `{"fullName":"Ada Lovelace","email":"ada@example.com","role":"parishioner","parish":"St. Mary"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/waitlist", bytes.NewBufferString(body))
		ctrl.Register(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		require.NotNil(t, svc.lastEntry)
		assert.Equal(t, "Ada Lovelace", svc.lastEntry.FullName)
		require.NotNil(t, svc.lastEntry.Parish)
		assert.Equal(t, "St. Mary", *svc.lastEntry.Parish)
	})

	t.Run("missing fields", func(t *testing.T) {
		ctrl := NewWaitlistController(testLogger, &fakeWaitlistService{})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/waitlist", bytes.NewBufferString(`{"email":"a@b.com"}`))
		ctrl.Register(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		_, apiErr := decodeEnvelope(t, w.Body)
		require.NotNil(t, apiErr)
		assert.Equal(t, helpers.ErrCodeBadRequest, apiErr.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		ctrl := NewWaitlistController(testLogger, &fakeWaitlistService{registerErr: domain.ErrDuplicateEmail})
		body := `{"fullName":"Ada Lovelace","email":"ada@example.com","role":"parishioner"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/waitlist", bytes.NewBufferString(body))
		ctrl.Register(w, req)

		require.Equal(t, http.StatusConflict, w.Code)
		_, apiErr := decodeEnvelope(t, w.Body)
		require.NotNil(t, apiErr)
		assert.Equal(t, helpers.ErrCodeConflict, apiErr.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		ctrl := NewWaitlistController(testLogger, &fakeWaitlistService{})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/waitlist", bytes.NewBufferString(`not json`))
		ctrl.Register(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestWaitlistController_List(t *testing.T) {
	t.Run("returns entries", func(t *testing.T) {
		svc := &fakeWaitlistService{listResult: []*domain.WaitlistEntry{
			{ID: 1, FullName: "Ada Lovelace", Email: "ada@example.com", Role: "parishioner"},
		}}
		ctrl := NewWaitlistController(testLogger, svc)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/waitlist", nil)
		ctrl.List(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ada@example.com")
	})

	t.Run("nil result encodes as empty array", func(t *testing.T) {
		ctrl := NewWaitlistController(testLogger, &fakeWaitlistService{})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/waitlist", nil)
		ctrl.List(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":[],"error":null}`, w.Body.String())
	})
}
