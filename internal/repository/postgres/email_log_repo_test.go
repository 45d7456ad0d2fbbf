package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"parishlaunch/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var emailLogCols = []string{"id", "campaign_id", "recipient_email", "recipient_name", "status", "error", "metadata", "sent_at"}

func TestEmailLogRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	name := "Ada Lovelace"

	t.Run("sent with metadata", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO email_logs \(campaign_id, recipient_email, recipient_name, status, error, metadata, sent_at\)`).
			WithArgs(int64(7), "ada@example.com", &name, domain.LogStatusSent, nil, []byte(`{"messageId":"msg-1"}`), now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

		repo := NewEmailLogRepository(db)
		entry := &domain.EmailLog{
			CampaignID:     7,
			RecipientEmail: "ada@example.com",
			RecipientName:  &name,
			Status:         domain.LogStatusSent,
			Metadata:       []byte(`{"messageId":"msg-1"}`),
			SentAt:         now,
		}
		require.NoError(t, repo.Create(ctx, entry))
		require.Equal(t, int64(1), entry.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed with error text", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		errText := "mailbox full"
		mock.ExpectQuery(`INSERT INTO email_logs`).
			WithArgs(int64(7), "ada@example.com", &name, domain.LogStatusFailed, &errText, nil, now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))

		repo := NewEmailLogRepository(db)
		entry := &domain.EmailLog{
			CampaignID:     7,
			RecipientEmail: "ada@example.com",
			RecipientName:  &name,
			Status:         domain.LogStatusFailed,
			Error:          &errText,
			SentAt:         now,
		}
		require.NoError(t, repo.Create(ctx, entry))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO email_logs`).
			WillReturnError(sql.ErrConnDone)

		repo := NewEmailLogRepository(db)
		err = repo.Create(ctx, &domain.EmailLog{CampaignID: 7, RecipientEmail: "x@y.com", Status: domain.LogStatusSent, SentAt: now})
		require.Error(t, err)
	})
}

func TestEmailLogRepository_List(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("all logs", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, campaign_id, recipient_email, recipient_name, status, error, metadata, sent_at FROM email_logs ORDER BY sent_at DESC, id DESC`).
			WillReturnRows(sqlmock.NewRows(emailLogCols).
				AddRow(int64(2), int64(7), "b@example.com", "B Person", domain.LogStatusFailed, "timeout", nil, now).
				AddRow(int64(1), int64(7), "a@example.com", "A Person", domain.LogStatusSent, nil, []byte(`{"messageId":"m1"}`), now))

		repo := NewEmailLogRepository(db)
		logs, err := repo.List(ctx, nil)
		require.NoError(t, err)
		require.Len(t, logs, 2)
		require.Equal(t, domain.LogStatusFailed, logs[0].Status)
		require.NotNil(t, logs[0].Error)
		require.Equal(t, "timeout", *logs[0].Error)
		require.Nil(t, logs[1].Error)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filtered by campaign", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM email_logs WHERE campaign_id = \$1 ORDER BY sent_at DESC, id DESC`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(emailLogCols).
				AddRow(int64(1), int64(7), "a@example.com", nil, domain.LogStatusSent, nil, nil, now))

		repo := NewEmailLogRepository(db)
		id := int64(7)
		logs, err := repo.List(ctx, &id)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		require.Nil(t, logs[0].RecipientName)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result is not nil", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM email_logs ORDER BY sent_at DESC, id DESC`).
			WillReturnRows(sqlmock.NewRows(emailLogCols))

		repo := NewEmailLogRepository(db)
		logs, err := repo.List(ctx, nil)
		require.NoError(t, err)
		require.NotNil(t, logs)
		require.Empty(t, logs)
	})
}

func TestEmailLogRepository_ListByRecipient(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM email_logs WHERE recipient_email = \$1 ORDER BY sent_at DESC, id DESC`).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows(emailLogCols).
			AddRow(int64(3), int64(8), "a@example.com", nil, domain.LogStatusSent, nil, nil, now).
			AddRow(int64(1), int64(7), "a@example.com", nil, domain.LogStatusSent, nil, nil, now))

	repo := NewEmailLogRepository(db)
	logs, err := repo.ListByRecipient(ctx, "a@example.com")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, int64(8), logs[0].CampaignID)
	require.NoError(t, mock.ExpectationsWereMet())
}
