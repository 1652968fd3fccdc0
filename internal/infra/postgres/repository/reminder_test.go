package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderRepository_GetByUserIDNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewReminderRepository(mock)

	mock.ExpectQuery(`FROM user_reminders`).WithArgs(int64(3)).WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByUserID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrReminderNotFound)
}

func TestReminderRepository_GetDueRemindersBatch(t *testing.T) {
	mock := newMock(t)
	repo := NewReminderRepository(mock)

	now := time.Date(2025, 5, 5, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`u.telegram_chat_id IS NOT NULL`).
		WithArgs(now, 100, 0).
		WillReturnRows(pgxmock.NewRows([]string{
			"user_id", "telegram_chat_id", "is_enabled", "interval_hours", "start_time", "end_time",
			"timezone", "last_sent_at", "next_send_at",
		}).AddRow(int64(1), int64(4242), true, 2, "08:00:00", "20:00:00", "Asia/Tokyo", nil, nil))

	targets, err := repo.GetDueRemindersBatch(context.Background(), now, 100, 0)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, int64(4242), targets[0].ChatID)
	assert.Equal(t, "Asia/Tokyo", targets[0].Timezone)
	assert.Nil(t, targets[0].NextSendAt)
}

func TestReminderRepository_DueByDeck(t *testing.T) {
	mock := newMock(t)
	repo := NewReminderRepository(mock)

	now := time.Date(2025, 5, 5, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`GROUP BY d.id, d.name`).
		WithArgs(int64(1), now).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "count"}).
			AddRow(int64(2), "Hiragana", 5).
			AddRow(int64(3), "Katakana", 1))

	due, err := repo.DueByDeck(context.Background(), 1, now)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "Hiragana", due[0].DeckName)
	assert.Equal(t, 5, due[0].Due)
}

func TestReminderRepository_UpdateAfterSendMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewReminderRepository(mock)

	now := time.Now()
	mock.ExpectExec(`UPDATE user_reminders`).
		WithArgs(now, now.Add(time.Hour), pgxmock.AnyArg(), int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateAfterSend(context.Background(), 1, now, now.Add(time.Hour))
	assert.ErrorIs(t, err, ErrReminderNotFound)
}
