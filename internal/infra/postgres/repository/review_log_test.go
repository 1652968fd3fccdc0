package repository

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
)

func TestReviewLogRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewReviewLogRepository(mock)

	now := time.Date(2025, 2, 2, 8, 0, 0, 0, time.UTC)
	p := &entities.UserCardProgress{UserID: 1, CardID: 2, Schedule: entities.Schedule{Stage: entities.StageTransition, Ease: 2.5}}
	out := p.ApplyReview(false, false, now)
	entry := entities.NewCardReviewLog(p, 30, 40, false, out.StageBefore, now)

	mock.ExpectQuery(`INSERT INTO card_review_log`).
		WithArgs(int64(1), int64(2), int64(30), int64(40), false,
			pgxmock.AnyArg(), pgxmock.AnyArg(), "learning",
			pgxmock.AnyArg(), 240, 2.4, 1, 1, now).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(77)))

	require.NoError(t, repo.Create(context.Background(), entry))
	assert.Equal(t, int64(77), entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewLogRepository_ListByCard(t *testing.T) {
	mock := newMock(t)
	repo := NewReviewLogRepository(mock)

	created := time.Date(2025, 2, 2, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`ORDER BY created_at DESC, id DESC\s+LIMIT \$3`).
		WithArgs(int64(1), int64(2), 50).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "card_id", "note_id", "deck_id", "correct", "stage_before", "stage_after",
			"status_after", "due_at_after", "interval_after", "ease_after", "reps_after", "lapses_after", "created_at",
		}).
			AddRow(int64(9), int64(1), int64(2), int64(3), int64(4), true, nil, nil, "learning", nil, 240, 2.55, 1, 0, created).
			AddRow(int64(8), int64(1), int64(2), int64(3), int64(4), false, nil, nil, "", nil, 0, 0.0, 0, 0, created))

	logs, err := repo.ListByCard(context.Background(), 1, 2, 50)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, int64(9), logs[0].ID)
	assert.Equal(t, entities.StatusLearning, logs[0].StatusAfter)
	assert.Equal(t, entities.StageNone, logs[0].StageBefore)
	assert.Equal(t, created, logs[1].CreatedAt)
}
