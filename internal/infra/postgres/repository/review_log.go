package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
	"github.com/aliskhannn/nihon-flash/internal/infra/postgres"
)

// ReviewLogRepository appends and reads review transitions. Entries are
// never updated.
type ReviewLogRepository struct {
	db postgres.DBTX
}

func NewReviewLogRepository(db postgres.DBTX) *ReviewLogRepository {
	return &ReviewLogRepository{db: db}
}

// Create appends a log entry and sets its ID.
func (r *ReviewLogRepository) Create(ctx context.Context, l *entities.CardReviewLog) error {
	query := `
		INSERT INTO card_review_log (
			user_id, card_id, note_id, deck_id, correct, stage_before, stage_after,
			status_after, due_at_after, interval_after, ease_after, reps_after, lapses_after, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	err := postgres.Executor(ctx, r.db).QueryRow(ctx, query,
		l.UserID, l.CardID, l.NoteID, l.DeckID, l.Correct,
		l.StageBefore.Ptr(), l.StageAfter.Ptr(), string(l.StatusAfter),
		l.DueAtAfter, l.IntervalAfter, l.EaseAfter, l.RepsAfter, l.LapsesAfter, l.CreatedAt,
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("create review log: %w", err)
	}

	return nil
}

// ListByCard returns a user's entries for a card, newest first.
func (r *ReviewLogRepository) ListByCard(ctx context.Context, userID, cardID int64, limit int) ([]entities.CardReviewLog, error) {
	query := `
		SELECT id, user_id, card_id, note_id, deck_id, correct, stage_before, stage_after,
		       COALESCE(status_after, ''), due_at_after, COALESCE(interval_after, 0),
		       COALESCE(ease_after, 0), COALESCE(reps_after, 0), COALESCE(lapses_after, 0), created_at
		FROM card_review_log
		WHERE user_id = $1 AND card_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`

	rows, err := postgres.Executor(ctx, r.db).Query(ctx, query, userID, cardID, limit)
	if err != nil {
		return nil, fmt.Errorf("list review logs: %w", err)
	}
	defer rows.Close()

	var logs []entities.CardReviewLog
	for rows.Next() {
		var l entities.CardReviewLog
		var stageBefore, stageAfter *string
		var status string
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.CardID, &l.NoteID, &l.DeckID, &l.Correct, &stageBefore, &stageAfter,
			&status, &l.DueAtAfter, &l.IntervalAfter, &l.EaseAfter, &l.RepsAfter, &l.LapsesAfter, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review log: %w", err)
		}
		l.StageBefore = entities.StageFromPtr(stageBefore)
		l.StageAfter = entities.StageFromPtr(stageAfter)
		l.StatusAfter = entities.CardStatus(status)
		logs = append(logs, l)
	}

	return logs, rows.Err()
}
