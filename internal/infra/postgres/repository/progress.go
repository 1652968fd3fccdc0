package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
	"github.com/aliskhannn/nihon-flash/internal/infra/postgres"
)

var ErrProgressNotFound = errors.New("progress not found")

// ProgressRepository provides access to per-user card progress.
type ProgressRepository struct {
	db postgres.DBTX
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(db postgres.DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Upsert creates or replaces the progress record for (user, card).
func (r *ProgressRepository) Upsert(ctx context.Context, p *entities.UserCardProgress) error {
	query := `
		INSERT INTO user_card_progress (
			user_id, card_id, status, stage, interval_minutes, ease,
			due_at, last_reviewed_at, reps, lapses
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, card_id) DO UPDATE SET
			status = EXCLUDED.status,
			stage = EXCLUDED.stage,
			interval_minutes = EXCLUDED.interval_minutes,
			ease = EXCLUDED.ease,
			due_at = EXCLUDED.due_at,
			last_reviewed_at = EXCLUDED.last_reviewed_at,
			reps = EXCLUDED.reps,
			lapses = EXCLUDED.lapses
	`

	_, err := postgres.Executor(ctx, r.db).Exec(ctx, query, progressArgs(p)...)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}

	return nil
}

// Seed inserts p unless progress for (user, card) already exists. A
// concurrent seed of the same row blocks until the other transaction ends.
func (r *ProgressRepository) Seed(ctx context.Context, p *entities.UserCardProgress) error {
	query := `
		INSERT INTO user_card_progress (
			user_id, card_id, status, stage, interval_minutes, ease,
			due_at, last_reviewed_at, reps, lapses
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, card_id) DO NOTHING
	`

	if _, err := postgres.Executor(ctx, r.db).Exec(ctx, query, progressArgs(p)...); err != nil {
		return fmt.Errorf("seed progress: %w", err)
	}

	return nil
}

func progressArgs(p *entities.UserCardProgress) []any {
	return []any{
		p.UserID,
		p.CardID,
		string(p.Status),
		p.Stage.Ptr(),
		p.IntervalMinutes,
		p.Ease,
		p.DueAt,
		p.LastReviewedAt,
		p.Reps,
		p.Lapses,
	}
}

// Get retrieves the progress record for (user, card). Inside a transaction
// the row stays locked until commit.
func (r *ProgressRepository) Get(ctx context.Context, userID, cardID int64) (*entities.UserCardProgress, error) {
	query := `
		SELECT user_id, card_id, status, stage, interval_minutes, ease,
		       due_at, last_reviewed_at, reps, lapses
		FROM user_card_progress
		WHERE user_id = $1 AND card_id = $2
		FOR UPDATE
	`

	var p entities.UserCardProgress
	var status string
	var stage *string

	err := postgres.Executor(ctx, r.db).QueryRow(ctx, query, userID, cardID).Scan(
		&p.UserID,
		&p.CardID,
		&status,
		&stage,
		&p.IntervalMinutes,
		&p.Ease,
		&p.DueAt,
		&p.LastReviewedAt,
		&p.Reps,
		&p.Lapses,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}

	p.Status = entities.CardStatus(status)
	p.Stage = entities.StageFromPtr(stage)
	return &p, nil
}
