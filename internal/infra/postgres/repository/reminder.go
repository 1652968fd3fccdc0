package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
	"github.com/aliskhannn/nihon-flash/internal/infra/postgres"
)

var ErrReminderNotFound = errors.New("reminder not found")

// ReminderRepository provides access to user reminder data in the database.
type ReminderRepository struct {
	db postgres.DBTX
}

// NewReminderRepository creates a new ReminderRepository.
func NewReminderRepository(db postgres.DBTX) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// GetByUserID retrieves reminder settings for a user.
func (r *ReminderRepository) GetByUserID(ctx context.Context, userID int64) (*entities.UserReminders, error) {
	query := `
		SELECT user_id, is_enabled, interval_hours, start_time::text, end_time::text, timezone,
		       last_sent_at, next_send_at, created_at, updated_at
		FROM user_reminders
		WHERE user_id = $1
	`

	var reminder entities.UserReminders
	var lastSent pgtype.Timestamptz
	var nextSend pgtype.Timestamptz

	err := postgres.Executor(ctx, r.db).QueryRow(ctx, query, userID).Scan(
		&reminder.UserID,
		&reminder.IsEnabled,
		&reminder.IntervalHours,
		&reminder.StartTime,
		&reminder.EndTime,
		&reminder.Timezone,
		&lastSent,
		&nextSend,
		&reminder.CreatedAt,
		&reminder.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReminderNotFound
		}
		return nil, fmt.Errorf("get reminder: %w", err)
	}

	reminder.LastSentAt = timePtr(lastSent)
	reminder.NextSendAt = timePtr(nextSend)

	return &reminder, nil
}

// Upsert creates or updates reminder settings.
func (r *ReminderRepository) Upsert(ctx context.Context, reminder *entities.UserReminders) error {
	query := `
		INSERT INTO user_reminders (
			user_id, is_enabled, interval_hours, start_time, end_time, timezone,
			last_sent_at, next_send_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4::time, $5::time, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			is_enabled = EXCLUDED.is_enabled,
			interval_hours = EXCLUDED.interval_hours,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			timezone = EXCLUDED.timezone,
			last_sent_at = EXCLUDED.last_sent_at,
			next_send_at = EXCLUDED.next_send_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := postgres.Executor(ctx, r.db).Exec(
		ctx,
		query,
		reminder.UserID,
		reminder.IsEnabled,
		reminder.IntervalHours,
		reminder.StartTime,
		reminder.EndTime,
		reminder.Timezone,
		reminder.LastSentAt,
		reminder.NextSendAt,
		reminder.CreatedAt,
		reminder.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert reminder: %w", err)
	}

	return nil
}

// GetDueRemindersBatch retrieves enabled reminders of users with a linked
// Telegram chat whose slot has come (paginated).
func (r *ReminderRepository) GetDueRemindersBatch(ctx context.Context, now time.Time, limit, offset int) ([]*entities.ReminderTarget, error) {
	query := `
		SELECT
			ur.user_id,
			u.telegram_chat_id,
			ur.is_enabled,
			ur.interval_hours,
			ur.start_time::text,
			ur.end_time::text,
			ur.timezone,
			ur.last_sent_at,
			ur.next_send_at
		FROM user_reminders ur
		INNER JOIN users u ON ur.user_id = u.id
		WHERE ur.is_enabled = true
			AND u.telegram_chat_id IS NOT NULL
			AND (ur.next_send_at IS NULL OR ur.next_send_at <= $1)
		ORDER BY ur.next_send_at NULLS FIRST, ur.user_id
		LIMIT $2 OFFSET $3
	`

	rows, err := postgres.Executor(ctx, r.db).Query(ctx, query, now, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("get due reminders batch: %w", err)
	}
	defer rows.Close()

	var targets []*entities.ReminderTarget
	for rows.Next() {
		var t entities.ReminderTarget
		var lastSent pgtype.Timestamptz
		var nextSend pgtype.Timestamptz

		if err := rows.Scan(
			&t.UserID,
			&t.ChatID,
			&t.IsEnabled,
			&t.IntervalHours,
			&t.StartTime,
			&t.EndTime,
			&t.Timezone,
			&lastSent,
			&nextSend,
		); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}

		t.LastSentAt = timePtr(lastSent)
		t.NextSendAt = timePtr(nextSend)
		targets = append(targets, &t)
	}

	return targets, rows.Err()
}

// DueByDeck counts the user's started, unsuspended cards due at now, per deck.
func (r *ReminderRepository) DueByDeck(ctx context.Context, userID int64, now time.Time) ([]entities.DeckDue, error) {
	query := `
		SELECT d.id, d.name, COUNT(*)
		FROM user_card_progress p
		JOIN cards c ON c.id = p.card_id
		JOIN notes n ON n.id = c.note_id
		JOIN decks d ON d.id = n.deck_id
		WHERE p.user_id = $1
		  AND p.status NOT IN ('new', 'suspended')
		  AND p.due_at <= $2
		GROUP BY d.id, d.name
		ORDER BY COUNT(*) DESC, d.id
	`

	rows, err := postgres.Executor(ctx, r.db).Query(ctx, query, userID, now)
	if err != nil {
		return nil, fmt.Errorf("count due cards: %w", err)
	}
	defer rows.Close()

	var out []entities.DeckDue
	for rows.Next() {
		var d entities.DeckDue
		if err := rows.Scan(&d.DeckID, &d.DeckName, &d.Due); err != nil {
			return nil, fmt.Errorf("scan due count: %w", err)
		}
		out = append(out, d)
	}

	return out, rows.Err()
}

// UpdateAfterSend updates last_sent_at and next_send_at after sending a reminder.
func (r *ReminderRepository) UpdateAfterSend(ctx context.Context, userID int64, sentAt, nextSendAt time.Time) error {
	query := `
		UPDATE user_reminders
		SET last_sent_at = $1,
		    next_send_at = $2,
		    updated_at = $3
		WHERE user_id = $4
	`

	result, err := postgres.Executor(ctx, r.db).Exec(ctx, query, sentAt, nextSendAt, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("update after send: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrReminderNotFound
	}

	return nil
}

// Reschedule moves next_send_at without marking a send.
func (r *ReminderRepository) Reschedule(ctx context.Context, userID int64, nextSendAt time.Time) error {
	query := "UPDATE user_reminders SET next_send_at = $1, updated_at = $2 WHERE user_id = $3"

	result, err := postgres.Executor(ctx, r.db).Exec(ctx, query, nextSendAt, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("reschedule reminder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrReminderNotFound
	}

	return nil
}
