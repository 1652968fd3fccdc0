package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
	"github.com/aliskhannn/nihon-flash/internal/infra/postgres"
)

var ErrCardNotFound = errors.New("card not found")

// studyCardSelect joins a card with its deck and one user's progress ($1).
const studyCardSelect = `
	SELECT c.id, c.note_id, c.card_template_id, c.mnemonic,
	       c.status, c.stage, c.interval_minutes, c.ease, c.due_at, c.last_reviewed_at, c.reps, c.lapses,
	       n.deck_id,
	       p.status, p.stage, p.interval_minutes, p.ease, p.due_at, p.last_reviewed_at, p.reps, p.lapses
	FROM cards c
	JOIN notes n ON n.id = c.note_id
`

// CardRepository stores cards and answers per-user study queries over them.
type CardRepository struct {
	db postgres.DBTX
}

func NewCardRepository(db postgres.DBTX) *CardRepository {
	return &CardRepository{db: db}
}

// Create inserts a card with its fallback schedule and sets its ID.
func (r *CardRepository) Create(ctx context.Context, c *entities.Card) error {
	query := `
		INSERT INTO cards (note_id, card_template_id, mnemonic, status, stage,
		                   interval_minutes, ease, due_at, last_reviewed_at, reps, lapses)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := postgres.Executor(ctx, r.db).QueryRow(ctx, query,
		c.NoteID, c.CardTemplateID, c.Mnemonic, string(c.Status), c.Stage.Ptr(),
		c.IntervalMinutes, c.Ease, c.DueAt, c.LastReviewedAt, c.Reps, c.Lapses,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("create card: %w", err)
	}

	return nil
}

// GetForUser retrieves a card with userID's progress, if any.
func (r *CardRepository) GetForUser(ctx context.Context, userID, cardID int64) (*entities.StudyCard, error) {
	query := studyCardSelect + `
		LEFT JOIN user_card_progress p ON p.card_id = c.id AND p.user_id = $1
		WHERE c.id = $2
	`

	sc, err := scanStudyCard(postgres.Executor(ctx, r.db).QueryRow(ctx, query, userID, cardID), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("get card: %w", err)
	}

	return sc, nil
}

// ListForUser retrieves the given cards with userID's progress. Unknown IDs
// are skipped.
func (r *CardRepository) ListForUser(ctx context.Context, userID int64, cardIDs []int64) ([]entities.StudyCard, error) {
	query := studyCardSelect + `
		LEFT JOIN user_card_progress p ON p.card_id = c.id AND p.user_id = $1
		WHERE c.id = ANY($2)
		ORDER BY c.id
	`
	return r.list(ctx, "list cards", userID, query, userID, cardIDs)
}

// ListUnstarted returns cards of a deck the user has never reviewed.
func (r *CardRepository) ListUnstarted(ctx context.Context, userID, deckID int64, limit int) ([]entities.StudyCard, error) {
	query := studyCardSelect + `
		LEFT JOIN user_card_progress p ON p.card_id = c.id AND p.user_id = $1
		WHERE n.deck_id = $2 AND p.card_id IS NULL
		ORDER BY c.id
		LIMIT $3
	`
	return r.list(ctx, "list unstarted cards", userID, query, userID, deckID, limit)
}

// ListDeck returns every card of a deck with userID's progress.
func (r *CardRepository) ListDeck(ctx context.Context, userID, deckID int64) ([]entities.StudyCard, error) {
	query := studyCardSelect + `
		LEFT JOIN user_card_progress p ON p.card_id = c.id AND p.user_id = $1
		WHERE n.deck_id = $2
		ORDER BY c.id
	`
	return r.list(ctx, "list deck cards", userID, query, userID, deckID)
}

// ListReviews returns started cards of a deck that are neither new nor
// suspended. With dueOnly set, cards due after now are left out.
func (r *CardRepository) ListReviews(
	ctx context.Context,
	userID, deckID int64,
	dueOnly bool,
	now time.Time,
	limit int,
) ([]entities.StudyCard, error) {
	query := studyCardSelect + `
		JOIN user_card_progress p ON p.card_id = c.id AND p.user_id = $1
		WHERE n.deck_id = $2
		  AND p.status NOT IN ('new', 'suspended')
		  AND (NOT $3 OR p.due_at IS NULL OR p.due_at <= $4)
		ORDER BY p.due_at NULLS FIRST, c.id
		LIMIT $5
	`
	return r.list(ctx, "list review cards", userID, query, userID, deckID, dueOnly, now, limit)
}

func (r *CardRepository) list(ctx context.Context, op string, userID int64, query string, args ...any) ([]entities.StudyCard, error) {
	rows, err := postgres.Executor(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var cards []entities.StudyCard
	for rows.Next() {
		sc, err := scanStudyCard(rows, userID)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, *sc)
	}

	return cards, rows.Err()
}

func scanStudyCard(row pgx.Row, userID int64) (*entities.StudyCard, error) {
	var (
		sc          entities.StudyCard
		cardStatus  string
		cardStage   *string
		pStatus     *string
		pStage      *string
		pInterval   *int
		pEase       *float64
		pDueAt      *time.Time
		pReviewedAt *time.Time
		pReps       *int
		pLapses     *int
	)

	c := &sc.Card
	if err := row.Scan(
		&c.ID, &c.NoteID, &c.CardTemplateID, &c.Mnemonic,
		&cardStatus, &cardStage, &c.IntervalMinutes, &c.Ease, &c.DueAt, &c.LastReviewedAt, &c.Reps, &c.Lapses,
		&sc.DeckID,
		&pStatus, &pStage, &pInterval, &pEase, &pDueAt, &pReviewedAt, &pReps, &pLapses,
	); err != nil {
		return nil, err
	}
	c.Status = entities.CardStatus(cardStatus)
	c.Stage = entities.StageFromPtr(cardStage)

	if pStatus == nil {
		return &sc, nil
	}

	p := &entities.UserCardProgress{UserID: userID, CardID: c.ID}
	p.Status = entities.CardStatus(*pStatus)
	p.Stage = entities.StageFromPtr(pStage)
	p.IntervalMinutes = deref(pInterval)
	p.Ease = deref(pEase)
	p.DueAt = pDueAt
	p.LastReviewedAt = pReviewedAt
	p.Reps = deref(pReps)
	p.Lapses = deref(pLapses)
	sc.Progress = p

	return &sc, nil
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
