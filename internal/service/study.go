package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
	"github.com/aliskhannn/nihon-flash/internal/infra/postgres/repository"
	"github.com/aliskhannn/nihon-flash/internal/render"
)

const (
	DefaultStudyLimit  = 5
	MaxStudyLimit      = 50
	DefaultReviewLimit = 20
	MaxReviewLimit     = 100
	DefaultLogLimit    = 50
	MaxLogLimit        = 200
)

// CardView is a rendered card with the schedule that applies to the viewer.
type CardView struct {
	Card         entities.Card
	DeckID       int64
	TemplateName string
	Front        string
	Back         string
	Schedule     entities.Schedule
	Started      bool
}

// StudyResult is the outcome of one card in an initial study session.
type StudyResult struct {
	CardID  int64
	Correct bool
}

// StudyService runs the study and review flow on top of per-user progress.
type StudyService struct {
	tx        Transactor
	decks     DeckRepository
	noteTypes NoteTypeRepository
	notes     NoteRepository
	cards     CardRepository
	progress  ProgressRepository
	logs      ReviewLogRepository
	now       func() time.Time
	logger    *zap.Logger
}

func NewStudyService(
	tx Transactor,
	decks DeckRepository,
	noteTypes NoteTypeRepository,
	notes NoteRepository,
	cards CardRepository,
	progress ProgressRepository,
	logs ReviewLogRepository,
	logger *zap.Logger,
) *StudyService {
	return &StudyService{
		tx:        tx,
		decks:     decks,
		noteTypes: noteTypes,
		notes:     notes,
		cards:     cards,
		progress:  progress,
		logs:      logs,
		now:       time.Now,
		logger:    logger,
	}
}

// StudyBatch returns up to limit cards of the deck the user has not started.
func (s *StudyService) StudyBatch(ctx context.Context, userID, deckID int64, limit int) ([]CardView, error) {
	if limit < 1 || limit > MaxStudyLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrValidation, MaxStudyLimit)
	}
	if _, err := readableDeck(ctx, s.decks, userID, deckID); err != nil {
		return nil, err
	}

	cards, err := s.cards.ListUnstarted(ctx, userID, deckID, limit)
	if err != nil {
		return nil, fmt.Errorf("list unstarted cards: %w", err)
	}
	return s.render(ctx, cards)
}

// SubmitStudy records an initial review for every result. All card IDs must
// belong to the deck; the whole batch is written in one transaction.
func (s *StudyService) SubmitStudy(ctx context.Context, userID, deckID int64, results []StudyResult) (int, error) {
	if _, err := readableDeck(ctx, s.decks, userID, deckID); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}

	outcome := make(map[int64]bool, len(results))
	ids := make([]int64, 0, len(results))
	for _, r := range results {
		if _, seen := outcome[r.CardID]; !seen {
			ids = append(ids, r.CardID)
		}
		outcome[r.CardID] = r.Correct
	}

	cards, err := s.cards.ListForUser(ctx, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("list cards: %w", err)
	}
	inDeck := 0
	for _, c := range cards {
		if c.DeckID == deckID {
			inDeck++
		}
	}
	if len(cards) != len(ids) || inDeck != len(ids) {
		return 0, fmt.Errorf("%w: invalid card ids for this deck", ErrValidation)
	}

	now := s.now().UTC()
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for i := range cards {
			if _, err := s.review(ctx, userID, &cards[i], outcome[cards[i].Card.ID], true, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("submit study: %w", err)
	}

	s.logger.Info("study submitted",
		zap.Int64("user_id", userID),
		zap.Int64("deck_id", deckID),
		zap.Int("cards", len(cards)),
	)
	return len(cards), nil
}

// ReviewQueue returns the user's started cards of a deck, most overdue first.
func (s *StudyService) ReviewQueue(ctx context.Context, userID, deckID int64, dueOnly bool, limit int) ([]CardView, error) {
	if limit < 1 || limit > MaxReviewLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrValidation, MaxReviewLimit)
	}
	if _, err := readableDeck(ctx, s.decks, userID, deckID); err != nil {
		return nil, err
	}

	cards, err := s.cards.ListReviews(ctx, userID, deckID, dueOnly, s.now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("list review cards: %w", err)
	}
	return s.render(ctx, cards)
}

// Review applies a non-initial review to one card and logs the transition.
func (s *StudyService) Review(ctx context.Context, userID, cardID int64, correct bool) (*entities.UserCardProgress, error) {
	card, err := s.readableCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	var progress *entities.UserCardProgress
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		progress, err = s.review(ctx, userID, card, correct, false, s.now().UTC())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("review card: %w", err)
	}

	s.logger.Debug("card reviewed",
		zap.Int64("user_id", userID),
		zap.Int64("card_id", cardID),
		zap.Bool("correct", correct),
		zap.String("stage", string(progress.Stage)),
	)
	return progress, nil
}

// review loads or seeds progress, applies the scheduler and persists both the
// progress and a log entry. It must run inside a transaction.
func (s *StudyService) review(
	ctx context.Context,
	userID int64,
	card *entities.StudyCard,
	correct, initial bool,
	now time.Time,
) (*entities.UserCardProgress, error) {
	progress, err := s.loadProgress(ctx, userID, card)
	if err != nil {
		return nil, err
	}
	if progress.Status == entities.StatusSuspended {
		return nil, fmt.Errorf("%w: card %d is suspended", ErrValidation, card.Card.ID)
	}

	out := progress.ApplyReview(correct, initial, now)

	if err := s.progress.Upsert(ctx, progress); err != nil {
		return nil, err
	}
	entry := entities.NewCardReviewLog(progress, card.Card.NoteID, card.DeckID, correct, out.StageBefore, now)
	if err := s.logs.Create(ctx, entry); err != nil {
		return nil, err
	}

	return progress, nil
}

// SetSuspended suspends a card for the user or restores the status implied
// by its stage.
func (s *StudyService) SetSuspended(ctx context.Context, userID, cardID int64, suspended bool) (*entities.UserCardProgress, error) {
	card, err := s.readableCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	var progress *entities.UserCardProgress
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if progress, err = s.loadProgress(ctx, userID, card); err != nil {
			return err
		}
		if suspended {
			progress.Suspend()
		} else {
			progress.Resume()
		}
		return s.progress.Upsert(ctx, progress)
	})
	if err != nil {
		return nil, fmt.Errorf("set suspension: %w", err)
	}
	return progress, nil
}

// Logs returns the user's review history for a card, newest first.
func (s *StudyService) Logs(ctx context.Context, userID, cardID int64, limit int) ([]entities.CardReviewLog, error) {
	if limit < 1 || limit > MaxLogLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrValidation, MaxLogLimit)
	}
	if _, err := s.readableCard(ctx, userID, cardID); err != nil {
		return nil, err
	}

	logs, err := s.logs.ListByCard(ctx, userID, cardID, limit)
	if err != nil {
		return nil, fmt.Errorf("list review logs: %w", err)
	}
	return logs, nil
}

// DeckStats aggregates the user's progress over a deck.
func (s *StudyService) DeckStats(ctx context.Context, userID, deckID int64) (entities.DeckStats, error) {
	if _, err := readableDeck(ctx, s.decks, userID, deckID); err != nil {
		return entities.DeckStats{}, err
	}

	cards, err := s.cards.ListDeck(ctx, userID, deckID)
	if err != nil {
		return entities.DeckStats{}, fmt.Errorf("list deck cards: %w", err)
	}
	return entities.ComputeDeckStats(cards, s.now()), nil
}

// DeckCards returns every card of the deck rendered with the user's
// effective schedule.
func (s *StudyService) DeckCards(ctx context.Context, userID, deckID int64) ([]CardView, error) {
	if _, err := readableDeck(ctx, s.decks, userID, deckID); err != nil {
		return nil, err
	}

	cards, err := s.cards.ListDeck(ctx, userID, deckID)
	if err != nil {
		return nil, fmt.Errorf("list deck cards: %w", err)
	}
	return s.render(ctx, cards)
}

func (s *StudyService) readableCard(ctx context.Context, userID, cardID int64) (*entities.StudyCard, error) {
	card, err := s.cards.GetForUser(ctx, userID, cardID)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			return nil, fmt.Errorf("%w: card %d", ErrNotFound, cardID)
		}
		return nil, fmt.Errorf("get card: %w", err)
	}
	if _, err := readableDeck(ctx, s.decks, userID, card.DeckID); err != nil {
		return nil, err
	}
	return card, nil
}

// loadProgress returns the user's progress on card, locked for the rest of
// the transaction. A missing row is seeded from the card defaults first so
// that concurrent first reviews serialize on it.
func (s *StudyService) loadProgress(ctx context.Context, userID int64, card *entities.StudyCard) (*entities.UserCardProgress, error) {
	progress, err := s.progress.Get(ctx, userID, card.Card.ID)
	if errors.Is(err, repository.ErrProgressNotFound) {
		if err := s.progress.Seed(ctx, entities.NewUserCardProgress(userID, &card.Card)); err != nil {
			return nil, err
		}
		progress, err = s.progress.Get(ctx, userID, card.Card.ID)
	}
	if err != nil {
		return nil, err
	}
	return progress, nil
}

func (s *StudyService) render(ctx context.Context, cards []entities.StudyCard) ([]CardView, error) {
	views := make([]CardView, 0, len(cards))
	if len(cards) == 0 {
		return views, nil
	}

	templateIDs := make([]int64, 0, len(cards))
	noteIDs := make([]int64, 0, len(cards))
	for _, c := range cards {
		templateIDs = append(templateIDs, c.Card.CardTemplateID)
		noteIDs = append(noteIDs, c.Card.NoteID)
	}

	templates, err := s.noteTypes.TemplatesByIDs(ctx, templateIDs)
	if err != nil {
		return nil, fmt.Errorf("get card templates: %w", err)
	}
	values, err := s.notes.ValuesByNoteIDs(ctx, noteIDs)
	if err != nil {
		return nil, fmt.Errorf("get note values: %w", err)
	}

	for i := range cards {
		c := &cards[i]
		tpl := templates[c.Card.CardTemplateID]
		face := render.Card(tpl, values[c.Card.NoteID])
		views = append(views, CardView{
			Card:         c.Card,
			DeckID:       c.DeckID,
			TemplateName: tpl.Name,
			Front:        face.Front,
			Back:         face.Back,
			Schedule:     c.Effective(),
			Started:      c.Started(),
		})
	}
	return views, nil
}
