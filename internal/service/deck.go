package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
	"github.com/aliskhannn/nihon-flash/internal/infra/postgres/repository"
)

type DeckService struct {
	decks  DeckRepository
	logger *zap.Logger
}

func NewDeckService(decks DeckRepository, logger *zap.Logger) *DeckService {
	return &DeckService{decks: decks, logger: logger}
}

// List returns the decks userID can see.
func (s *DeckService) List(ctx context.Context, userID int64) ([]*entities.Deck, error) {
	decks, err := s.decks.ListVisible(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	return decks, nil
}

// Create stores a deck owned by userID.
func (s *DeckService) Create(ctx context.Context, userID int64, d *entities.Deck) error {
	d.OwnerID = &userID
	if err := s.decks.Create(ctx, d); err != nil {
		if errors.Is(err, repository.ErrSlugTaken) {
			return fmt.Errorf("%w: slug %q", ErrConflict, d.Slug)
		}
		return fmt.Errorf("create deck: %w", err)
	}

	s.logger.Info("deck created", zap.Int64("deck_id", d.ID), zap.Int64("user_id", userID))
	return nil
}

// Get returns a deck userID may read.
func (s *DeckService) Get(ctx context.Context, userID, deckID int64) (*entities.Deck, error) {
	return readableDeck(ctx, s.decks, userID, deckID)
}
