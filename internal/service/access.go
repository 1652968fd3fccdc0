package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
	"github.com/aliskhannn/nihon-flash/internal/infra/postgres/repository"
)

func readableDeck(ctx context.Context, decks DeckRepository, userID, deckID int64) (*entities.Deck, error) {
	deck, err := getDeck(ctx, decks, deckID)
	if err != nil {
		return nil, err
	}
	if !deck.CanRead(userID) {
		return nil, fmt.Errorf("%w: deck %d is private", ErrForbidden, deckID)
	}
	return deck, nil
}

func ownedDeck(ctx context.Context, decks DeckRepository, userID, deckID int64) (*entities.Deck, error) {
	deck, err := getDeck(ctx, decks, deckID)
	if err != nil {
		return nil, err
	}
	if !deck.IsOwnedBy(userID) {
		return nil, fmt.Errorf("%w: not the owner of deck %d", ErrForbidden, deckID)
	}
	return deck, nil
}

func getDeck(ctx context.Context, decks DeckRepository, deckID int64) (*entities.Deck, error) {
	deck, err := decks.GetByID(ctx, deckID)
	if err != nil {
		if errors.Is(err, repository.ErrDeckNotFound) {
			return nil, fmt.Errorf("%w: deck %d", ErrNotFound, deckID)
		}
		return nil, fmt.Errorf("get deck: %w", err)
	}
	return deck, nil
}
