package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
)

type MediaService struct {
	decks  DeckRepository
	media  MediaRepository
	logger *zap.Logger
}

func NewMediaService(decks DeckRepository, media MediaRepository, logger *zap.Logger) *MediaService {
	return &MediaService{decks: decks, media: media, logger: logger}
}

// Register records an asset URL for a deck owned by userID.
func (s *MediaService) Register(ctx context.Context, userID int64, m *entities.MediaAsset) error {
	if _, err := ownedDeck(ctx, s.decks, userID, m.DeckID); err != nil {
		return err
	}
	if m.MediaType != entities.MediaImage && m.MediaType != entities.MediaAudio {
		return fmt.Errorf("%w: unknown media type %q", ErrValidation, m.MediaType)
	}

	if err := s.media.Create(ctx, m); err != nil {
		return fmt.Errorf("create media asset: %w", err)
	}

	s.logger.Info("media asset registered", zap.Int64("deck_id", m.DeckID), zap.Int64("media_id", m.ID))
	return nil
}
