package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
	"github.com/aliskhannn/nihon-flash/internal/infra/postgres"
)

// MediaRepository stores media assets attached to decks.
type MediaRepository struct {
	db postgres.DBTX
}

func NewMediaRepository(db postgres.DBTX) *MediaRepository {
	return &MediaRepository{db: db}
}

// Create inserts an asset and sets its ID.
func (r *MediaRepository) Create(ctx context.Context, m *entities.MediaAsset) error {
	query := `
		INSERT INTO media_assets (deck_id, file_name, url, media_type, attribution, license, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	metadata := m.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	err := postgres.Executor(ctx, r.db).QueryRow(ctx, query,
		m.DeckID, m.FileName, m.URL, string(m.MediaType), m.Attribution, m.License, metadata,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("create media asset: %w", err)
	}

	return nil
}

// DeckIDs maps each existing asset ID to its deck.
func (r *MediaRepository) DeckIDs(ctx context.Context, ids []int64) (map[int64]int64, error) {
	rows, err := postgres.Executor(ctx, r.db).Query(ctx,
		"SELECT id, deck_id FROM media_assets WHERE id = ANY($1)", ids,
	)
	if err != nil {
		return nil, fmt.Errorf("get media decks: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]int64, len(ids))
	for rows.Next() {
		var id, deckID int64
		if err := rows.Scan(&id, &deckID); err != nil {
			return nil, fmt.Errorf("scan media deck: %w", err)
		}
		out[id] = deckID
	}

	return out, rows.Err()
}
