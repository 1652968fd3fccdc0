package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
	"github.com/aliskhannn/nihon-flash/internal/infra/postgres"
)

var (
	ErrDeckNotFound = errors.New("deck not found")
	ErrSlugTaken    = errors.New("deck slug already exists")
)

const deckColumns = `id, name, slug, description, description_md, cover_image_url,
	instructions_md, source_lang, target_lang, is_public, tags, owner_id`

// DeckRepository provides access to decks.
type DeckRepository struct {
	db postgres.DBTX
}

func NewDeckRepository(db postgres.DBTX) *DeckRepository {
	return &DeckRepository{db: db}
}

// Create inserts a deck and sets its ID.
func (r *DeckRepository) Create(ctx context.Context, d *entities.Deck) error {
	query := `
		INSERT INTO decks (name, slug, description, description_md, cover_image_url,
		                   instructions_md, source_lang, target_lang, is_public, tags, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}

	err := postgres.Executor(ctx, r.db).QueryRow(ctx, query,
		d.Name, d.Slug, d.Description, d.DescriptionMD, d.CoverImageURL,
		d.InstructionsMD, d.SourceLang, d.TargetLang, d.IsPublic, tags, d.OwnerID,
	).Scan(&d.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("create deck: %w", err)
	}

	return nil
}

// GetByID retrieves a deck by ID.
func (r *DeckRepository) GetByID(ctx context.Context, deckID int64) (*entities.Deck, error) {
	query := `SELECT ` + deckColumns + ` FROM decks WHERE id = $1`

	d, err := scanDeck(postgres.Executor(ctx, r.db).QueryRow(ctx, query, deckID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDeckNotFound
		}
		return nil, fmt.Errorf("get deck: %w", err)
	}

	return d, nil
}

// ListVisible returns public, global and userID's own decks ordered by ID.
func (r *DeckRepository) ListVisible(ctx context.Context, userID int64) ([]*entities.Deck, error) {
	query := `
		SELECT ` + deckColumns + `
		FROM decks
		WHERE is_public OR owner_id IS NULL OR owner_id = $1
		ORDER BY id
	`

	rows, err := postgres.Executor(ctx, r.db).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	defer rows.Close()

	var decks []*entities.Deck
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deck: %w", err)
		}
		decks = append(decks, d)
	}

	return decks, rows.Err()
}

func scanDeck(row pgx.Row) (*entities.Deck, error) {
	var d entities.Deck
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Slug,
		&d.Description,
		&d.DescriptionMD,
		&d.CoverImageURL,
		&d.InstructionsMD,
		&d.SourceLang,
		&d.TargetLang,
		&d.IsPublic,
		&d.Tags,
		&d.OwnerID,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
