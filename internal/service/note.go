package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
	"github.com/aliskhannn/nihon-flash/internal/infra/postgres/repository"
)

// NoteInput describes a note to create.
type NoteInput struct {
	DeckID     int64
	NoteTypeID int64
	Tags       []string
	Mnemonic   *string
	Values     []entities.NoteFieldValue
}

// NoteService creates notes together with the cards their templates produce.
type NoteService struct {
	tx        Transactor
	decks     DeckRepository
	noteTypes NoteTypeRepository
	notes     NoteRepository
	cards     CardRepository
	media     MediaRepository
	now       func() time.Time
	logger    *zap.Logger
}

func NewNoteService(
	tx Transactor,
	decks DeckRepository,
	noteTypes NoteTypeRepository,
	notes NoteRepository,
	cards CardRepository,
	media MediaRepository,
	logger *zap.Logger,
) *NoteService {
	return &NoteService{
		tx:        tx,
		decks:     decks,
		noteTypes: noteTypes,
		notes:     notes,
		cards:     cards,
		media:     media,
		now:       time.Now,
		logger:    logger,
	}
}

// Create validates in against the note type and stores the note, its values
// and one card per active template in a single transaction.
func (s *NoteService) Create(ctx context.Context, userID int64, in NoteInput) (*entities.Note, []*entities.Card, error) {
	deck, err := ownedDeck(ctx, s.decks, userID, in.DeckID)
	if err != nil {
		return nil, nil, err
	}

	nt, err := s.noteTypes.GetByID(ctx, in.NoteTypeID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteTypeNotFound) {
			return nil, nil, fmt.Errorf("%w: note type %d", ErrNotFound, in.NoteTypeID)
		}
		return nil, nil, fmt.Errorf("get note type: %w", err)
	}
	if nt.DeckID != nil && *nt.DeckID != deck.ID {
		return nil, nil, fmt.Errorf("%w: note type is not part of this deck", ErrValidation)
	}

	if err := s.validateValues(ctx, deck.ID, nt, in.Values); err != nil {
		return nil, nil, err
	}

	now := s.now().UTC()
	note := &entities.Note{
		DeckID:      deck.ID,
		NoteTypeID:  nt.ID,
		Tags:        normalizeTags(in.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
		FieldValues: in.Values,
	}

	var cards []*entities.Card
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.notes.Create(ctx, note); err != nil {
			return err
		}
		for _, tpl := range nt.ActiveTemplates() {
			card := entities.NewCard(note.ID, tpl.ID, in.Mnemonic, now)
			if err := s.cards.Create(ctx, card); err != nil {
				return err
			}
			cards = append(cards, card)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create note: %w", err)
	}

	for i := range note.FieldValues {
		if f, ok := nt.Field(note.FieldValues[i].FieldID); ok {
			note.FieldValues[i].FieldName = f.Name
		}
	}

	s.logger.Info("note created",
		zap.Int64("note_id", note.ID),
		zap.Int64("deck_id", deck.ID),
		zap.Int("cards", len(cards)),
	)
	return note, cards, nil
}

func (s *NoteService) validateValues(ctx context.Context, deckID int64, nt *entities.NoteType, values []entities.NoteFieldValue) error {
	provided := make(map[int64]bool, len(values))
	for _, v := range values {
		if hasValue(v) {
			provided[v.FieldID] = true
		}
	}

	var missing []string
	for _, f := range nt.Fields {
		if f.IsRequired && !provided[f.ID] {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}

	var assetIDs []int64
	for _, v := range values {
		if _, ok := nt.Field(v.FieldID); !ok {
			return fmt.Errorf("%w: field %d does not belong to note type", ErrValidation, v.FieldID)
		}
		if v.MediaAssetID != nil {
			assetIDs = append(assetIDs, *v.MediaAssetID)
		}
	}
	if len(assetIDs) == 0 {
		return nil
	}

	owners, err := s.media.DeckIDs(ctx, assetIDs)
	if err != nil {
		return fmt.Errorf("get media assets: %w", err)
	}
	for _, id := range assetIDs {
		owner, ok := owners[id]
		if !ok {
			return fmt.Errorf("%w: media asset %d not found", ErrValidation, id)
		}
		if owner != deckID {
			return fmt.Errorf("%w: media asset %d must belong to the same deck", ErrValidation, id)
		}
	}
	return nil
}

// hasValue reports whether v carries non-blank text or a media asset.
func hasValue(v entities.NoteFieldValue) bool {
	if v.MediaAssetID != nil {
		return true
	}
	return v.ValueText != nil && strings.TrimSpace(*v.ValueText) != ""
}

// Get returns a note whose deck userID may read.
func (s *NoteService) Get(ctx context.Context, userID, noteID int64) (*entities.Note, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, fmt.Errorf("%w: note %d", ErrNotFound, noteID)
		}
		return nil, fmt.Errorf("get note: %w", err)
	}

	deck, err := getDeck(ctx, s.decks, note.DeckID)
	if err != nil {
		return nil, err
	}
	if !deck.IsPublic && !deck.IsOwnedBy(userID) {
		return nil, fmt.Errorf("%w: deck %d is private", ErrForbidden, deck.ID)
	}
	return note, nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
