package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
	"github.com/aliskhannn/nihon-flash/internal/infra/postgres/repository"
)

// NoteTypePatch lists the note type columns to change. Nil means unchanged.
type NoteTypePatch struct {
	Name        *string
	Description *string
	DeckID      *int64
}

// FieldPatch lists the note field columns to change. Nil means unchanged.
type FieldPatch struct {
	Name       *string
	Label      *string
	FieldType  *entities.NoteFieldType
	IsRequired *bool
	SortOrder  *int
	Hint       *string
	Config     map[string]any
}

// TemplatePatch lists the card template columns to change. Nil means unchanged.
type TemplatePatch struct {
	Name          *string
	FrontTemplate *string
	BackTemplate  *string
	CSS           *string
	IsActive      *bool
}

// NoteTypeService manages note types, their fields and card templates.
// Global note types (no deck) are read-only.
type NoteTypeService struct {
	decks     DeckRepository
	noteTypes NoteTypeRepository
	logger    *zap.Logger
}

func NewNoteTypeService(decks DeckRepository, noteTypes NoteTypeRepository, logger *zap.Logger) *NoteTypeService {
	return &NoteTypeService{decks: decks, noteTypes: noteTypes, logger: logger}
}

func (s *NoteTypeService) List(ctx context.Context, userID int64) ([]*entities.NoteType, error) {
	types, err := s.noteTypes.ListVisible(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list note types: %w", err)
	}
	return types, nil
}

// Get returns a note type whose deck userID may read.
func (s *NoteTypeService) Get(ctx context.Context, userID, id int64) (*entities.NoteType, error) {
	nt, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if nt.DeckID != nil {
		if _, err := readableDeck(ctx, s.decks, userID, *nt.DeckID); err != nil {
			return nil, err
		}
	}
	return nt, nil
}

func (s *NoteTypeService) Create(ctx context.Context, userID int64, nt *entities.NoteType) error {
	if nt.DeckID == nil {
		return fmt.Errorf("%w: deck_id is required", ErrValidation)
	}
	if _, err := ownedDeck(ctx, s.decks, userID, *nt.DeckID); err != nil {
		return err
	}

	if err := s.noteTypes.Create(ctx, nt); err != nil {
		return fmt.Errorf("create note type: %w", err)
	}

	s.logger.Info("note type created", zap.Int64("note_type_id", nt.ID), zap.Int64("deck_id", *nt.DeckID))
	return nil
}

func (s *NoteTypeService) Update(ctx context.Context, userID, id int64, patch NoteTypePatch) (*entities.NoteType, error) {
	nt, err := s.editable(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.DeckID != nil {
		if _, err := ownedDeck(ctx, s.decks, userID, *patch.DeckID); err != nil {
			return nil, err
		}
		nt.DeckID = patch.DeckID
	}
	if patch.Name != nil {
		nt.Name = *patch.Name
	}
	if patch.Description != nil {
		nt.Description = patch.Description
	}

	if err := s.noteTypes.Update(ctx, nt); err != nil {
		return nil, fmt.Errorf("update note type: %w", err)
	}
	return nt, nil
}

// Delete removes a note type that no note uses.
func (s *NoteTypeService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.editable(ctx, userID, id); err != nil {
		return err
	}

	n, err := s.noteTypes.CountNotes(ctx, id)
	if err != nil {
		return fmt.Errorf("count notes: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: cannot delete note type with existing notes", ErrValidation)
	}

	if err := s.noteTypes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete note type: %w", err)
	}

	s.logger.Info("note type deleted", zap.Int64("note_type_id", id))
	return nil
}

// CreateField adds a field. A nil sortOrder appends it after existing fields.
func (s *NoteTypeService) CreateField(ctx context.Context, userID int64, f *entities.NoteField, sortOrder *int) error {
	nt, err := s.editable(ctx, userID, f.NoteTypeID)
	if err != nil {
		return err
	}
	if err := validateField(f); err != nil {
		return err
	}

	f.SortOrder = len(nt.Fields)
	if sortOrder != nil {
		f.SortOrder = *sortOrder
	}

	if err := s.noteTypes.CreateField(ctx, f); err != nil {
		return fmt.Errorf("create note field: %w", err)
	}
	return nil
}

func (s *NoteTypeService) UpdateField(ctx context.Context, userID, fieldID int64, patch FieldPatch) (*entities.NoteField, error) {
	f, err := s.field(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	if _, err := s.editable(ctx, userID, f.NoteTypeID); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		f.Name = *patch.Name
	}
	if patch.Label != nil {
		f.Label = *patch.Label
	}
	if patch.FieldType != nil {
		f.FieldType = *patch.FieldType
	}
	if patch.IsRequired != nil {
		f.IsRequired = *patch.IsRequired
	}
	if patch.SortOrder != nil {
		f.SortOrder = *patch.SortOrder
	}
	if patch.Hint != nil {
		f.Hint = patch.Hint
	}
	if patch.Config != nil {
		f.Config = patch.Config
	}
	if err := validateField(f); err != nil {
		return nil, err
	}

	if err := s.noteTypes.UpdateField(ctx, f); err != nil {
		return nil, fmt.Errorf("update note field: %w", err)
	}
	return f, nil
}

// DeleteField removes a field that no note value references.
func (s *NoteTypeService) DeleteField(ctx context.Context, userID, fieldID int64) error {
	f, err := s.field(ctx, fieldID)
	if err != nil {
		return err
	}
	if _, err := s.editable(ctx, userID, f.NoteTypeID); err != nil {
		return err
	}

	n, err := s.noteTypes.CountFieldValues(ctx, fieldID)
	if err != nil {
		return fmt.Errorf("count field values: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: cannot delete field with existing values", ErrValidation)
	}

	if err := s.noteTypes.DeleteField(ctx, fieldID); err != nil {
		return fmt.Errorf("delete note field: %w", err)
	}
	return nil
}

func (s *NoteTypeService) CreateTemplate(ctx context.Context, userID int64, t *entities.CardTemplate) error {
	if _, err := s.editable(ctx, userID, t.NoteTypeID); err != nil {
		return err
	}
	if err := s.noteTypes.CreateTemplate(ctx, t); err != nil {
		return fmt.Errorf("create card template: %w", err)
	}
	return nil
}

func (s *NoteTypeService) UpdateTemplate(ctx context.Context, userID, templateID int64, patch TemplatePatch) (*entities.CardTemplate, error) {
	t, err := s.template(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if _, err := s.editable(ctx, userID, t.NoteTypeID); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.FrontTemplate != nil {
		t.FrontTemplate = *patch.FrontTemplate
	}
	if patch.BackTemplate != nil {
		t.BackTemplate = *patch.BackTemplate
	}
	if patch.CSS != nil {
		t.CSS = patch.CSS
	}
	if patch.IsActive != nil {
		t.IsActive = *patch.IsActive
	}

	if err := s.noteTypes.UpdateTemplate(ctx, t); err != nil {
		return nil, fmt.Errorf("update card template: %w", err)
	}
	return t, nil
}

func (s *NoteTypeService) DeleteTemplate(ctx context.Context, userID, templateID int64) error {
	t, err := s.template(ctx, templateID)
	if err != nil {
		return err
	}
	if _, err := s.editable(ctx, userID, t.NoteTypeID); err != nil {
		return err
	}
	if err := s.noteTypes.DeleteTemplate(ctx, templateID); err != nil {
		return fmt.Errorf("delete card template: %w", err)
	}
	return nil
}

func (s *NoteTypeService) load(ctx context.Context, id int64) (*entities.NoteType, error) {
	nt, err := s.noteTypes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoteTypeNotFound) {
			return nil, fmt.Errorf("%w: note type %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get note type: %w", err)
	}
	return nt, nil
}

func (s *NoteTypeService) editable(ctx context.Context, userID, id int64) (*entities.NoteType, error) {
	nt, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if nt.DeckID == nil {
		return nil, fmt.Errorf("%w: global note types are read-only", ErrForbidden)
	}
	if _, err := ownedDeck(ctx, s.decks, userID, *nt.DeckID); err != nil {
		return nil, err
	}
	return nt, nil
}

func (s *NoteTypeService) field(ctx context.Context, id int64) (*entities.NoteField, error) {
	f, err := s.noteTypes.GetField(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFieldNotFound) {
			return nil, fmt.Errorf("%w: field %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get note field: %w", err)
	}
	return f, nil
}

func (s *NoteTypeService) template(ctx context.Context, id int64) (*entities.CardTemplate, error) {
	t, err := s.noteTypes.GetTemplate(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return nil, fmt.Errorf("%w: template %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get card template: %w", err)
	}
	return t, nil
}

func validateField(f *entities.NoteField) error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: field name is required", ErrValidation)
	}
	switch f.FieldType {
	case entities.FieldText, entities.FieldRichText, entities.FieldImage,
		entities.FieldAudio, entities.FieldFurigana, entities.FieldJSON:
		return nil
	}
	return fmt.Errorf("%w: unknown field type %q", ErrValidation, f.FieldType)
}
