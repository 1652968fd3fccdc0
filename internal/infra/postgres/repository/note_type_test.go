package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
)

func TestNoteTypeRepository_GetByIDLoadsDetails(t *testing.T) {
	mock := newMock(t)
	repo := NewNoteTypeRepository(mock)

	mock.ExpectQuery(`FROM note_types WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "deck_id"}).
			AddRow(int64(5), "Kana", nil, nil))
	mock.ExpectQuery(`FROM note_fields`).
		WithArgs([]int64{5}).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "note_type_id", "name", "label", "field_type", "is_required", "sort_order", "hint", "config",
		}).
			AddRow(int64(1), int64(5), "kana", "Kana", "text", true, 0, nil, map[string]any{}).
			AddRow(int64(2), int64(5), "audio", "Audio", "audio", false, 1, nil, map[string]any{"autoplay": true}))
	mock.ExpectQuery(`FROM card_templates`).
		WithArgs([]int64{5}).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "note_type_id", "name", "front_template", "back_template", "css", "is_active",
		}).
			AddRow(int64(3), int64(5), "Recognition", "{{kana}}", "{{romaji}}", nil, true).
			AddRow(int64(4), int64(5), "Listening", "{{audio}}", "{{kana}}", nil, false))

	nt, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, nt.Fields, 2)
	assert.Equal(t, entities.FieldAudio, nt.Fields[1].FieldType)
	assert.Equal(t, true, nt.Fields[1].Config["autoplay"])
	require.Len(t, nt.Templates, 2)
	assert.Len(t, nt.ActiveTemplates(), 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteTypeRepository_GetByIDNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewNoteTypeRepository(mock)

	mock.ExpectQuery(`FROM note_types`).WithArgs(int64(1)).WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoteTypeNotFound)
}

func TestNoteTypeRepository_CountNotes(t *testing.T) {
	mock := newMock(t)
	repo := NewNoteTypeRepository(mock)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notes WHERE note_type_id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.CountNotes(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestNoteTypeRepository_CreateFieldDefaultsConfig(t *testing.T) {
	mock := newMock(t)
	repo := NewNoteTypeRepository(mock)

	f := &entities.NoteField{NoteTypeID: 5, Name: "romaji", Label: "Romaji", FieldType: entities.FieldText, SortOrder: 2}
	mock.ExpectQuery(`INSERT INTO note_fields`).
		WithArgs(int64(5), "romaji", "Romaji", "text", false, 2, pgxmock.AnyArg(), map[string]any{}).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(12)))

	require.NoError(t, repo.CreateField(context.Background(), f))
	assert.Equal(t, int64(12), f.ID)
}

func TestNoteTypeRepository_DeleteTemplateMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewNoteTypeRepository(mock)

	mock.ExpectExec(`DELETE FROM card_templates`).
		WithArgs(int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.DeleteTemplate(context.Background(), 9), ErrTemplateNotFound)
}
