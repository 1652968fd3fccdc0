package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
	"github.com/aliskhannn/nihon-flash/internal/infra/postgres"
)

var ErrNoteNotFound = errors.New("note not found")

// NoteRepository stores notes and their field values.
type NoteRepository struct {
	db postgres.DBTX
}

func NewNoteRepository(db postgres.DBTX) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create inserts the note and each of its field values.
func (r *NoteRepository) Create(ctx context.Context, n *entities.Note) error {
	db := postgres.Executor(ctx, r.db)

	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `
		INSERT INTO notes (deck_id, note_type_id, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if err := db.QueryRow(ctx, query, n.DeckID, n.NoteTypeID, tags, n.CreatedAt, n.UpdatedAt).Scan(&n.ID); err != nil {
		return fmt.Errorf("create note: %w", err)
	}

	valueQuery := `
		INSERT INTO note_field_values (note_id, field_id, value_text, media_asset_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	for i := range n.FieldValues {
		v := &n.FieldValues[i]
		v.NoteID = n.ID
		if err := db.QueryRow(ctx, valueQuery, v.NoteID, v.FieldID, v.ValueText, v.MediaAssetID).Scan(&v.ID); err != nil {
			return fmt.Errorf("create note field value: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a note with its field values.
func (r *NoteRepository) GetByID(ctx context.Context, id int64) (*entities.Note, error) {
	query := `
		SELECT id, deck_id, note_type_id, tags, created_at, updated_at
		FROM notes
		WHERE id = $1
	`

	var n entities.Note
	err := postgres.Executor(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&n.ID, &n.DeckID, &n.NoteTypeID, &n.Tags, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("get note: %w", err)
	}

	values, err := r.ValuesByNoteIDs(ctx, []int64{n.ID})
	if err != nil {
		return nil, err
	}
	n.FieldValues = values[n.ID]

	return &n, nil
}

// ValuesByNoteIDs returns field values grouped by note, joined with the field
// name and the media asset URL.
func (r *NoteRepository) ValuesByNoteIDs(ctx context.Context, noteIDs []int64) (map[int64][]entities.NoteFieldValue, error) {
	query := `
		SELECT v.id, v.note_id, v.field_id, v.value_text, v.media_asset_id, f.name, m.url
		FROM note_field_values v
		JOIN note_fields f ON f.id = v.field_id
		LEFT JOIN media_assets m ON m.id = v.media_asset_id
		WHERE v.note_id = ANY($1)
		ORDER BY v.note_id, f.sort_order, v.id
	`

	rows, err := postgres.Executor(ctx, r.db).Query(ctx, query, noteIDs)
	if err != nil {
		return nil, fmt.Errorf("list note field values: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]entities.NoteFieldValue, len(noteIDs))
	for rows.Next() {
		var v entities.NoteFieldValue
		if err := rows.Scan(
			&v.ID, &v.NoteID, &v.FieldID, &v.ValueText, &v.MediaAssetID, &v.FieldName, &v.MediaURL,
		); err != nil {
			return nil, fmt.Errorf("scan note field value: %w", err)
		}
		out[v.NoteID] = append(out[v.NoteID], v)
	}

	return out, rows.Err()
}
