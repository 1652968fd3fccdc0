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
	ErrNoteTypeNotFound = errors.New("note type not found")
	ErrFieldNotFound    = errors.New("note field not found")
	ErrTemplateNotFound = errors.New("card template not found")
)

// NoteTypeRepository stores note types with their fields and card templates.
type NoteTypeRepository struct {
	db postgres.DBTX
}

func NewNoteTypeRepository(db postgres.DBTX) *NoteTypeRepository {
	return &NoteTypeRepository{db: db}
}

// ListVisible returns global note types and those of public or owned decks,
// with fields and templates loaded.
func (r *NoteTypeRepository) ListVisible(ctx context.Context, userID int64) ([]*entities.NoteType, error) {
	query := `
		SELECT nt.id, nt.name, nt.description, nt.deck_id
		FROM note_types nt
		LEFT JOIN decks d ON d.id = nt.deck_id
		WHERE nt.deck_id IS NULL OR d.is_public OR d.owner_id = $1
		ORDER BY nt.id
	`

	rows, err := postgres.Executor(ctx, r.db).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list note types: %w", err)
	}

	var types []*entities.NoteType
	for rows.Next() {
		var nt entities.NoteType
		if err := rows.Scan(&nt.ID, &nt.Name, &nt.Description, &nt.DeckID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan note type: %w", err)
		}
		types = append(types, &nt)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list note types: %w", err)
	}

	if len(types) == 0 {
		return types, nil
	}
	if err := r.loadDetails(ctx, types); err != nil {
		return nil, err
	}

	return types, nil
}

// GetByID retrieves a note type with its fields and templates.
func (r *NoteTypeRepository) GetByID(ctx context.Context, id int64) (*entities.NoteType, error) {
	query := "SELECT id, name, description, deck_id FROM note_types WHERE id = $1"

	var nt entities.NoteType
	err := postgres.Executor(ctx, r.db).QueryRow(ctx, query, id).Scan(&nt.ID, &nt.Name, &nt.Description, &nt.DeckID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoteTypeNotFound
		}
		return nil, fmt.Errorf("get note type: %w", err)
	}

	if err := r.loadDetails(ctx, []*entities.NoteType{&nt}); err != nil {
		return nil, err
	}

	return &nt, nil
}

func (r *NoteTypeRepository) loadDetails(ctx context.Context, types []*entities.NoteType) error {
	ids := make([]int64, len(types))
	byID := make(map[int64]*entities.NoteType, len(types))
	for i, nt := range types {
		ids[i] = nt.ID
		byID[nt.ID] = nt
	}

	fields, err := r.fieldsByTypes(ctx, ids)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if nt, ok := byID[f.NoteTypeID]; ok {
			nt.Fields = append(nt.Fields, f)
		}
	}

	templates, err := r.templatesByTypes(ctx, ids)
	if err != nil {
		return err
	}
	for _, t := range templates {
		if nt, ok := byID[t.NoteTypeID]; ok {
			nt.Templates = append(nt.Templates, t)
		}
	}

	return nil
}

const fieldColumns = "id, note_type_id, name, label, field_type, is_required, sort_order, hint, config"

func (r *NoteTypeRepository) fieldsByTypes(ctx context.Context, typeIDs []int64) ([]entities.NoteField, error) {
	query := `
		SELECT ` + fieldColumns + `
		FROM note_fields
		WHERE note_type_id = ANY($1)
		ORDER BY note_type_id, sort_order, id
	`

	rows, err := postgres.Executor(ctx, r.db).Query(ctx, query, typeIDs)
	if err != nil {
		return nil, fmt.Errorf("list note fields: %w", err)
	}
	defer rows.Close()

	var fields []entities.NoteField
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note field: %w", err)
		}
		fields = append(fields, *f)
	}

	return fields, rows.Err()
}

const templateColumns = "id, note_type_id, name, front_template, back_template, css, is_active"

func (r *NoteTypeRepository) templatesByTypes(ctx context.Context, typeIDs []int64) ([]entities.CardTemplate, error) {
	query := `
		SELECT ` + templateColumns + `
		FROM card_templates
		WHERE note_type_id = ANY($1)
		ORDER BY note_type_id, id
	`
	return r.queryTemplates(ctx, "list card templates", query, typeIDs)
}

// TemplatesByIDs returns the given templates keyed by ID.
func (r *NoteTypeRepository) TemplatesByIDs(ctx context.Context, ids []int64) (map[int64]entities.CardTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM card_templates WHERE id = ANY($1)`

	templates, err := r.queryTemplates(ctx, "get card templates", query, ids)
	if err != nil {
		return nil, err
	}

	out := make(map[int64]entities.CardTemplate, len(templates))
	for _, t := range templates {
		out[t.ID] = t
	}
	return out, nil
}

func (r *NoteTypeRepository) queryTemplates(ctx context.Context, op, query string, arg any) ([]entities.CardTemplate, error) {
	rows, err := postgres.Executor(ctx, r.db).Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var templates []entities.CardTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card template: %w", err)
		}
		templates = append(templates, *t)
	}

	return templates, rows.Err()
}

// Create inserts a note type and sets its ID.
func (r *NoteTypeRepository) Create(ctx context.Context, nt *entities.NoteType) error {
	query := `
		INSERT INTO note_types (name, description, deck_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := postgres.Executor(ctx, r.db).QueryRow(ctx, query, nt.Name, nt.Description, nt.DeckID).Scan(&nt.ID)
	if err != nil {
		return fmt.Errorf("create note type: %w", err)
	}

	return nil
}

// Update overwrites the note type's own columns.
func (r *NoteTypeRepository) Update(ctx context.Context, nt *entities.NoteType) error {
	query := "UPDATE note_types SET name = $1, description = $2, deck_id = $3 WHERE id = $4"

	tag, err := postgres.Executor(ctx, r.db).Exec(ctx, query, nt.Name, nt.Description, nt.DeckID, nt.ID)
	if err != nil {
		return fmt.Errorf("update note type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoteTypeNotFound
	}

	return nil
}

// Delete removes a note type together with its fields and templates.
func (r *NoteTypeRepository) Delete(ctx context.Context, id int64) error {
	tag, err := postgres.Executor(ctx, r.db).Exec(ctx, "DELETE FROM note_types WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete note type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoteTypeNotFound
	}

	return nil
}

// CountNotes returns how many notes use the note type.
func (r *NoteTypeRepository) CountNotes(ctx context.Context, id int64) (int, error) {
	var n int
	err := postgres.Executor(ctx, r.db).QueryRow(ctx, "SELECT COUNT(*) FROM notes WHERE note_type_id = $1", id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return n, nil
}

// GetField retrieves a single note field.
func (r *NoteTypeRepository) GetField(ctx context.Context, id int64) (*entities.NoteField, error) {
	query := `SELECT ` + fieldColumns + ` FROM note_fields WHERE id = $1`

	f, err := scanField(postgres.Executor(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFieldNotFound
		}
		return nil, fmt.Errorf("get note field: %w", err)
	}

	return f, nil
}

// CreateField inserts a note field and sets its ID.
func (r *NoteTypeRepository) CreateField(ctx context.Context, f *entities.NoteField) error {
	query := `
		INSERT INTO note_fields (note_type_id, name, label, field_type, is_required, sort_order, hint, config)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := postgres.Executor(ctx, r.db).QueryRow(ctx, query,
		f.NoteTypeID, f.Name, f.Label, string(f.FieldType), f.IsRequired, f.SortOrder, f.Hint, fieldConfig(f),
	).Scan(&f.ID)
	if err != nil {
		return fmt.Errorf("create note field: %w", err)
	}

	return nil
}

// UpdateField overwrites every column of a note field.
func (r *NoteTypeRepository) UpdateField(ctx context.Context, f *entities.NoteField) error {
	query := `
		UPDATE note_fields
		SET name = $1, label = $2, field_type = $3, is_required = $4,
		    sort_order = $5, hint = $6, config = $7
		WHERE id = $8
	`

	tag, err := postgres.Executor(ctx, r.db).Exec(ctx, query,
		f.Name, f.Label, string(f.FieldType), f.IsRequired, f.SortOrder, f.Hint, fieldConfig(f), f.ID,
	)
	if err != nil {
		return fmt.Errorf("update note field: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrFieldNotFound
	}

	return nil
}

// DeleteField removes a note field.
func (r *NoteTypeRepository) DeleteField(ctx context.Context, id int64) error {
	tag, err := postgres.Executor(ctx, r.db).Exec(ctx, "DELETE FROM note_fields WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete note field: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrFieldNotFound
	}

	return nil
}

// CountFieldValues returns how many note values reference the field.
func (r *NoteTypeRepository) CountFieldValues(ctx context.Context, fieldID int64) (int, error) {
	var n int
	err := postgres.Executor(ctx, r.db).QueryRow(ctx,
		"SELECT COUNT(*) FROM note_field_values WHERE field_id = $1", fieldID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count field values: %w", err)
	}
	return n, nil
}

// GetTemplate retrieves a single card template.
func (r *NoteTypeRepository) GetTemplate(ctx context.Context, id int64) (*entities.CardTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM card_templates WHERE id = $1`

	t, err := scanTemplate(postgres.Executor(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("get card template: %w", err)
	}

	return t, nil
}

// CreateTemplate inserts a card template and sets its ID.
func (r *NoteTypeRepository) CreateTemplate(ctx context.Context, t *entities.CardTemplate) error {
	query := `
		INSERT INTO card_templates (note_type_id, name, front_template, back_template, css, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := postgres.Executor(ctx, r.db).QueryRow(ctx, query,
		t.NoteTypeID, t.Name, t.FrontTemplate, t.BackTemplate, t.CSS, t.IsActive,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("create card template: %w", err)
	}

	return nil
}

// UpdateTemplate overwrites every column of a card template.
func (r *NoteTypeRepository) UpdateTemplate(ctx context.Context, t *entities.CardTemplate) error {
	query := `
		UPDATE card_templates
		SET name = $1, front_template = $2, back_template = $3, css = $4, is_active = $5
		WHERE id = $6
	`

	tag, err := postgres.Executor(ctx, r.db).Exec(ctx, query,
		t.Name, t.FrontTemplate, t.BackTemplate, t.CSS, t.IsActive, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update card template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}

	return nil
}

// DeleteTemplate removes a card template.
func (r *NoteTypeRepository) DeleteTemplate(ctx context.Context, id int64) error {
	tag, err := postgres.Executor(ctx, r.db).Exec(ctx, "DELETE FROM card_templates WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete card template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}

	return nil
}

func fieldConfig(f *entities.NoteField) map[string]any {
	if f.Config == nil {
		return map[string]any{}
	}
	return f.Config
}

func scanField(row pgx.Row) (*entities.NoteField, error) {
	var f entities.NoteField
	var fieldType string
	if err := row.Scan(
		&f.ID,
		&f.NoteTypeID,
		&f.Name,
		&f.Label,
		&fieldType,
		&f.IsRequired,
		&f.SortOrder,
		&f.Hint,
		&f.Config,
	); err != nil {
		return nil, err
	}
	f.FieldType = entities.NoteFieldType(fieldType)
	return &f, nil
}

func scanTemplate(row pgx.Row) (*entities.CardTemplate, error) {
	var t entities.CardTemplate
	if err := row.Scan(
		&t.ID,
		&t.NoteTypeID,
		&t.Name,
		&t.FrontTemplate,
		&t.BackTemplate,
		&t.CSS,
		&t.IsActive,
	); err != nil {
		return nil, err
	}
	return &t, nil
}
