package entities

import "time"

// NoteFieldType describes how a note field value is interpreted.
type NoteFieldType string

const (
	FieldText     NoteFieldType = "text"
	FieldRichText NoteFieldType = "rich_text"
	FieldImage    NoteFieldType = "image"
	FieldAudio    NoteFieldType = "audio"
	FieldFurigana NoteFieldType = "furigana"
	FieldJSON     NoteFieldType = "json"
)

// MediaType is the kind of a media asset.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaAudio MediaType = "audio"
)

// NoteType defines the fields of a note and the templates turning it into
// cards. A note type without a deck is global.
type NoteType struct {
	ID          int64
	Name        string
	Description *string
	DeckID      *int64
	Fields      []NoteField
	Templates   []CardTemplate
}

// Field returns the field with the given id.
func (nt *NoteType) Field(id int64) (NoteField, bool) {
	for _, f := range nt.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return NoteField{}, false
}

// ActiveTemplates returns the templates that generate cards.
func (nt *NoteType) ActiveTemplates() []CardTemplate {
	var out []CardTemplate
	for _, t := range nt.Templates {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return out
}

type NoteField struct {
	ID         int64
	NoteTypeID int64
	Name       string
	Label      string
	FieldType  NoteFieldType
	IsRequired bool
	SortOrder  int
	Hint       *string
	Config     map[string]any
}

type CardTemplate struct {
	ID            int64
	NoteTypeID    int64
	Name          string
	FrontTemplate string
	BackTemplate  string
	CSS           *string
	IsActive      bool
}

type MediaAsset struct {
	ID          int64
	DeckID      int64
	FileName    string
	URL         string
	MediaType   MediaType
	Attribution *string
	License     *string
	Metadata    map[string]any
}

// Note is one piece of study content; its cards are derived from it.
type Note struct {
	ID          int64
	DeckID      int64
	NoteTypeID  int64
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	FieldValues []NoteFieldValue
}

// NoteFieldValue holds either text or a media reference for one field.
type NoteFieldValue struct {
	ID           int64
	NoteID       int64
	FieldID      int64
	ValueText    *string
	MediaAssetID *int64

	// Populated by readers that join the field and asset.
	FieldName string
	MediaURL  *string
}
