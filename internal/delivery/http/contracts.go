package http

import (
	"context"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
	"github.com/aliskhannn/nihon-flash/internal/service"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*entities.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	ParseToken(raw string) (int64, error)
	Me(ctx context.Context, userID int64) (*entities.User, error)
}

type DeckService interface {
	List(ctx context.Context, userID int64) ([]*entities.Deck, error)
	Create(ctx context.Context, userID int64, d *entities.Deck) error
	Get(ctx context.Context, userID, deckID int64) (*entities.Deck, error)
}

type MediaService interface {
	Register(ctx context.Context, userID int64, m *entities.MediaAsset) error
}

type NoteTypeService interface {
	List(ctx context.Context, userID int64) ([]*entities.NoteType, error)
	Get(ctx context.Context, userID, id int64) (*entities.NoteType, error)
	Create(ctx context.Context, userID int64, nt *entities.NoteType) error
	Update(ctx context.Context, userID, id int64, patch service.NoteTypePatch) (*entities.NoteType, error)
	Delete(ctx context.Context, userID, id int64) error

	CreateField(ctx context.Context, userID int64, f *entities.NoteField, sortOrder *int) error
	UpdateField(ctx context.Context, userID, fieldID int64, patch service.FieldPatch) (*entities.NoteField, error)
	DeleteField(ctx context.Context, userID, fieldID int64) error

	CreateTemplate(ctx context.Context, userID int64, t *entities.CardTemplate) error
	UpdateTemplate(ctx context.Context, userID, templateID int64, patch service.TemplatePatch) (*entities.CardTemplate, error)
	DeleteTemplate(ctx context.Context, userID, templateID int64) error
}

type NoteService interface {
	Create(ctx context.Context, userID int64, in service.NoteInput) (*entities.Note, []*entities.Card, error)
	Get(ctx context.Context, userID, noteID int64) (*entities.Note, error)
}

type StudyService interface {
	StudyBatch(ctx context.Context, userID, deckID int64, limit int) ([]service.CardView, error)
	SubmitStudy(ctx context.Context, userID, deckID int64, results []service.StudyResult) (int, error)
	ReviewQueue(ctx context.Context, userID, deckID int64, dueOnly bool, limit int) ([]service.CardView, error)
	Review(ctx context.Context, userID, cardID int64, correct bool) (*entities.UserCardProgress, error)
	SetSuspended(ctx context.Context, userID, cardID int64, suspended bool) (*entities.UserCardProgress, error)
	Logs(ctx context.Context, userID, cardID int64, limit int) ([]entities.CardReviewLog, error)
	DeckStats(ctx context.Context, userID, deckID int64) (entities.DeckStats, error)
	DeckCards(ctx context.Context, userID, deckID int64) ([]service.CardView, error)
}

type ReminderService interface {
	Settings(ctx context.Context, userID int64) (*service.ReminderSettings, error)
	Update(ctx context.Context, userID int64, upd service.ReminderUpdate) (*service.ReminderSettings, error)
}
