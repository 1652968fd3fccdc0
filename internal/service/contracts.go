package service

import (
	"context"
	"time"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
)

// Transactor runs fn in a single database transaction. Repository calls made
// with the ctx passed to fn join it.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, userID int64) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	SetTelegramChatID(ctx context.Context, userID int64, chatID *int64) error
}

type DeckRepository interface {
	Create(ctx context.Context, d *entities.Deck) error
	GetByID(ctx context.Context, deckID int64) (*entities.Deck, error)
	ListVisible(ctx context.Context, userID int64) ([]*entities.Deck, error)
}

type NoteTypeRepository interface {
	ListVisible(ctx context.Context, userID int64) ([]*entities.NoteType, error)
	GetByID(ctx context.Context, id int64) (*entities.NoteType, error)
	Create(ctx context.Context, nt *entities.NoteType) error
	Update(ctx context.Context, nt *entities.NoteType) error
	Delete(ctx context.Context, id int64) error
	CountNotes(ctx context.Context, id int64) (int, error)

	GetField(ctx context.Context, id int64) (*entities.NoteField, error)
	CreateField(ctx context.Context, f *entities.NoteField) error
	UpdateField(ctx context.Context, f *entities.NoteField) error
	DeleteField(ctx context.Context, id int64) error
	CountFieldValues(ctx context.Context, fieldID int64) (int, error)

	GetTemplate(ctx context.Context, id int64) (*entities.CardTemplate, error)
	TemplatesByIDs(ctx context.Context, ids []int64) (map[int64]entities.CardTemplate, error)
	CreateTemplate(ctx context.Context, t *entities.CardTemplate) error
	UpdateTemplate(ctx context.Context, t *entities.CardTemplate) error
	DeleteTemplate(ctx context.Context, id int64) error
}

type NoteRepository interface {
	Create(ctx context.Context, n *entities.Note) error
	GetByID(ctx context.Context, id int64) (*entities.Note, error)
	ValuesByNoteIDs(ctx context.Context, noteIDs []int64) (map[int64][]entities.NoteFieldValue, error)
}

type CardRepository interface {
	Create(ctx context.Context, c *entities.Card) error
	GetForUser(ctx context.Context, userID, cardID int64) (*entities.StudyCard, error)
	ListForUser(ctx context.Context, userID int64, cardIDs []int64) ([]entities.StudyCard, error)
	ListUnstarted(ctx context.Context, userID, deckID int64, limit int) ([]entities.StudyCard, error)
	ListDeck(ctx context.Context, userID, deckID int64) ([]entities.StudyCard, error)
	ListReviews(ctx context.Context, userID, deckID int64, dueOnly bool, now time.Time, limit int) ([]entities.StudyCard, error)
}

type ProgressRepository interface {
	Get(ctx context.Context, userID, cardID int64) (*entities.UserCardProgress, error)
	Seed(ctx context.Context, p *entities.UserCardProgress) error
	Upsert(ctx context.Context, p *entities.UserCardProgress) error
}

type ReviewLogRepository interface {
	Create(ctx context.Context, l *entities.CardReviewLog) error
	ListByCard(ctx context.Context, userID, cardID int64, limit int) ([]entities.CardReviewLog, error)
}

type MediaRepository interface {
	Create(ctx context.Context, m *entities.MediaAsset) error
	DeckIDs(ctx context.Context, ids []int64) (map[int64]int64, error)
}

// ReminderRepository manages reminder persistence.
type ReminderRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*entities.UserReminders, error)
	Upsert(ctx context.Context, rem *entities.UserReminders) error
	GetDueRemindersBatch(ctx context.Context, now time.Time, limit, offset int) ([]*entities.ReminderTarget, error)
	DueByDeck(ctx context.Context, userID int64, now time.Time) ([]entities.DeckDue, error)
	UpdateAfterSend(ctx context.Context, userID int64, sentAt, nextSendAt time.Time) error
	Reschedule(ctx context.Context, userID int64, nextSendAt time.Time) error
}

// ReminderNotifier sends reminder notifications to users.
type ReminderNotifier interface {
	SendReminder(chatID int64, payload entities.ReminderPayload) error
}
