package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
	"github.com/aliskhannn/nihon-flash/internal/service"
)

var fixedTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type fakeAuth struct{}

func (fakeAuth) Register(_ context.Context, name, email, _ string) (*entities.User, error) {
	if email == "taken@example.com" {
		return nil, fmt.Errorf("%w: email already registered", service.ErrConflict)
	}
	return &entities.User{ID: 7, Name: name, Email: email, CreatedAt: fixedTime}, nil
}

func (fakeAuth) Login(_ context.Context, _, password string) (string, error) {
	if password != "secret123" {
		return "", fmt.Errorf("%w: invalid credentials", service.ErrUnauthorized)
	}
	return "good", nil
}

func (fakeAuth) ParseToken(raw string) (int64, error) {
	switch raw {
	case "good":
		return 1, nil
	case "other":
		return 2, nil
	}
	return 0, fmt.Errorf("%w: token is malformed", service.ErrUnauthorized)
}

func (fakeAuth) Me(_ context.Context, userID int64) (*entities.User, error) {
	return &entities.User{ID: userID, Name: "Hana", Email: "hana@example.com", CreatedAt: fixedTime}, nil
}

type fakeDecks struct {
	created *entities.Deck
}

func (f *fakeDecks) List(context.Context, int64) ([]*entities.Deck, error) {
	return []*entities.Deck{{ID: 10, Name: "Hiragana", Slug: "hiragana", IsPublic: true}}, nil
}

func (f *fakeDecks) Create(_ context.Context, userID int64, d *entities.Deck) error {
	d.ID = 11
	d.OwnerID = &userID
	f.created = d
	return nil
}

func (f *fakeDecks) Get(_ context.Context, userID, deckID int64) (*entities.Deck, error) {
	switch deckID {
	case 10:
		return &entities.Deck{ID: 10, Name: "Hiragana", Slug: "hiragana", IsPublic: true}, nil
	case 20:
		return nil, fmt.Errorf("%w: deck 20 is private", service.ErrForbidden)
	}
	return nil, fmt.Errorf("%w: deck %d", service.ErrNotFound, deckID)
}

type fakeMedia struct{}

func (fakeMedia) Register(_ context.Context, _ int64, m *entities.MediaAsset) error {
	m.ID = 5
	return nil
}

// fakeNoteTypes records the last method called.
type fakeNoteTypes struct {
	called string
	id     int64
}

func (f *fakeNoteTypes) record(name string, id int64) {
	f.called, f.id = name, id
}

func (f *fakeNoteTypes) List(context.Context, int64) ([]*entities.NoteType, error) {
	f.record("List", 0)
	return nil, nil
}

func (f *fakeNoteTypes) Get(_ context.Context, _, id int64) (*entities.NoteType, error) {
	f.record("Get", id)
	return &entities.NoteType{ID: id, Name: "Kana"}, nil
}

func (f *fakeNoteTypes) Create(_ context.Context, _ int64, nt *entities.NoteType) error {
	f.record("Create", 0)
	if nt.DeckID == nil {
		return fmt.Errorf("%w: deck_id is required", service.ErrValidation)
	}
	nt.ID = 30
	return nil
}

func (f *fakeNoteTypes) Update(_ context.Context, _, id int64, patch service.NoteTypePatch) (*entities.NoteType, error) {
	f.record("Update", id)
	return &entities.NoteType{ID: id, Name: *patch.Name}, nil
}

func (f *fakeNoteTypes) Delete(_ context.Context, _, id int64) error {
	f.record("Delete", id)
	return nil
}

func (f *fakeNoteTypes) CreateField(_ context.Context, _ int64, fl *entities.NoteField, sortOrder *int) error {
	f.record("CreateField", fl.NoteTypeID)
	fl.ID = 31
	if sortOrder != nil {
		fl.SortOrder = *sortOrder
	}
	return nil
}

func (f *fakeNoteTypes) UpdateField(_ context.Context, _, id int64, patch service.FieldPatch) (*entities.NoteField, error) {
	f.record("UpdateField", id)
	fl := &entities.NoteField{ID: id, Name: "kana", FieldType: entities.FieldText}
	if patch.FieldType != nil {
		fl.FieldType = *patch.FieldType
	}
	return fl, nil
}

func (f *fakeNoteTypes) DeleteField(_ context.Context, _, id int64) error {
	f.record("DeleteField", id)
	return fmt.Errorf("%w: cannot delete field with existing values", service.ErrValidation)
}

func (f *fakeNoteTypes) CreateTemplate(_ context.Context, _ int64, t *entities.CardTemplate) error {
	f.record("CreateTemplate", t.NoteTypeID)
	t.ID = 34
	return nil
}

func (f *fakeNoteTypes) UpdateTemplate(_ context.Context, _, id int64, _ service.TemplatePatch) (*entities.CardTemplate, error) {
	f.record("UpdateTemplate", id)
	return &entities.CardTemplate{ID: id}, nil
}

func (f *fakeNoteTypes) DeleteTemplate(_ context.Context, _, id int64) error {
	f.record("DeleteTemplate", id)
	return nil
}

type fakeNotes struct {
	input service.NoteInput
}

func (f *fakeNotes) Create(_ context.Context, _ int64, in service.NoteInput) (*entities.Note, []*entities.Card, error) {
	f.input = in
	note := &entities.Note{ID: 40, DeckID: in.DeckID, NoteTypeID: in.NoteTypeID, Tags: in.Tags, FieldValues: in.Values}
	return note, []*entities.Card{{ID: 41}, {ID: 42}}, nil
}

func (f *fakeNotes) Get(_ context.Context, _, noteID int64) (*entities.Note, error) {
	return nil, fmt.Errorf("%w: note %d", service.ErrNotFound, noteID)
}

type fakeStudy struct {
	err      error
	userID   int64
	deckID   int64
	cardID   int64
	limit    int
	dueOnly  bool
	correct  bool
	results  []service.StudyResult
	progress *entities.UserCardProgress
	views    []service.CardView
}

func (f *fakeStudy) StudyBatch(_ context.Context, userID, deckID int64, limit int) ([]service.CardView, error) {
	f.userID, f.deckID, f.limit = userID, deckID, limit
	return f.views, f.err
}

func (f *fakeStudy) SubmitStudy(_ context.Context, userID, deckID int64, results []service.StudyResult) (int, error) {
	f.userID, f.deckID, f.results = userID, deckID, results
	return len(results), f.err
}

func (f *fakeStudy) ReviewQueue(_ context.Context, userID, deckID int64, dueOnly bool, limit int) ([]service.CardView, error) {
	f.userID, f.deckID, f.dueOnly, f.limit = userID, deckID, dueOnly, limit
	return f.views, f.err
}

func (f *fakeStudy) Review(_ context.Context, userID, cardID int64, correct bool) (*entities.UserCardProgress, error) {
	f.userID, f.cardID, f.correct = userID, cardID, correct
	return f.progress, f.err
}

func (f *fakeStudy) SetSuspended(_ context.Context, userID, cardID int64, suspended bool) (*entities.UserCardProgress, error) {
	f.userID, f.cardID = userID, cardID
	p := &entities.UserCardProgress{UserID: userID, CardID: cardID, Schedule: entities.Schedule{Status: entities.StatusNew}}
	if suspended {
		p.Status = entities.StatusSuspended
	}
	return p, f.err
}

func (f *fakeStudy) Logs(_ context.Context, userID, cardID int64, limit int) ([]entities.CardReviewLog, error) {
	f.userID, f.cardID, f.limit = userID, cardID, limit
	return nil, f.err
}

func (f *fakeStudy) DeckStats(_ context.Context, userID, deckID int64) (entities.DeckStats, error) {
	f.userID, f.deckID = userID, deckID
	avg := 1.5
	return entities.DeckStats{
		TotalCards:        4,
		DueToday:          1,
		AvgReps:           &avg,
		StageDistribution: map[string]int{"short_term": 2, entities.StageUnknownKey: 2},
		NewAvailable:      2,
	}, f.err
}

func (f *fakeStudy) DeckCards(_ context.Context, userID, deckID int64) ([]service.CardView, error) {
	f.userID, f.deckID = userID, deckID
	return f.views, f.err
}

type fakeReminders struct {
	update service.ReminderUpdate
}

func (f *fakeReminders) Settings(context.Context, int64) (*service.ReminderSettings, error) {
	return &service.ReminderSettings{UserReminders: *entities.NewUserReminders(1)}, nil
}

func (f *fakeReminders) Update(_ context.Context, userID int64, upd service.ReminderUpdate) (*service.ReminderSettings, error) {
	f.update = upd
	settings := &service.ReminderSettings{UserReminders: *entities.NewUserReminders(userID), TelegramChatID: upd.TelegramChatID}
	if upd.IntervalHours != nil {
		settings.IntervalHours = *upd.IntervalHours
	}
	return settings, nil
}

type testServer struct {
	handler   http.Handler
	decks     *fakeDecks
	noteTypes *fakeNoteTypes
	notes     *fakeNotes
	study     *fakeStudy
	reminders *fakeReminders
}

func newTestServer() *testServer {
	ts := &testServer{
		decks:     &fakeDecks{},
		noteTypes: &fakeNoteTypes{},
		notes:     &fakeNotes{},
		study:     &fakeStudy{},
		reminders: &fakeReminders{},
	}
	logger := zap.NewNop()
	h := NewHandler(logger, Services{
		Auth:      fakeAuth{},
		Decks:     ts.decks,
		Media:     fakeMedia{},
		NoteTypes: ts.noteTypes,
		Notes:     ts.notes,
		Study:     ts.study,
		Reminders: ts.reminders,
	})
	ts.handler = NewRouter(h, logger)
	return ts
}
