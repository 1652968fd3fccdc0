package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
	"github.com/aliskhannn/nihon-flash/internal/infra/postgres/repository"
)

// memStore backs every fake repository with maps.
type memStore struct {
	mu        sync.Mutex
	nextID    int64
	users     map[int64]*entities.User
	decks     map[int64]*entities.Deck
	noteTypes map[int64]*entities.NoteType
	notes     map[int64]*entities.Note
	cards     map[int64]*entities.Card
	progress  map[[2]int64]*entities.UserCardProgress
	logs      []entities.CardReviewLog
	media     map[int64]*entities.MediaAsset
	reminders map[int64]*entities.UserReminders
}

func newMemStore() *memStore {
	return &memStore{
		nextID:    100,
		users:     map[int64]*entities.User{},
		decks:     map[int64]*entities.Deck{},
		noteTypes: map[int64]*entities.NoteType{},
		notes:     map[int64]*entities.Note{},
		cards:     map[int64]*entities.Card{},
		progress:  map[[2]int64]*entities.UserCardProgress{},
		media:     map[int64]*entities.MediaAsset{},
		reminders: map[int64]*entities.UserReminders{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

type fakeTx struct{ calls int }

func (t *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type fakeUsers struct{ *memStore }

func (f fakeUsers) Create(_ context.Context, u *entities.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.users {
		if other.Email == u.Email {
			return repository.ErrEmailTaken
		}
	}
	u.ID = f.id()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f fakeUsers) GetByID(_ context.Context, id int64) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f fakeUsers) SetTelegramChatID(_ context.Context, id int64, chatID *int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.TelegramChatID = chatID
	return nil
}

type fakeDecks struct{ *memStore }

func (f fakeDecks) Create(_ context.Context, d *entities.Deck) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.decks {
		if other.Slug == d.Slug {
			return repository.ErrSlugTaken
		}
	}
	d.ID = f.id()
	cp := *d
	f.decks[d.ID] = &cp
	return nil
}

func (f fakeDecks) GetByID(_ context.Context, id int64) (*entities.Deck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.decks[id]
	if !ok {
		return nil, repository.ErrDeckNotFound
	}
	cp := *d
	return &cp, nil
}

func (f fakeDecks) ListVisible(_ context.Context, userID int64) ([]*entities.Deck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Deck
	for _, d := range f.decks {
		if d.CanRead(userID) {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeNoteTypes struct{ *memStore }

func copyNoteType(nt *entities.NoteType) *entities.NoteType {
	cp := *nt
	cp.Fields = append([]entities.NoteField(nil), nt.Fields...)
	cp.Templates = append([]entities.CardTemplate(nil), nt.Templates...)
	return &cp
}

func (f fakeNoteTypes) ListVisible(_ context.Context, userID int64) ([]*entities.NoteType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.NoteType
	for _, nt := range f.noteTypes {
		if nt.DeckID == nil {
			out = append(out, copyNoteType(nt))
			continue
		}
		if d, ok := f.decks[*nt.DeckID]; ok && (d.IsPublic || d.IsOwnedBy(userID)) {
			out = append(out, copyNoteType(nt))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeNoteTypes) GetByID(_ context.Context, id int64) (*entities.NoteType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	nt, ok := f.noteTypes[id]
	if !ok {
		return nil, repository.ErrNoteTypeNotFound
	}
	return copyNoteType(nt), nil
}

func (f fakeNoteTypes) Create(_ context.Context, nt *entities.NoteType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	nt.ID = f.id()
	f.noteTypes[nt.ID] = copyNoteType(nt)
	return nil
}

func (f fakeNoteTypes) Update(_ context.Context, nt *entities.NoteType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.noteTypes[nt.ID]
	if !ok {
		return repository.ErrNoteTypeNotFound
	}
	cur.Name, cur.Description, cur.DeckID = nt.Name, nt.Description, nt.DeckID
	return nil
}

func (f fakeNoteTypes) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.noteTypes[id]; !ok {
		return repository.ErrNoteTypeNotFound
	}
	delete(f.noteTypes, id)
	return nil
}

func (f fakeNoteTypes) CountNotes(_ context.Context, id int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, note := range f.notes {
		if note.NoteTypeID == id {
			n++
		}
	}
	return n, nil
}

func (f fakeNoteTypes) GetField(_ context.Context, id int64) (*entities.NoteField, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, nt := range f.noteTypes {
		for _, fl := range nt.Fields {
			if fl.ID == id {
				cp := fl
				return &cp, nil
			}
		}
	}
	return nil, repository.ErrFieldNotFound
}

func (f fakeNoteTypes) CreateField(_ context.Context, fl *entities.NoteField) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	nt, ok := f.noteTypes[fl.NoteTypeID]
	if !ok {
		return repository.ErrNoteTypeNotFound
	}
	fl.ID = f.id()
	nt.Fields = append(nt.Fields, *fl)
	return nil
}

func (f fakeNoteTypes) UpdateField(_ context.Context, fl *entities.NoteField) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, nt := range f.noteTypes {
		for i := range nt.Fields {
			if nt.Fields[i].ID == fl.ID {
				nt.Fields[i] = *fl
				return nil
			}
		}
	}
	return repository.ErrFieldNotFound
}

func (f fakeNoteTypes) DeleteField(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, nt := range f.noteTypes {
		for i := range nt.Fields {
			if nt.Fields[i].ID == id {
				nt.Fields = append(nt.Fields[:i], nt.Fields[i+1:]...)
				return nil
			}
		}
	}
	return repository.ErrFieldNotFound
}

func (f fakeNoteTypes) CountFieldValues(_ context.Context, fieldID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, note := range f.notes {
		for _, v := range note.FieldValues {
			if v.FieldID == fieldID {
				n++
			}
		}
	}
	return n, nil
}

func (f fakeNoteTypes) findTemplate(id int64) (*entities.NoteType, int) {
	for _, nt := range f.noteTypes {
		for i := range nt.Templates {
			if nt.Templates[i].ID == id {
				return nt, i
			}
		}
	}
	return nil, -1
}

func (f fakeNoteTypes) GetTemplate(_ context.Context, id int64) (*entities.CardTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	nt, i := f.findTemplate(id)
	if nt == nil {
		return nil, repository.ErrTemplateNotFound
	}
	cp := nt.Templates[i]
	return &cp, nil
}

func (f fakeNoteTypes) TemplatesByIDs(_ context.Context, ids []int64) (map[int64]entities.CardTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[int64]entities.CardTemplate{}
	for _, id := range ids {
		if nt, i := f.findTemplate(id); nt != nil {
			out[id] = nt.Templates[i]
		}
	}
	return out, nil
}

func (f fakeNoteTypes) CreateTemplate(_ context.Context, t *entities.CardTemplate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	nt, ok := f.noteTypes[t.NoteTypeID]
	if !ok {
		return repository.ErrNoteTypeNotFound
	}
	t.ID = f.id()
	nt.Templates = append(nt.Templates, *t)
	return nil
}

func (f fakeNoteTypes) UpdateTemplate(_ context.Context, t *entities.CardTemplate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	nt, i := f.findTemplate(t.ID)
	if nt == nil {
		return repository.ErrTemplateNotFound
	}
	nt.Templates[i] = *t
	return nil
}

func (f fakeNoteTypes) DeleteTemplate(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	nt, i := f.findTemplate(id)
	if nt == nil {
		return repository.ErrTemplateNotFound
	}
	nt.Templates = append(nt.Templates[:i], nt.Templates[i+1:]...)
	return nil
}

type fakeNotes struct{ *memStore }

func (f fakeNotes) Create(_ context.Context, n *entities.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = f.id()
	for i := range n.FieldValues {
		n.FieldValues[i].ID = f.id()
		n.FieldValues[i].NoteID = n.ID
	}
	cp := *n
	cp.FieldValues = append([]entities.NoteFieldValue(nil), n.FieldValues...)
	f.notes[n.ID] = &cp
	return nil
}

func (f fakeNotes) GetByID(ctx context.Context, id int64) (*entities.Note, error) {
	f.mu.Lock()
	n, ok := f.notes[id]
	f.mu.Unlock()
	if !ok {
		return nil, repository.ErrNoteNotFound
	}
	cp := *n
	values, _ := f.ValuesByNoteIDs(ctx, []int64{id})
	cp.FieldValues = values[id]
	return &cp, nil
}

func (f fakeNotes) ValuesByNoteIDs(_ context.Context, ids []int64) (map[int64][]entities.NoteFieldValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[int64][]entities.NoteFieldValue{}
	for _, id := range ids {
		n, ok := f.notes[id]
		if !ok {
			continue
		}
		nt := f.noteTypes[n.NoteTypeID]
		for _, v := range n.FieldValues {
			if nt != nil {
				if fl, ok := nt.Field(v.FieldID); ok {
					v.FieldName = fl.Name
				}
			}
			if v.MediaAssetID != nil {
				if m, ok := f.media[*v.MediaAssetID]; ok {
					url := m.URL
					v.MediaURL = &url
				}
			}
			out[id] = append(out[id], v)
		}
	}
	return out, nil
}

type fakeCards struct{ *memStore }

func (f fakeCards) Create(_ context.Context, c *entities.Card) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.id()
	cp := *c
	f.cards[c.ID] = &cp
	return nil
}

func (f fakeCards) studyCard(userID int64, c *entities.Card) entities.StudyCard {
	sc := entities.StudyCard{Card: *c}
	if n, ok := f.notes[c.NoteID]; ok {
		sc.DeckID = n.DeckID
	}
	if p, ok := f.progress[[2]int64{userID, c.ID}]; ok {
		cp := *p
		sc.Progress = &cp
	}
	return sc
}

func (f fakeCards) sorted(userID int64, keep func(entities.StudyCard) bool) []entities.StudyCard {
	var out []entities.StudyCard
	for _, c := range f.cards {
		sc := f.studyCard(userID, c)
		if keep(sc) {
			out = append(out, sc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Card.ID < out[j].Card.ID })
	return out
}

func (f fakeCards) GetForUser(_ context.Context, userID, cardID int64) (*entities.StudyCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cards[cardID]
	if !ok {
		return nil, repository.ErrCardNotFound
	}
	sc := f.studyCard(userID, c)
	return &sc, nil
}

func (f fakeCards) ListForUser(_ context.Context, userID int64, ids []int64) ([]entities.StudyCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := map[int64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	return f.sorted(userID, func(sc entities.StudyCard) bool { return want[sc.Card.ID] }), nil
}

func (f fakeCards) ListUnstarted(_ context.Context, userID, deckID int64, limit int) ([]entities.StudyCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.sorted(userID, func(sc entities.StudyCard) bool { return sc.DeckID == deckID && !sc.Started() })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f fakeCards) ListDeck(_ context.Context, userID, deckID int64) ([]entities.StudyCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(userID, func(sc entities.StudyCard) bool { return sc.DeckID == deckID }), nil
}

func (f fakeCards) ListReviews(_ context.Context, userID, deckID int64, dueOnly bool, now time.Time, limit int) ([]entities.StudyCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.sorted(userID, func(sc entities.StudyCard) bool {
		if sc.DeckID != deckID || sc.Progress == nil {
			return false
		}
		p := sc.Progress
		if p.Status == entities.StatusNew || p.Status == entities.StatusSuspended {
			return false
		}
		return !dueOnly || p.DueAt == nil || !p.DueAt.After(now)
	})
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Progress.DueAt, out[j].Progress.DueAt
		switch {
		case a == nil:
			return b != nil
		case b == nil:
			return false
		}
		return a.Before(*b)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeProgress struct{ *memStore }

func (f fakeProgress) Get(_ context.Context, userID, cardID int64) (*entities.UserCardProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.progress[[2]int64{userID, cardID}]
	if !ok {
		return nil, repository.ErrProgressNotFound
	}
	cp := *p
	return &cp, nil
}

func (f fakeProgress) Seed(_ context.Context, p *entities.UserCardProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]int64{p.UserID, p.CardID}
	if _, ok := f.progress[key]; ok {
		return nil
	}
	cp := *p
	f.progress[key] = &cp
	return nil
}

func (f fakeProgress) Upsert(_ context.Context, p *entities.UserCardProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.progress[[2]int64{p.UserID, p.CardID}] = &cp
	return nil
}

type fakeLogs struct{ *memStore }

func (f fakeLogs) Create(_ context.Context, l *entities.CardReviewLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l.ID = f.id()
	f.logs = append(f.logs, *l)
	return nil
}

func (f fakeLogs) ListByCard(_ context.Context, userID, cardID int64, limit int) ([]entities.CardReviewLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entities.CardReviewLog
	for i := len(f.logs) - 1; i >= 0 && len(out) < limit; i-- {
		if f.logs[i].UserID == userID && f.logs[i].CardID == cardID {
			out = append(out, f.logs[i])
		}
	}
	return out, nil
}

type fakeMedia struct{ *memStore }

func (f fakeMedia) Create(_ context.Context, m *entities.MediaAsset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = f.id()
	cp := *m
	f.media[m.ID] = &cp
	return nil
}

func (f fakeMedia) DeckIDs(_ context.Context, ids []int64) (map[int64]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[int64]int64{}
	for _, id := range ids {
		if m, ok := f.media[id]; ok {
			out[id] = m.DeckID
		}
	}
	return out, nil
}

// fixture is a store seeded with two users, a public deck owned by owner, a
// private deck owned by owner and a kana note type with two templates.
type fixture struct {
	store       *memStore
	tx          *fakeTx
	owner       int64
	stranger    int64
	publicDeck  int64
	privateDeck int64
	noteType    *entities.NoteType
	now         time.Time
}

func newFixture() *fixture {
	s := newMemStore()
	f := &fixture{store: s, tx: &fakeTx{}, owner: 1, stranger: 2, now: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)}

	s.users[1] = &entities.User{ID: 1, Name: "Owner", Email: "owner@example.com"}
	s.users[2] = &entities.User{ID: 2, Name: "Stranger", Email: "stranger@example.com"}

	owner := f.owner
	s.decks[10] = &entities.Deck{ID: 10, Name: "Hiragana", Slug: "hiragana", IsPublic: true, OwnerID: &owner}
	s.decks[20] = &entities.Deck{ID: 20, Name: "Private", Slug: "private", OwnerID: &owner}
	f.publicDeck, f.privateDeck = 10, 20

	deck := f.publicDeck
	f.noteType = &entities.NoteType{
		ID:     30,
		Name:   "Kana",
		DeckID: &deck,
		Fields: []entities.NoteField{
			{ID: 31, NoteTypeID: 30, Name: "kana", Label: "Kana", FieldType: entities.FieldText, IsRequired: true},
			{ID: 32, NoteTypeID: 30, Name: "romaji", Label: "Romaji", FieldType: entities.FieldText, IsRequired: true, SortOrder: 1},
			{ID: 33, NoteTypeID: 30, Name: "audio", Label: "Audio", FieldType: entities.FieldAudio, SortOrder: 2},
		},
		Templates: []entities.CardTemplate{
			{ID: 34, NoteTypeID: 30, Name: "Recognition", FrontTemplate: "{{kana}}", BackTemplate: "{{romaji}}", IsActive: true},
			{ID: 35, NoteTypeID: 30, Name: "Recall", FrontTemplate: "{{ romaji }}", BackTemplate: "{{kana}} {{audio}}", IsActive: true},
			{ID: 36, NoteTypeID: 30, Name: "Retired", FrontTemplate: "{{kana}}", BackTemplate: "", IsActive: false},
		},
	}
	s.noteTypes[30] = copyNoteType(f.noteType)

	return f
}

func (f *fixture) noteService() *NoteService {
	s := f.store
	svc := NewNoteService(f.tx, fakeDecks{s}, fakeNoteTypes{s}, fakeNotes{s}, fakeCards{s}, fakeMedia{s}, zap.NewNop())
	svc.now = func() time.Time { return f.now }
	return svc
}

func (f *fixture) studyService() *StudyService {
	s := f.store
	svc := NewStudyService(f.tx, fakeDecks{s}, fakeNoteTypes{s}, fakeNotes{s}, fakeCards{s}, fakeProgress{s}, fakeLogs{s}, zap.NewNop())
	svc.now = func() time.Time { return f.now }
	return svc
}

// addNote creates a kana note in deckID and returns the IDs of its cards.
func (f *fixture) addNote(deckID int64, kana, romaji string) []int64 {
	s := f.store
	s.mu.Lock()
	defer s.mu.Unlock()

	noteID := s.id()
	k, r := kana, romaji
	s.notes[noteID] = &entities.Note{
		ID: noteID, DeckID: deckID, NoteTypeID: 30,
		FieldValues: []entities.NoteFieldValue{
			{ID: s.id(), NoteID: noteID, FieldID: 31, ValueText: &k},
			{ID: s.id(), NoteID: noteID, FieldID: 32, ValueText: &r},
		},
	}

	var ids []int64
	for _, tpl := range []int64{34, 35} {
		c := entities.NewCard(noteID, tpl, nil, f.now)
		c.ID = s.id()
		s.cards[c.ID] = c
		ids = append(ids, c.ID)
	}
	return ids
}
