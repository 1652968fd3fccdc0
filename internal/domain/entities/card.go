package entities

import "time"

// CardStatus is the coarse lifecycle state of a card for one user.
type CardStatus string

const (
	StatusNew       CardStatus = "new"
	StatusLearning  CardStatus = "learning"
	StatusReview    CardStatus = "review"
	StatusSuspended CardStatus = "suspended"
)

// Valid reports whether s is a known status.
func (s CardStatus) Valid() bool {
	switch s {
	case StatusNew, StatusLearning, StatusReview, StatusSuspended:
		return true
	}
	return false
}

const (
	DefaultEase = 2.5
	MinEase     = 1.3
	MaxEase     = 3.0
)

// Schedule holds the spaced repetition fields shared by a card's defaults and
// a user's progress on that card.
type Schedule struct {
	Status          CardStatus
	Stage           LearningStage
	IntervalMinutes int
	Ease            float64
	DueAt           *time.Time
	LastReviewedAt  *time.Time
	Reps            int
	Lapses          int
}

// Card is generated from a note by one of its note type's templates.
type Card struct {
	ID             int64
	NoteID         int64
	CardTemplateID int64
	Mnemonic       *string

	// Fallback scheduling used while a user has no progress on the card.
	Schedule
}

// NewCard creates a card with the default scheduling fields.
func NewCard(noteID, templateID int64, mnemonic *string, now time.Time) *Card {
	due := now
	return &Card{
		NoteID:         noteID,
		CardTemplateID: templateID,
		Mnemonic:       mnemonic,
		Schedule: Schedule{
			Status:          StatusNew,
			Stage:           StageNone,
			IntervalMinutes: 0,
			Ease:            DefaultEase,
			DueAt:           &due,
		},
	}
}
