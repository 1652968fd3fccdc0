package entities

import "time"

// CardReviewLog is an immutable snapshot of one review transition. It is
// written for analytics and never consulted by the scheduler.
type CardReviewLog struct {
	ID            int64
	UserID        int64
	CardID        int64
	NoteID        int64
	DeckID        int64
	Correct       bool
	StageBefore   LearningStage
	StageAfter    LearningStage
	StatusAfter   CardStatus
	DueAtAfter    *time.Time
	IntervalAfter int
	EaseAfter     float64
	RepsAfter     int
	LapsesAfter   int
	CreatedAt     time.Time
}

// NewCardReviewLog captures the state of progress right after a review.
func NewCardReviewLog(
	p *UserCardProgress,
	noteID, deckID int64,
	correct bool,
	stageBefore LearningStage,
	now time.Time,
) *CardReviewLog {
	return &CardReviewLog{
		UserID:        p.UserID,
		CardID:        p.CardID,
		NoteID:        noteID,
		DeckID:        deckID,
		Correct:       correct,
		StageBefore:   stageBefore,
		StageAfter:    p.Stage,
		StatusAfter:   p.Status,
		DueAtAfter:    p.DueAt,
		IntervalAfter: p.IntervalMinutes,
		EaseAfter:     p.Ease,
		RepsAfter:     p.Reps,
		LapsesAfter:   p.Lapses,
		CreatedAt:     now,
	}
}
