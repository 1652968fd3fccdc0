package entities

import (
	"math"
	"time"
)

const (
	easeBonus   = 0.05 // correct answer
	easePenalty = 0.1  // incorrect answer
)

// UserCardProgress stores the scheduling state of one card for one user.
// It is created lazily on the user's first review of the card.
type UserCardProgress struct {
	UserID int64
	CardID int64

	Schedule
}

// NewUserCardProgress seeds a progress record from the card's fallback
// scheduling fields.
func NewUserCardProgress(userID int64, card *Card) *UserCardProgress {
	p := &UserCardProgress{UserID: userID}
	if card != nil {
		p.CardID = card.ID
		p.Schedule = card.Schedule
	}
	if p.Status == "" {
		p.Status = StatusNew
	}
	return p
}

// ReviewOutcome describes one scheduling transition.
type ReviewOutcome struct {
	StageBefore LearningStage
	Interval    time.Duration
}

// ApplyReview moves the schedule along the fixed stage ladder.
//
// An initial review always lands on the first stage. Otherwise a correct
// answer climbs one stage (the top stage stays put and uses
// StableMemoryFallback) and an incorrect answer drops one stage, never below
// the first. An unset stage counts as the first stage.
func (s *Schedule) ApplyReview(correct, initial bool, now time.Time) ReviewOutcome {
	before := s.Stage
	current := before.Index()
	if current < 0 {
		current = 0
	}

	var next LearningStage
	var interval time.Duration
	switch {
	case initial:
		next = StageAt(0)
		interval = next.Interval()
	case correct && StageAt(current).IsTop():
		next = StageAt(current)
		interval = StableMemoryFallback
	case correct:
		next = StageAt(current + 1)
		interval = next.Interval()
	default:
		next = StageAt(current - 1)
		interval = next.Interval()
	}

	due := now.Add(interval)
	reviewed := now

	s.Stage = next
	s.IntervalMinutes = int(interval / time.Minute)
	s.DueAt = &due
	s.LastReviewedAt = &reviewed
	s.Reps++
	if !correct {
		s.Lapses++
	}
	s.Ease = adjustEase(s.Ease, correct)
	s.Status = next.Status()

	return ReviewOutcome{StageBefore: before, Interval: interval}
}

// Suspend takes the schedule out of every queue.
func (s *Schedule) Suspend() {
	s.Status = StatusSuspended
}

// Resume restores the status implied by the stage.
func (s *Schedule) Resume() {
	if s.Stage == StageNone {
		s.Status = StatusNew
		return
	}
	s.Status = s.Stage.Status()
}

// IsDue reports whether the schedule should be shown at now.
func (s *Schedule) IsDue(now time.Time) bool {
	return s.DueAt == nil || !s.DueAt.After(now)
}

func adjustEase(current float64, correct bool) float64 {
	if current == 0 {
		current = DefaultEase
	}
	if correct {
		current += easeBonus
	} else {
		current -= easePenalty
	}
	// Keep two decimals so repeated nudges do not drift.
	current = math.Round(current*100) / 100
	return math.Min(MaxEase, math.Max(MinEase, current))
}
