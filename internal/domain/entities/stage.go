package entities

import (
	"fmt"
	"time"
)

// LearningStage is one of the five fixed milestones of the review ladder.
// The zero value means the card has never been placed on the ladder.
type LearningStage string

const (
	StageNone          LearningStage = ""
	StageShortTerm     LearningStage = "short_term"    // 4h
	StageTransition    LearningStage = "transition"    // 8h
	StageConsolidation LearningStage = "consolidation" // 1d
	StageLongTerm      LearningStage = "long_term"     // 2d
	StageStableMemory  LearningStage = "stable_memory" // 4d
)

// StableMemoryFallback is used instead of the top stage duration when a card
// that already sits on the top stage is answered correctly again.
const StableMemoryFallback = 7 * 24 * time.Hour

type stageStep struct {
	stage    LearningStage
	interval time.Duration
}

var stageLadder = [...]stageStep{
	{StageShortTerm, 4 * time.Hour},
	{StageTransition, 8 * time.Hour},
	{StageConsolidation, 24 * time.Hour},
	{StageLongTerm, 48 * time.Hour},
	{StageStableMemory, 96 * time.Hour},
}

// Stages returns the ladder in ascending order.
func Stages() []LearningStage {
	out := make([]LearningStage, len(stageLadder))
	for i, s := range stageLadder {
		out[i] = s.stage
	}
	return out
}

// StageAt returns the stage at ladder position i, clamping out of range
// positions to the first or last stage.
func StageAt(i int) LearningStage {
	if i < 0 {
		i = 0
	}
	if i >= len(stageLadder) {
		i = len(stageLadder) - 1
	}
	return stageLadder[i].stage
}

// Index returns the ladder position of the stage, or -1 for StageNone and
// unknown values.
func (s LearningStage) Index() int {
	for i, step := range stageLadder {
		if step.stage == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the five ladder stages.
func (s LearningStage) Valid() bool {
	return s.Index() >= 0
}

// IsTop reports whether s is the last stage of the ladder.
func (s LearningStage) IsTop() bool {
	return s.Index() == len(stageLadder)-1
}

// Interval returns the fixed duration attached to the stage. Unset stages
// use the duration of the first stage.
func (s LearningStage) Interval() time.Duration {
	i := s.Index()
	if i < 0 {
		i = 0
	}
	return stageLadder[i].interval
}

// Status derives the card status from the stage: the first two stages are
// still learning, the rest are in review.
func (s LearningStage) Status() CardStatus {
	if s.Index() < 2 {
		return StatusLearning
	}
	return StatusReview
}

// ParseLearningStage validates a stored or user supplied stage. The empty
// string parses to StageNone.
func ParseLearningStage(v string) (LearningStage, error) {
	s := LearningStage(v)
	if s == StageNone || s.Valid() {
		return s, nil
	}
	return StageNone, fmt.Errorf("invalid learning stage %q", v)
}

// Ptr returns nil for StageNone so the value maps onto a nullable column.
func (s LearningStage) Ptr() *string {
	if s == StageNone {
		return nil
	}
	v := string(s)
	return &v
}

// StageFromPtr is the inverse of Ptr.
func StageFromPtr(v *string) LearningStage {
	if v == nil {
		return StageNone
	}
	return LearningStage(*v)
}
