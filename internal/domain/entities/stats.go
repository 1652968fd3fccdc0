package entities

import "time"

// StageUnknownKey labels cards without a stage in a stage distribution.
const StageUnknownKey = "unknown"

// StudyCard is a card of a deck together with one user's progress on it.
type StudyCard struct {
	Card     Card
	DeckID   int64
	Progress *UserCardProgress
}

// Started reports whether the user has reviewed the card at least once.
func (c *StudyCard) Started() bool {
	return c.Progress != nil
}

// Effective returns the user's schedule, or the card's fallback schedule when
// the user has not started the card.
func (c *StudyCard) Effective() Schedule {
	if c.Progress != nil {
		return c.Progress.Schedule
	}
	return c.Card.Schedule
}

// DeckStats summarizes a user's progress across one deck.
type DeckStats struct {
	TotalCards        int
	DueToday          int
	NextDueAt         *time.Time
	AvgReps           *float64
	TotalLapses       int
	AccuracyEstimate  *float64
	StageDistribution map[string]int
	NewAvailable      int
}

// ComputeDeckStats aggregates the effective schedules of cards. Due counts only
// consider started, unsuspended cards due before the end of now's UTC day.
func ComputeDeckStats(cards []StudyCard, now time.Time) DeckStats {
	now = now.UTC()
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)

	stats := DeckStats{
		TotalCards:        len(cards),
		StageDistribution: make(map[string]int),
	}

	var sumReps int
	for i := range cards {
		c := &cards[i]
		sched := c.Effective()

		sumReps += sched.Reps
		stats.TotalLapses += sched.Lapses

		key := string(sched.Stage)
		if sched.Stage == StageNone {
			key = StageUnknownKey
		}
		stats.StageDistribution[key]++

		if !c.Started() || sched.Status == StatusNew {
			stats.NewAvailable++
			continue
		}
		if sched.Status == StatusSuspended || sched.DueAt == nil || sched.DueAt.After(endOfDay) {
			continue
		}

		stats.DueToday++
		if stats.NextDueAt == nil || sched.DueAt.Before(*stats.NextDueAt) {
			due := *sched.DueAt
			stats.NextDueAt = &due
		}
	}

	if stats.TotalCards > 0 {
		avg := float64(sumReps) / float64(stats.TotalCards)
		stats.AvgReps = &avg
	}
	if sumReps > 0 {
		acc := max(0, float64(sumReps-stats.TotalLapses)/float64(sumReps))
		stats.AccuracyEstimate = &acc
	}

	return stats
}
