package entities

import (
	"testing"
	"time"
)

func ptrTime(t time.Time) *time.Time { return &t }

func TestComputeDeckStats(t *testing.T) {
	now := time.Date(2025, 12, 7, 10, 0, 0, 0, time.UTC)

	fresh := NewCard(1, 1, nil, now)
	cards := []StudyCard{
		{Card: *fresh},
		{Card: *fresh, Progress: &UserCardProgress{Schedule: Schedule{
			Status: StatusLearning, Stage: StageShortTerm, DueAt: ptrTime(now.Add(2 * time.Hour)), Reps: 2, Lapses: 1,
		}}},
		{Card: *fresh, Progress: &UserCardProgress{Schedule: Schedule{
			Status: StatusReview, Stage: StageLongTerm, DueAt: ptrTime(now.Add(-time.Hour)), Reps: 5,
		}}},
		{Card: *fresh, Progress: &UserCardProgress{Schedule: Schedule{
			Status: StatusReview, Stage: StageStableMemory, DueAt: ptrTime(now.Add(72 * time.Hour)), Reps: 4, Lapses: 1,
		}}},
		{Card: *fresh, Progress: &UserCardProgress{Schedule: Schedule{
			Status: StatusSuspended, Stage: StageLongTerm, DueAt: ptrTime(now.Add(-time.Hour)), Reps: 1,
		}}},
	}

	stats := ComputeDeckStats(cards, now)

	if stats.TotalCards != 5 {
		t.Errorf("TotalCards = %d, want 5", stats.TotalCards)
	}
	if stats.DueToday != 2 {
		t.Errorf("DueToday = %d, want 2", stats.DueToday)
	}
	if stats.NextDueAt == nil || !stats.NextDueAt.Equal(now.Add(-time.Hour)) {
		t.Errorf("NextDueAt = %v, want %v", stats.NextDueAt, now.Add(-time.Hour))
	}
	if stats.NewAvailable != 1 {
		t.Errorf("NewAvailable = %d, want 1", stats.NewAvailable)
	}
	if stats.TotalLapses != 2 {
		t.Errorf("TotalLapses = %d, want 2", stats.TotalLapses)
	}
	if stats.AvgReps == nil || *stats.AvgReps != 12.0/5 {
		t.Errorf("AvgReps = %v, want %v", stats.AvgReps, 12.0/5)
	}
	if stats.AccuracyEstimate == nil || *stats.AccuracyEstimate != 10.0/12 {
		t.Errorf("AccuracyEstimate = %v, want %v", stats.AccuracyEstimate, 10.0/12)
	}

	want := map[string]int{
		StageUnknownKey:           1,
		string(StageShortTerm):    1,
		string(StageLongTerm):     2,
		string(StageStableMemory): 1,
	}
	for k, v := range want {
		if stats.StageDistribution[k] != v {
			t.Errorf("StageDistribution[%q] = %d, want %d", k, stats.StageDistribution[k], v)
		}
	}
}

func TestComputeDeckStatsEmpty(t *testing.T) {
	stats := ComputeDeckStats(nil, time.Now())
	if stats.TotalCards != 0 || stats.AvgReps != nil || stats.AccuracyEstimate != nil || stats.NextDueAt != nil {
		t.Errorf("ComputeDeckStats(nil) = %+v, want zero stats", stats)
	}
}
