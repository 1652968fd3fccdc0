package entities

import (
	"testing"
	"time"
)

func TestNextSendAfter(t *testing.T) {
	r := NewUserReminders(1)
	r.IntervalHours = 2

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"before window", time.Date(2025, 1, 1, 6, 30, 0, 0, time.UTC), time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)},
		{"inside window", time.Date(2025, 1, 1, 9, 15, 0, 0, time.UTC), time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"after window", time.Date(2025, 1, 1, 21, 0, 0, 0, time.UTC), time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC)},
		{"last slot at window end", time.Date(2025, 1, 1, 19, 0, 0, 0, time.UTC), time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := r.NextSendAfter(tt.now); !got.Equal(tt.want) {
			t.Errorf("%s: NextSendAfter(%v) = %v, want %v", tt.name, tt.now, got, tt.want)
		}
	}
}

func TestNextSendAfterFixedOffset(t *testing.T) {
	r := NewUserReminders(1)
	r.Timezone = "UTC+3"

	// 04:00 UTC is 07:00 local, so the first slot is 08:00 local = 05:00 UTC.
	got := r.NextSendAfter(time.Date(2025, 1, 1, 4, 0, 0, 0, time.UTC))
	want := time.Date(2025, 1, 1, 5, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NextSendAfter = %v, want %v", got, want)
	}
}

func TestCanSendNow(t *testing.T) {
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	r := NewUserReminders(1)
	if !r.CanSendNow(now) {
		t.Error("first reminder should be sendable")
	}

	later := now.Add(time.Hour)
	r.NextSendAt = &later
	if r.CanSendNow(now) {
		t.Error("reminder before next_send_at should not be sendable")
	}
	if !r.CanSendNow(later) {
		t.Error("reminder at next_send_at should be sendable")
	}

	r.IsEnabled = false
	if r.CanSendNow(later) {
		t.Error("disabled reminder should not be sendable")
	}
}

func TestParseTimezone(t *testing.T) {
	tests := []struct {
		in     string
		offset int
		ok     bool
	}{
		{"UTC", 0, true},
		{"", 0, true},
		{"UTC+3", 3 * 3600, true},
		{"+05:30", 5*3600 + 30*60, true},
		{"-7", -7 * 3600, true},
		{"UTC+15", 0, false},
		{"Mars/Olympus", 0, false},
	}
	for _, tt := range tests {
		loc, err := ParseTimezone(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseTimezone(%q) error = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if !tt.ok {
			continue
		}
		_, off := time.Date(2025, 1, 1, 0, 0, 0, 0, loc).Zone()
		if off != tt.offset {
			t.Errorf("ParseTimezone(%q) offset = %d, want %d", tt.in, off, tt.offset)
		}
	}
}

func TestValidateReminders(t *testing.T) {
	r := NewUserReminders(1)
	if err := r.Validate(); err != nil {
		t.Fatalf("default reminders invalid: %v", err)
	}
	r.EndTime = "07:00:00"
	if err := r.Validate(); err == nil {
		t.Error("end before start should be invalid")
	}
}
