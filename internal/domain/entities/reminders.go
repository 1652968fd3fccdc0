package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UserReminders is a user's study reminder window. Times are wall clock
// times ("HH:MM:SS") in the user's timezone.
type UserReminders struct {
	UserID        int64
	IsEnabled     bool
	IntervalHours int
	StartTime     string
	EndTime       string
	Timezone      string
	LastSentAt    *time.Time
	NextSendAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewUserReminders returns the default window: hourly between 08:00 and 20:00 UTC.
func NewUserReminders(userID int64) *UserReminders {
	now := time.Now()
	return &UserReminders{
		UserID:        userID,
		IsEnabled:     true,
		IntervalHours: 1,
		StartTime:     "08:00:00",
		EndTime:       "20:00:00",
		Timezone:      "UTC",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate checks the window fields.
func (r *UserReminders) Validate() error {
	if r.IntervalHours < 1 || r.IntervalHours > 24 {
		return fmt.Errorf("interval_hours must be between 1 and 24, got %d", r.IntervalHours)
	}
	start, err := time.Parse(time.TimeOnly, r.StartTime)
	if err != nil {
		return fmt.Errorf("invalid start_time %q", r.StartTime)
	}
	end, err := time.Parse(time.TimeOnly, r.EndTime)
	if err != nil {
		return fmt.Errorf("invalid end_time %q", r.EndTime)
	}
	if !end.After(start) {
		return fmt.Errorf("end_time must be after start_time")
	}
	if _, err := ParseTimezone(r.Timezone); err != nil {
		return err
	}
	return nil
}

// NextSendAfter returns the next round hour inside the window that is aligned
// to the interval, in UTC.
func (r *UserReminders) NextSendAfter(now time.Time) time.Time {
	loc, err := ParseTimezone(r.Timezone)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)

	startHour := hourOf(r.StartTime, 8)
	endHour := hourOf(r.EndTime, 20)
	interval := max(1, r.IntervalHours)

	var nextHour int
	switch current := local.Hour(); {
	case current < startHour:
		nextHour = startHour
	case current >= endHour:
		nextHour = startHour + 24
	default:
		nextHour = startHour + ((current-startHour)/interval+1)*interval
		if nextHour > endHour {
			nextHour = startHour + 24
		}
	}

	next := time.Date(local.Year(), local.Month(), local.Day(), nextHour%24, 0, 0, 0, loc)
	if nextHour >= 24 {
		next = next.AddDate(0, 0, 1)
	}
	return next.UTC()
}

// CanSendNow reports whether the reminder is enabled and its slot has come.
func (r *UserReminders) CanSendNow(now time.Time) bool {
	if !r.IsEnabled {
		return false
	}
	return r.NextSendAt == nil || !now.Before(*r.NextSendAt)
}

func hourOf(clock string, fallback int) int {
	t, err := time.Parse(time.TimeOnly, clock)
	if err != nil {
		return fallback
	}
	return t.Hour()
}

// ReminderTarget is a due reminder joined with the user's chat.
type ReminderTarget struct {
	UserReminders
	ChatID int64
}

// DeckDue is the number of cards due in one deck.
type DeckDue struct {
	DeckID   int64
	DeckName string
	Due      int
}

// ReminderPayload is what the notifier renders for the user.
type ReminderPayload struct {
	TotalDue int
	Decks    []DeckDue
}

// ParseTimezone accepts IANA names, "UTC"/"GMT" and fixed offsets such as
// "UTC+3", "+05:30" or "-7".
func ParseTimezone(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	switch strings.ToUpper(tz) {
	case "", "UTC", "ETC/UTC", "GMT":
		return time.UTC, nil
	}

	if loc, err := time.LoadLocation(tz); err == nil {
		return loc, nil
	}

	offset := tz
	if strings.HasPrefix(strings.ToUpper(offset), "UTC") {
		offset = strings.TrimSpace(offset[3:])
	}
	sec, ok := parseOffset(offset)
	if !ok {
		return nil, fmt.Errorf("unsupported timezone %q", tz)
	}

	sign, abs := '+', sec
	if sec < 0 {
		sign, abs = '-', -sec
	}
	name := fmt.Sprintf("UTC%c%02d:%02d", sign, abs/3600, abs%3600/60)
	return time.FixedZone(name, sec), nil
}

func parseOffset(s string) (int, bool) {
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return 0, false
	}
	sign := 1
	if s[0] == '-' {
		sign = -1
	}

	hh, mm, hasMinutes := strings.Cut(s[1:], ":")
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, false
	}
	m := 0
	if hasMinutes {
		if m, err = strconv.Atoi(mm); err != nil {
			return 0, false
		}
	}
	if h > 14 || m < 0 || m >= 60 || h < 0 {
		return 0, false
	}
	return sign * (h*3600 + m*60), true
}
