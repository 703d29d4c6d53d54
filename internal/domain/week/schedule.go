package week

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Schedule describes the recurring week window: competitions open on
// StartWeekday at StartHour and close six days later at EndHour.
type Schedule struct {
	StartWeekday time.Weekday
	StartHour    int
	EndHour      int
}

// DefaultSchedule is the historical window: Tuesday 10:00 through the
// following Monday 22:00.
func DefaultSchedule() Schedule {
	return Schedule{StartWeekday: time.Tuesday, StartHour: 10, EndHour: 22}
}

// CurrentStart returns the start of the week containing now. Before the
// opening moment the previous week is still current.
func (s Schedule) CurrentStart(now time.Time) time.Time {
	daysSince := (int(now.Weekday()) - int(s.StartWeekday) + 7) % 7
	start := time.Date(now.Year(), now.Month(), now.Day()-daysSince, s.StartHour, 0, 0, 0, now.Location())
	if now.Before(start) {
		start = start.AddDate(0, 0, -7)
	}
	return start
}

// End returns the closing moment of the week opened at start.
func (s Schedule) End(start time.Time) time.Time {
	return time.Date(start.Year(), start.Month(), start.Day()+6, s.EndHour, 0, 0, 0, start.Location())
}

// NextDraw returns the opening moment of the following week.
func (s Schedule) NextDraw(start time.Time) time.Time {
	return time.Date(start.Year(), start.Month(), start.Day()+7, s.StartHour, 0, 0, 0, start.Location())
}

// Active reports whether now falls inside the acceptance window of the week
// opened at start.
func (s Schedule) Active(now, start time.Time) bool {
	return !now.Before(start) && !now.After(s.End(start))
}

// Label derives the "week/month" display label: the ordinal of the week's
// start day among the month's start weekdays, clamped to 1.
func (s Schedule) Label(start time.Time) string {
	firstOfMonth := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	firstOffset := (int(s.StartWeekday) - int(firstOfMonth.Weekday()) + 7) % 7
	firstDay := 1 + firstOffset
	week := (start.Day()-firstDay)/7 + 1
	if week < 1 {
		week = 1
	}
	return fmt.Sprintf("%d/%d", week, int(start.Month()))
}

// Key derives the storage identifier for the week opened at start:
// <namespace>.week.<year>-<month>-<day>-<hour>, unpadded.
func Key(namespace string, start time.Time) string {
	return fmt.Sprintf("%s.week.%d-%d-%d-%d", namespace, start.Year(), int(start.Month()), start.Day(), start.Hour())
}

// KeyTime parses a storage key back into the week's start moment, in loc.
func KeyTime(namespace, key string, loc *time.Location) (time.Time, error) {
	prefix := namespace + ".week."
	rest, ok := strings.CutPrefix(key, prefix)
	if !ok {
		return time.Time{}, fmt.Errorf("key %q does not match namespace %q", key, namespace)
	}
	parts := strings.Split(rest, "-")
	if len(parts) != 4 {
		return time.Time{}, fmt.Errorf("malformed week key %q", key)
	}
	nums := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("malformed week key %q: %w", key, err)
		}
		nums[i] = n
	}
	return time.Date(nums[0], time.Month(nums[1]), nums[2], nums[3], 0, 0, 0, loc), nil
}
