package domain

import (
	"fmt"
	"sort"
	"time"
)

// MinutesPerDay is the number of minutes in a calendar day.
const MinutesPerDay = 24 * 60

// ClockTime is a time of day measured in minutes since midnight.
type ClockTime int

// ParseClockTime parses an "HH:MM" string on a 24-hour clock (00:00 to 23:59).
func ParseClockTime(s string) (ClockTime, error) {
	if len(s) != 5 || s[2] != ':' || !isDigits(s[:2]) || !isDigits(s[3:]) {
		return 0, fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidArgument, s)
	}

	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: time %q out of range", ErrInvalidArgument, s)
	}

	return ClockTime(h*60 + m), nil
}

// ClockTimeOf returns the time of day of t in t's location.
func ClockTimeOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*60 + t.Minute())
}

// String formats the time as "HH:MM".
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// BreakWindow is a half-open [Start, End) interval during which a store is
// closed on an otherwise open day.
type BreakWindow struct {
	Start ClockTime
	End   ClockTime
}

func (b *BreakWindow) covers(t ClockTime) bool {
	return b != nil && t >= b.Start && t < b.End
}

// OpenHour is one weekday row of a store's schedule. A row whose Close is
// earlier than its Open spans midnight into the following day.
type OpenHour struct {
	StoreID   string
	DayOfWeek time.Weekday
	Open      ClockTime
	Close     ClockTime
	Break     *BreakWindow // nil when the store takes no break
	Is24h     bool
}

// Overnight reports whether the row's span crosses midnight.
func (h OpenHour) Overnight() bool {
	return h.Open > h.Close
}

func (h OpenHour) coversSameDay(t ClockTime) bool {
	var open bool
	switch {
	case h.Is24h:
		open = true
	case h.Open <= h.Close:
		open = t >= h.Open && t < h.Close
	default:
		open = t >= h.Open || t < h.Close
	}

	return open && !h.Break.covers(t)
}

// coversSpillover reports whether the row, taken as yesterday's schedule,
// keeps the store open at t today. Only the stored span decides; a 24-hour
// row with an overnight span spills over like any other.
func (h OpenHour) coversSpillover(t ClockTime) bool {
	return h.Overnight() && t < h.Close && !h.Break.covers(t)
}

// PreviousDay returns the weekday before d, wrapping Sunday to Saturday.
func PreviousDay(d time.Weekday) time.Weekday {
	return (d + 6) % 7
}

// IsOpenAt reports whether the schedule has the store open on day at t,
// either through that day's row or through the previous day's overnight span.
// A day without rows is closed.
func IsOpenAt(hours []OpenHour, day time.Weekday, t ClockTime) bool {
	prev := PreviousDay(day)
	for _, h := range hours {
		if h.DayOfWeek == day && h.coversSameDay(t) {
			return true
		}
		if h.DayOfWeek == prev && h.coversSpillover(t) {
			return true
		}
	}

	return false
}

// NextOpening returns the first instant strictly after at when the store
// transitions into an open state, looking ahead at most one week.
func NextOpening(hours []OpenHour, at time.Time) (time.Time, bool) {
	if len(hours) == 0 {
		return time.Time{}, false
	}

	type candidate struct {
		offset int
		day    time.Weekday
		clock  ClockTime
	}

	now := int(ClockTimeOf(at))
	var candidates []candidate
	for k := 0; k <= 7; k++ {
		day := (at.Weekday() + time.Weekday(k)) % 7
		for _, h := range hours {
			if h.DayOfWeek != day {
				continue
			}
			starts := []ClockTime{h.Open}
			if h.Is24h {
				starts[0] = 0
			}
			if h.Break != nil {
				starts = append(starts, h.Break.End)
			}
			for _, c := range starts {
				off := k*MinutesPerDay + int(c)
				if off > now {
					candidates = append(candidates, candidate{offset: off, day: day, clock: c})
				}
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].offset < candidates[j].offset })

	for _, c := range candidates {
		if IsOpenAt(hours, c.day, c.clock) {
			midnight := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
			return midnight.AddDate(0, 0, c.offset/MinutesPerDay).
				Add(time.Duration(c.offset%MinutesPerDay) * time.Minute), true
		}
	}

	return time.Time{}, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
