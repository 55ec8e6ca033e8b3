package slots

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidTime   = errors.New("invalid time of day")
	ErrInvalidWindow = errors.New("invalid availability window")
)

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time with no date or zone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay accepts "HH:MM", "H:MM" and "HH:MM:SS" (Postgres TIME text).
// Seconds are validated, then dropped.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	h, ok := clockField(parts[0], 1, 23)
	if !ok {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	m, ok := clockField(parts[1], 2, 59)
	if !ok {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	if len(parts) == 3 {
		if _, ok := clockField(parts[2], 2, 59); !ok {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// clockField parses an unsigned decimal field of minLen to 2 digits, at most max.
func clockField(s string, minLen, max int) (int, bool) {
	if len(s) < minLen || len(s) > 2 {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > max {
		return 0, false
	}
	return n, true
}

func fromMinutes(total int) TimeOfDay {
	return TimeOfDay{Hour: total / 60, Minute: total % 60}
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) Before(u TimeOfDay) bool {
	return t.Minutes() < u.Minutes()
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Window is a doctor's daily availability, half-open [Start, End).
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

// ParseWindow is the strict counterpart of GenerateSlots: it reports why a
// window cannot produce slots instead of returning an empty list.
func ParseWindow(start, end string) (Window, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return Window{}, err
	}
	if !s.Before(e) {
		return Window{}, fmt.Errorf("%w: %s >= %s", ErrInvalidWindow, s, e)
	}
	return Window{Start: s, End: e}, nil
}

// Slots enumerates slot starts at the given step. Non-positive steps yield nothing.
func (w Window) Slots(stepMinutes int) []string {
	out := make([]string, 0)
	if stepMinutes <= 0 || !w.Start.Before(w.End) {
		return out
	}
	end := w.End.Minutes()
	for cur := w.Start.Minutes(); cur < end && cur < minutesPerDay; cur += stepMinutes {
		out = append(out, fromMinutes(cur).String())
	}
	return out
}
