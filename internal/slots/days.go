package slots

import (
	"fmt"
	"strings"
	"time"
)

// DaySet is the set of weekdays a doctor sees patients. A nil set means
// every day, which is how an empty available_days field is treated.
type DaySet map[time.Weekday]struct{}

// ParseDays reads free-text day lists such as "Monday, Wednesday, Friday",
// "mon/wed" or "Mon-Fri".
func ParseDays(s string) (DaySet, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for strings.Contains(s, " -") || strings.Contains(s, "- ") {
		s = strings.ReplaceAll(strings.ReplaceAll(s, " -", "-"), "- ", "-")
	}
	set := DaySet{}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '/' || r == ' '
	})
	for _, f := range fields {
		if from, to, ok := strings.Cut(f, "-"); ok {
			a, okA := dayToken(from)
			b, okB := dayToken(to)
			if !okA || !okB {
				return nil, fmt.Errorf("unknown day range %q", f)
			}
			for d := a; ; d = (d + 1) % 7 {
				set[d] = struct{}{}
				if d == b {
					break
				}
			}
			continue
		}
		d, ok := dayToken(f)
		if !ok {
			return nil, fmt.Errorf("unknown day %q", f)
		}
		set[d] = struct{}{}
	}
	return set, nil
}

func (d DaySet) Has(wd time.Weekday) bool {
	if d == nil {
		return true
	}
	_, ok := d[wd]
	return ok
}

func dayToken(s string) (time.Weekday, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sun", "sunday":
		return time.Sunday, true
	case "mon", "monday":
		return time.Monday, true
	case "tue", "tues", "tuesday":
		return time.Tuesday, true
	case "wed", "wednesday":
		return time.Wednesday, true
	case "thu", "thur", "thurs", "thursday":
		return time.Thursday, true
	case "fri", "friday":
		return time.Friday, true
	case "sat", "saturday":
		return time.Saturday, true
	}
	return 0, false
}
