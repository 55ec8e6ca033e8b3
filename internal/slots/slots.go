// Package slots computes the bookable appointment times for a doctor's
// daily availability window. Everything here is pure: inputs in, slots out.
package slots

// DefaultStepMinutes is the fixed booking granularity offered to patients.
const DefaultStepMinutes = 30

// BookedSet holds "HH:MM" times already reserved for one doctor on one date.
type BookedSet map[string]struct{}

// NewBookedSet normalizes each time to "HH:MM". Entries that do not parse are
// kept as given, so they can never match a generated slot.
func NewBookedSet(times ...string) BookedSet {
	set := make(BookedSet, len(times))
	for _, t := range times {
		set.Add(t)
	}
	return set
}

func (b BookedSet) Add(t string) {
	if tod, err := ParseTimeOfDay(t); err == nil {
		b[tod.String()] = struct{}{}
		return
	}
	b[t] = struct{}{}
}

// Block marks every slot whose [start, start+step) overlaps busy.
func (b BookedSet) Block(slots []string, stepMinutes int, busy Window) {
	for _, s := range slots {
		tod, err := ParseTimeOfDay(s)
		if err != nil {
			continue
		}
		start := tod.Minutes()
		if start < busy.End.Minutes() && busy.Start.Minutes() < start+stepMinutes {
			b[tod.String()] = struct{}{}
		}
	}
}

func (b BookedSet) Has(slot string) bool {
	_, ok := b[slot]
	return ok
}

// GenerateSlots lists slot starts in [start, end) at DefaultStepMinutes.
// A missing, malformed or empty window yields an empty list, never an error.
func GenerateSlots(start, end string) []string {
	return GenerateSlotsStep(start, end, DefaultStepMinutes)
}

func GenerateSlotsStep(start, end string, stepMinutes int) []string {
	w, err := ParseWindow(start, end)
	if err != nil {
		return []string{}
	}
	return w.Slots(stepMinutes)
}

// FilterAvailable drops booked slots, keeping the order of slots.
func FilterAvailable(slots []string, booked BookedSet) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		if booked.Has(s) {
			continue
		}
		out = append(out, s)
	}
	return out
}
