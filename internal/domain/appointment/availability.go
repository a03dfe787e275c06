package appointment

import "time"

type AvailabilityInput struct {
	BarberID        uint
	Date            string // YYYY-MM-DD, read as a UTC calendar day
	DurationMinutes int
	StepMinutes     int
}

type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Interval is half-open: [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps is the one overlap predicate used by both slot generation and the
// conflict check. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

func overlapsAny(start, end time.Time, blocked []Interval) bool {
	for _, b := range blocked {
		if Overlaps(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}
