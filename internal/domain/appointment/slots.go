package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const DefaultStepMinutes = 15

// DayRange is the bookable range of a rule on the given UTC day:
// midnight plus the rule's start and end minutes.
func DayRange(dayUTC time.Time, rule models.WorkingHours) (time.Time, time.Time) {
	midnight := time.Date(dayUTC.Year(), dayUTC.Month(), dayUTC.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.Add(time.Duration(rule.StartMinute) * time.Minute),
		midnight.Add(time.Duration(rule.EndMinute) * time.Minute)
}

// GenerateSlots walks [rangeStart, rangeEnd) in step increments and keeps every
// window of the given duration that fits, overlaps nothing in blocked and does
// not start before minStart. A zero minStart means no lead-time rule.
// Windows come back in ascending order, as UTC instants.
func GenerateSlots(
	rangeStart time.Time,
	rangeEnd time.Time,
	duration time.Duration,
	step time.Duration,
	blocked []Interval,
	minStart time.Time,
) []TimeSlot {

	slots := []TimeSlot{}

	if duration <= 0 || step <= 0 {
		return slots
	}
	if rangeEnd.Sub(rangeStart) < duration {
		return slots
	}

	for p := rangeStart; !p.Add(duration).After(rangeEnd); p = p.Add(step) {
		end := p.Add(duration)

		if !minStart.IsZero() && p.Before(minStart) {
			continue
		}
		if overlapsAny(p, end, blocked) {
			continue
		}

		slots = append(slots, TimeSlot{Start: p.UTC(), End: end.UTC()})
	}

	return slots
}
