package appointment

import "github.com/BruksfildServices01/barber-booking/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusBooked      Status = "booked"
	StatusRescheduled Status = "rescheduled"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
	StatusNoShow      Status = "no_show"
)

var transitions = map[Status][]Status{
	StatusBooked:      {StatusRescheduled, StatusCancelled, StatusCompleted, StatusNoShow},
	StatusRescheduled: {StatusRescheduled, StatusCancelled, StatusCompleted, StatusNoShow},
	StatusCompleted:   {},
	StatusCancelled:   {},
	StatusNoShow:      {},
}

// ActiveStatuses are the statuses that hold a slot and count toward the
// weekly limit.
func ActiveStatuses() []string {
	return []string{string(StatusBooked), string(StatusRescheduled)}
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) IsActive() bool {
	return s == StatusBooked || s == StatusRescheduled
}

func (s Status) IsTerminal() bool {
	next, ok := transitions[s]
	return !ok || len(next) == 0
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// ===============================
// Validations
// ===============================

// CheckTransition rejects any move not in the table, terminal states included.
func CheckTransition(current, target Status) error {
	if !current.CanTransitionTo(target) {
		return httperr.ErrInvalidState(
			"invalid_state",
			"Appointment cannot move from "+string(current)+" to "+string(target)+".",
		)
	}
	return nil
}

func InitialStatus() Status {
	return StatusBooked
}
