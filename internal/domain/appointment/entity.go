package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CheckTransition(Status(ap.Status), StatusCancelled); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CheckTransition(Status(ap.Status), StatusCompleted); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

func MarkNoShow(ap *models.Appointment, now time.Time) error {
	if err := CheckTransition(Status(ap.Status), StatusNoShow); err != nil {
		return err
	}

	ap.Status = string(StatusNoShow)
	ap.NoShowAt = &now
	return nil
}

// Reschedule moves the appointment in place; the id stays the same.
func Reschedule(ap *models.Appointment, start time.Time, durationMinutes int) error {
	if err := CheckTransition(Status(ap.Status), StatusRescheduled); err != nil {
		return err
	}

	ap.StartsAt = start.UTC()
	ap.DurationMinutes = durationMinutes
	ap.EndsAt = ap.StartsAt.Add(time.Duration(durationMinutes) * time.Minute)
	ap.Status = string(StatusRescheduled)
	return nil
}

// IntervalOf returns the half-open [StartsAt, EndsAt) block held by ap.
func IntervalOf(ap models.Appointment) Interval {
	return Interval{Start: ap.StartsAt, End: ap.EndsAt}
}
