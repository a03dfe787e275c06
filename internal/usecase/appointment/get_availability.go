package appointment

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type GetAvailability struct {
	repo   domain.Repository
	clock  *timezone.Clock
	policy Policy
}

func NewGetAvailability(
	repo domain.Repository,
	clock *timezone.Clock,
	policy Policy,
) *GetAvailability {
	return &GetAvailability{
		repo:   repo,
		clock:  clock,
		policy: policy,
	}
}

// Execute lists the free windows of the barber on a UTC calendar day.
// Missing rule, bad duration or bad step give an empty list, not an error.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	metrics.IncAvailabilityRequest()

	day, err := timezone.ParseDateUTC(in.Date)
	if err != nil {
		return nil, err
	}

	if err := ensureBarber(ctx, uc.repo, in.BarberID); err != nil {
		return nil, err
	}

	step := in.StepMinutes
	if step == 0 {
		step = domain.DefaultStepMinutes
	}
	if in.DurationMinutes <= 0 || step <= 0 {
		return []domain.TimeSlot{}, nil
	}

	// --------------------------------------------------
	// Rule for the weekday
	// --------------------------------------------------
	rule, err := uc.repo.GetWorkingHours(ctx, in.BarberID, int(day.Weekday()))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.TimeSlot{}, nil
		}
		return nil, err
	}

	rangeStart, rangeEnd := domain.DayRange(day, *rule)
	duration := time.Duration(in.DurationMinutes) * time.Minute
	if rangeEnd.Sub(rangeStart) < duration {
		return []domain.TimeSlot{}, nil
	}

	// --------------------------------------------------
	// Blocked intervals
	// --------------------------------------------------
	apps, err := uc.repo.ListActiveAppointments(ctx, in.BarberID, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}
	offs, err := uc.repo.ListTimeOff(ctx, in.BarberID, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}

	blocked := make([]domain.Interval, 0, len(apps)+len(offs))
	for _, ap := range apps {
		blocked = append(blocked, domain.IntervalOf(ap))
	}
	for _, off := range offs {
		blocked = append(blocked, domain.Interval{Start: off.StartsAt, End: off.EndsAt})
	}

	// --------------------------------------------------
	// Lead time, today only
	// --------------------------------------------------
	var minStart time.Time
	now := uc.clock.Now()
	if timezone.SameUTCDay(day, now) {
		minStart = now.Add(time.Duration(uc.policy.BufferMinutes) * time.Minute)
	}

	return domain.GenerateSlots(
		rangeStart,
		rangeEnd,
		duration,
		time.Duration(step)*time.Minute,
		blocked,
		minStart,
	), nil
}
