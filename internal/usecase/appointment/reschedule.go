package appointment

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// RescheduleInput is a partial update; nil fields keep their current value.
type RescheduleInput struct {
	AppointmentID   uint
	StartsAt        *time.Time
	DurationMinutes *int
}

type RescheduleAppointment struct {
	repo     domain.Repository
	clock    *timezone.Clock
	policy   Policy
	guard    commitGuard
	conflict *ConflictDetector
	gate     *EligibilityGate
	audit    Auditor
}

func NewRescheduleAppointment(
	repo domain.Repository,
	locker lock.Locker,
	clock *timezone.Clock,
	policy Policy,
	audit Auditor,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:     repo,
		clock:    clock,
		policy:   policy,
		guard:    commitGuard{repo: repo, locker: locker, timeout: policy.LockTimeout},
		conflict: NewConflictDetector(repo),
		gate:     NewEligibilityGate(repo),
		audit:    audit,
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	actor Actor,
	in RescheduleInput,
) (*models.Appointment, error) {

	ap, err := uc.execute(ctx, actor, in)
	if err != nil {
		zerolog.Ctx(ctx).Debug().
			Err(err).
			Uint("appointment_id", in.AppointmentID).
			Msg("reschedule rejected")
		return nil, reject(err)
	}
	return ap, nil
}

func (uc *RescheduleAppointment) execute(
	ctx context.Context,
	actor Actor,
	in RescheduleInput,
) (*models.Appointment, error) {

	now := uc.clock.Now()

	// --------------------------------------------------
	// 1. Input, before any lookup
	// --------------------------------------------------
	if in.DurationMinutes != nil {
		if err := validateDuration(*in.DurationMinutes, uc.policy.MaxDurationMinutes); err != nil {
			return nil, err
		}
	}
	if in.StartsAt != nil {
		if err := validateStart(*in.StartsAt, now); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// 2. Current state
	// --------------------------------------------------
	current, err := loadForActor(ctx, uc.repo, actor, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckTransition(domain.Status(current.Status), domain.StatusRescheduled); err != nil {
		return nil, err
	}

	start := current.StartsAt
	if in.StartsAt != nil {
		start = *in.StartsAt
	}
	duration := current.DurationMinutes
	if in.DurationMinutes != nil {
		duration = *in.DurationMinutes
	}
	start = start.UTC()
	end := start.Add(time.Duration(duration) * time.Minute)
	selfID := current.ID

	// --------------------------------------------------
	// 3. Eligibility + fast path conflict, self excluded
	// --------------------------------------------------
	if err := uc.gate.Check(ctx, current.UserID, now, &selfID); err != nil {
		return nil, err
	}

	busy, err := uc.conflict.HasOverlap(ctx, current.BarberID, start, end, &selfID)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, errTimeConflict
	}

	// --------------------------------------------------
	// 4. Commit
	// --------------------------------------------------
	before := map[string]any{
		"starts_at":        current.StartsAt,
		"ends_at":          current.EndsAt,
		"duration_minutes": current.DurationMinutes,
		"status":           current.Status,
	}

	var updated *models.Appointment
	err = uc.guard.run(ctx, current.BarberID, func(tx domain.Repository) error {
		ap, err := lockAppointment(ctx, tx, selfID)
		if err != nil {
			return err
		}
		if err := domain.CheckTransition(domain.Status(ap.Status), domain.StatusRescheduled); err != nil {
			return err
		}

		if err := uc.gate.Within(tx).Check(ctx, ap.UserID, now, &selfID); err != nil {
			return err
		}

		busy, err := uc.conflict.Within(tx).HasOverlap(ctx, ap.BarberID, start, end, &selfID)
		if err != nil {
			return err
		}
		if busy {
			return errTimeConflict
		}

		if err := domain.Reschedule(ap, start, duration); err != nil {
			return err
		}
		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		updated = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5. Audit
	// --------------------------------------------------
	metrics.IncTransition(updated.Status)
	uc.audit.Dispatch(auditEvent(ctx, actor, "appointment_rescheduled", updated.ID, map[string]any{
		"before": before,
		"after": map[string]any{
			"starts_at":        updated.StartsAt,
			"ends_at":          updated.EndsAt,
			"duration_minutes": updated.DurationMinutes,
			"status":           updated.Status,
		},
	}))

	return updated, nil
}
