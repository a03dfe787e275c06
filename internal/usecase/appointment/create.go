package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	UserID   uint
	BarberID uint

	ServiceName     string
	DurationMinutes int
	StartsAt        time.Time
	Notes           string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	clock    *timezone.Clock
	policy   Policy
	guard    commitGuard
	conflict *ConflictDetector
	gate     *EligibilityGate
	audit    Auditor
}

func NewCreateAppointment(
	repo domain.Repository,
	locker lock.Locker,
	clock *timezone.Clock,
	policy Policy,
	audit Auditor,
) *CreateAppointment {
	return &CreateAppointment{
		repo:     repo,
		clock:    clock,
		policy:   policy,
		guard:    commitGuard{repo: repo, locker: locker, timeout: policy.LockTimeout},
		conflict: NewConflictDetector(repo),
		gate:     NewEligibilityGate(repo),
		audit:    audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.execute(ctx, in)
	if err != nil {
		zerolog.Ctx(ctx).Debug().
			Err(err).
			Uint("barber_id", in.BarberID).
			Uint("user_id", in.UserID).
			Msg("booking rejected")
		return nil, reject(err)
	}
	return ap, nil
}

func (uc *CreateAppointment) execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	now := uc.clock.Now()

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	service := strings.TrimSpace(in.ServiceName)
	if service == "" || len(service) > 100 {
		return nil, httperr.ErrValidation("invalid_service_name", "Service name is required.")
	}
	if err := validateDuration(in.DurationMinutes, uc.policy.MaxDurationMinutes); err != nil {
		return nil, err
	}
	if err := validateStart(in.StartsAt, now); err != nil {
		return nil, err
	}

	start := in.StartsAt.UTC()
	end := start.Add(time.Duration(in.DurationMinutes) * time.Minute)

	if err := ensureBarber(ctx, uc.repo, in.BarberID); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Eligibility + fast path conflict
	// --------------------------------------------------
	if err := uc.gate.Check(ctx, in.UserID, now, nil); err != nil {
		return nil, err
	}

	busy, err := uc.conflict.HasOverlap(ctx, in.BarberID, start, end, nil)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, errTimeConflict
	}

	// --------------------------------------------------
	// 3. Commit, re-checked under the barber lock
	// --------------------------------------------------
	ap := &models.Appointment{
		UserID:          in.UserID,
		BarberID:        in.BarberID,
		ServiceName:     service,
		DurationMinutes: in.DurationMinutes,
		StartsAt:        start,
		EndsAt:          end,
		Status:          string(domain.InitialStatus()),
		Notes:           strings.TrimSpace(in.Notes),
	}

	err = uc.guard.run(ctx, in.BarberID, func(tx domain.Repository) error {
		if err := uc.gate.Within(tx).Check(ctx, in.UserID, now, nil); err != nil {
			return err
		}

		busy, err := uc.conflict.Within(tx).HasOverlap(ctx, in.BarberID, start, end, nil)
		if err != nil {
			return err
		}
		if busy {
			return errTimeConflict
		}

		return tx.CreateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Audit
	// --------------------------------------------------
	metrics.IncBookingCreated()
	uc.audit.Dispatch(auditEvent(ctx, Actor{UserID: in.UserID}, "appointment_created", ap.ID, map[string]any{
		"barber_id": ap.BarberID,
		"starts_at": ap.StartsAt,
		"ends_at":   ap.EndsAt,
	}))

	return ap, nil
}
