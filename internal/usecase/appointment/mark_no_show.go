package appointment

import (
	"context"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type MarkNoShow struct {
	repo  domain.Repository
	clock *timezone.Clock
	audit Auditor
}

func NewMarkNoShow(
	repo domain.Repository,
	clock *timezone.Clock,
	audit Auditor,
) *MarkNoShow {
	return &MarkNoShow{
		repo:  repo,
		clock: clock,
		audit: audit,
	}
}

// Execute moves the appointment to no_show and warns its owner, blocking
// them at the threshold. Both writes commit together or not at all.
func (uc *MarkNoShow) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uint,
) (*models.Appointment, error) {

	if !actor.IsAdmin() {
		return nil, reject(errAdminOnly)
	}

	now := uc.clock.Now().UTC()

	var (
		ap   *models.Appointment
		user *models.User
	)
	err := uc.repo.WithTx(ctx, func(tx domain.Repository) error {
		var err error

		ap, err = lockAppointment(ctx, tx, appointmentID)
		if err != nil {
			return err
		}

		if err := domain.MarkNoShow(ap, now); err != nil {
			return err
		}
		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		user, err = tx.GetUserForUpdate(ctx, ap.UserID)
		if err != nil {
			return err
		}
		domain.ApplyNoShowWarning(user, now)
		return tx.UpdateUserEligibility(ctx, user)
	})
	if err != nil {
		return nil, reject(err)
	}

	if user.IsBookingBlocked {
		zerolog.Ctx(ctx).Info().
			Uint("user_id", user.ID).
			Int("warning_count", user.WarningCount).
			Msg("user blocked after no-shows")
	}

	metrics.IncTransition(ap.Status)
	uc.audit.Dispatch(auditEvent(ctx, actor, "appointment_no_show", ap.ID, map[string]any{
		"user_id":            user.ID,
		"warning_count":      user.WarningCount,
		"is_booking_blocked": user.IsBookingBlocked,
	}))

	return ap, nil
}
