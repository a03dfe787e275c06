package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type CompleteAppointment struct {
	repo  domain.Repository
	clock *timezone.Clock
	audit Auditor
}

func NewCompleteAppointment(
	repo domain.Repository,
	clock *timezone.Clock,
	audit Auditor,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:  repo,
		clock: clock,
		audit: audit,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uint,
) (*models.Appointment, error) {

	if !actor.IsAdmin() {
		return nil, reject(errAdminOnly)
	}

	ap, err := loadForActor(ctx, uc.repo, actor, appointmentID)
	if err != nil {
		return nil, reject(err)
	}

	now := uc.clock.Now().UTC()

	err = uc.repo.WithTx(ctx, func(tx domain.Repository) error {
		cur, err := lockAppointment(ctx, tx, ap.ID)
		if err != nil {
			return err
		}
		if err := domain.Complete(cur, now); err != nil {
			return err
		}
		if err := tx.UpdateAppointment(ctx, cur); err != nil {
			return err
		}
		ap = cur
		return nil
	})
	if err != nil {
		return nil, reject(err)
	}

	metrics.IncTransition(ap.Status)
	uc.audit.Dispatch(auditEvent(ctx, actor, "appointment_completed", ap.ID, nil))

	return ap, nil
}
