package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type CancelAppointment struct {
	repo  domain.Repository
	clock *timezone.Clock
	audit Auditor
}

func NewCancelAppointment(
	repo domain.Repository,
	clock *timezone.Clock,
	audit Auditor,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		clock: clock,
		audit: audit,
	}
}

// Execute cancels an active appointment. A booking that is already
// cancelled, finished or not visible to the actor reads as not found.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := loadForActor(ctx, uc.repo, actor, appointmentID)
	if err != nil {
		return nil, reject(err)
	}

	if !domain.Status(ap.Status).IsActive() {
		return nil, reject(errAppointmentNotFound)
	}

	now := uc.clock.Now().UTC()

	err = uc.repo.WithTx(ctx, func(tx domain.Repository) error {
		cur, err := lockAppointment(ctx, tx, ap.ID)
		if err != nil {
			return err
		}
		if !domain.Status(cur.Status).IsActive() {
			return errAppointmentNotFound
		}
		if err := domain.Cancel(cur, now); err != nil {
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
	uc.audit.Dispatch(auditEvent(ctx, actor, "appointment_cancelled", ap.ID, nil))

	return ap, nil
}
