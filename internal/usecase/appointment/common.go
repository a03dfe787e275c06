package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Auditor receives audit events. *audit.Dispatcher satisfies it.
type Auditor interface {
	Dispatch(ev audit.Event)
}

// Actor is the authenticated caller of a use case.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// Policy holds the tunables of the booking engine.
type Policy struct {
	BufferMinutes      int
	MaxDurationMinutes int
	LockTimeout        time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		BufferMinutes:      5,
		MaxDurationMinutes: domain.MaxDurationMinutes,
		LockTimeout:        5 * time.Second,
	}
}

// ======================================================
// Errors
// ======================================================

var (
	errTimeConflict = httperr.ErrConflict(
		"time_conflict",
		"The requested time overlaps an existing booking.",
	)
	errAppointmentNotFound = httperr.ErrNotFound(
		"appointment_not_found",
		"Appointment not found.",
	)
	errBarberNotFound = httperr.ErrNotFound(
		"barber_not_found",
		"Barber not found.",
	)
	errAdminOnly = httperr.ErrPolicy(
		"admin_only",
		"Only admins can do this.",
	)
	errBookingBusy = httperr.ErrConflict(
		"booking_busy",
		"Another booking for this barber is in progress, try again.",
	)
)

// reject counts business rejections and passes err through.
func reject(err error) error {
	var be httperr.BusinessError
	if errors.As(err, &be) {
		metrics.IncBookingRejected(be.Code)
	}
	return err
}

func validateDuration(minutes, max int) error {
	if max <= 0 {
		max = domain.MaxDurationMinutes
	}
	if minutes <= 0 || minutes > max {
		return httperr.ErrValidation(
			"invalid_duration",
			"Duration must be between 1 and the maximum booking length.",
		)
	}
	return nil
}

func validateStart(start, now time.Time) error {
	if start.IsZero() {
		return httperr.ErrValidation("invalid_starts_at", "Start time is required.")
	}
	if start.Before(now) {
		return httperr.ErrValidation("start_in_past", "Start time is in the past.")
	}
	return nil
}

// loadForActor returns an appointment visible to the actor: admins see any,
// customers only their own.
func loadForActor(
	ctx context.Context,
	repo domain.Repository,
	actor Actor,
	id uint,
) (*models.Appointment, error) {

	var (
		ap  *models.Appointment
		err error
	)
	if actor.IsAdmin() {
		ap, err = repo.GetAppointment(ctx, id)
	} else {
		ap, err = repo.GetAppointmentForUser(ctx, id, actor.UserID)
	}

	if errors.Is(err, domain.ErrNotFound) {
		return nil, errAppointmentNotFound
	}
	return ap, err
}

// lockAppointment re-reads the appointment inside tx and holds its row, so a
// transition always starts from the committed status.
func lockAppointment(
	ctx context.Context,
	tx domain.Repository,
	id uint,
) (*models.Appointment, error) {

	ap, err := tx.GetAppointmentForUpdate(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errAppointmentNotFound
	}
	return ap, err
}

func ensureBarber(ctx context.Context, repo domain.Repository, id uint) error {
	if _, err := repo.GetBarber(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return errBarberNotFound
		}
		return err
	}
	return nil
}

// ======================================================
// Commit guard
// ======================================================

// commitGuard runs a write unit for one barber under the per-barber lock and
// a transaction that holds the barber row. The exclusion constraint is the
// last line; its violation reads as a time conflict.
type commitGuard struct {
	repo    domain.Repository
	locker  lock.Locker
	timeout time.Duration
}

func (g commitGuard) run(
	ctx context.Context,
	barberID uint,
	fn func(tx domain.Repository) error,
) error {

	lockCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	release, err := g.locker.Acquire(lockCtx, lock.BarberKey(barberID))
	if err != nil {
		if errors.Is(err, lock.ErrLockTimeout) {
			return errBookingBusy
		}
		return err
	}
	defer release()

	err = g.repo.WithTx(ctx, func(tx domain.Repository) error {
		if err := tx.LockBarber(ctx, barberID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errBarberNotFound
			}
			return err
		}
		return fn(tx)
	})

	if httperr.IsExclusionConflict(err) {
		return errTimeConflict
	}
	return err
}

func auditEvent(ctx context.Context, actor Actor, action string, appointmentID uint, meta any) audit.Event {
	return auditEventFor(ctx, actor.UserID, action, "appointment", appointmentID, meta)
}

func auditEventFor(
	ctx context.Context,
	actorID uint,
	action string,
	entity string,
	entityID uint,
	meta any,
) audit.Event {
	return audit.Event{
		ActorID:   &actorID,
		Action:    action,
		Entity:    entity,
		EntityID:  &entityID,
		Metadata:  meta,
		RequestID: audit.RequestIDFrom(ctx),
	}
}
