package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

const defaultTimeOffListDays = 30

type TimeOffInput struct {
	BarberID uint
	StartsAt time.Time
	EndsAt   time.Time
	Reason   string
}

// TimeOffAdmin manages a barber's blocked periods. Existing bookings inside a
// new period are left alone; only new slots disappear.
type TimeOffAdmin struct {
	repo  domain.Repository
	clock *timezone.Clock
	audit Auditor
}

func NewTimeOffAdmin(
	repo domain.Repository,
	clock *timezone.Clock,
	audit Auditor,
) *TimeOffAdmin {
	return &TimeOffAdmin{
		repo:  repo,
		clock: clock,
		audit: audit,
	}
}

func (uc *TimeOffAdmin) Create(
	ctx context.Context,
	actor Actor,
	in TimeOffInput,
) (*models.TimeOff, error) {

	if !actor.IsAdmin() {
		return nil, errAdminOnly
	}
	if in.StartsAt.IsZero() || in.EndsAt.IsZero() || !in.EndsAt.After(in.StartsAt) {
		return nil, httperr.ErrValidation("invalid_time_range", "End must be after start.")
	}

	if err := ensureBarber(ctx, uc.repo, in.BarberID); err != nil {
		return nil, err
	}

	off := &models.TimeOff{
		BarberID: in.BarberID,
		StartsAt: in.StartsAt.UTC(),
		EndsAt:   in.EndsAt.UTC(),
		Reason:   strings.TrimSpace(in.Reason),
	}
	if err := uc.repo.CreateTimeOff(ctx, off); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(auditEventFor(ctx, actor.UserID, "time_off_created", "time_off", off.ID, map[string]any{
		"barber_id": off.BarberID,
		"starts_at": off.StartsAt,
		"ends_at":   off.EndsAt,
	}))

	return off, nil
}

// List returns periods overlapping [from, to). Zero bounds default to now and
// thirty days after from.
func (uc *TimeOffAdmin) List(
	ctx context.Context,
	barberID uint,
	from time.Time,
	to time.Time,
) ([]models.TimeOff, error) {

	if err := ensureBarber(ctx, uc.repo, barberID); err != nil {
		return nil, err
	}

	if from.IsZero() {
		from = uc.clock.Now()
	}
	if to.IsZero() {
		to = from.AddDate(0, 0, defaultTimeOffListDays)
	}
	if !to.After(from) {
		return nil, httperr.ErrValidation("invalid_time_range", "End must be after start.")
	}

	out, err := uc.repo.ListTimeOff(ctx, barberID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.TimeOff{}
	}
	return out, nil
}

func (uc *TimeOffAdmin) Delete(
	ctx context.Context,
	actor Actor,
	id uint,
) error {

	if !actor.IsAdmin() {
		return errAdminOnly
	}

	if err := uc.repo.DeleteTimeOff(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.ErrNotFound("time_off_not_found", "Time off not found.")
		}
		return err
	}

	uc.audit.Dispatch(auditEventFor(ctx, actor.UserID, "time_off_deleted", "time_off", id, nil))
	return nil
}
