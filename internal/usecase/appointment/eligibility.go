package appointment

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

var (
	errUserUnknown = httperr.ErrUnauthorized(
		"user_not_found",
		"User not found.",
	)
	errBookingBlocked = httperr.ErrPolicy(
		"booking_blocked",
		"Booking is not available for this account. Please contact the barbershop.",
	)
	errWeeklyLimit = httperr.ErrPolicy(
		"weekly_limit_reached",
		"Only one active booking per 7 days is allowed.",
	)
)

// EligibilityGate decides whether a user may commit a booking right now.
type EligibilityGate struct {
	repo domain.Repository
	// lockUser holds the user row, so concurrent commits for one user
	// across barbers count each other.
	lockUser bool
}

func NewEligibilityGate(repo domain.Repository) *EligibilityGate {
	return &EligibilityGate{repo: repo}
}

func (g *EligibilityGate) Within(tx domain.Repository) *EligibilityGate {
	return &EligibilityGate{repo: tx, lockUser: true}
}

// Check returns nil when the user may book. excludeID leaves one appointment
// out of the weekly count; reschedule passes the appointment being moved.
func (g *EligibilityGate) Check(
	ctx context.Context,
	userID uint,
	now time.Time,
	excludeID *uint,
) error {

	var (
		user *models.User
		err  error
	)
	if g.lockUser {
		user, err = g.repo.GetUserForUpdate(ctx, userID)
	} else {
		user, err = g.repo.GetUser(ctx, userID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return errUserUnknown
		}
		return err
	}

	if user.IsBookingBlocked {
		return errBookingBlocked
	}

	from, to := timezone.RollingWindow(now, domain.WeeklyLimitDays)
	n, err := g.repo.CountActiveForUser(ctx, userID, from.UTC(), to.UTC(), excludeID)
	if err != nil {
		return err
	}
	if n > 0 {
		return errWeeklyLimit
	}

	return nil
}
