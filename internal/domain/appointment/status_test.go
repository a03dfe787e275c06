package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

var allStatuses = []Status{
	StatusBooked,
	StatusRescheduled,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

func TestTerminalStatusesRejectEverything(t *testing.T) {
	for _, from := range []Status{StatusCompleted, StatusCancelled, StatusNoShow} {
		assert.True(t, from.IsTerminal(), from)
		assert.False(t, from.IsActive(), from)

		for _, to := range allStatuses {
			err := CheckTransition(from, to)
			require.Error(t, err, "%s -> %s", from, to)
			assert.Equal(t, httperr.KindInvalidState, httperr.KindOf(err))
		}
	}
}

func TestActiveStatusesTransitions(t *testing.T) {
	for _, from := range []Status{StatusBooked, StatusRescheduled} {
		assert.True(t, from.IsActive())
		for _, to := range []Status{StatusRescheduled, StatusCancelled, StatusCompleted, StatusNoShow} {
			assert.NoError(t, CheckTransition(from, to), "%s -> %s", from, to)
		}
		assert.Error(t, CheckTransition(from, StatusBooked))
	}
}

func TestDomainActions(t *testing.T) {
	now := time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)

	t.Run("reschedule keeps id and recomputes end", func(t *testing.T) {
		ap := &models.Appointment{ID: 7, Status: string(StatusBooked)}
		start := time.Date(2025, 3, 5, 11, 0, 0, 0, time.FixedZone("CET", 3600))

		require.NoError(t, Reschedule(ap, start, 45))

		assert.Equal(t, uint(7), ap.ID)
		assert.Equal(t, string(StatusRescheduled), ap.Status)
		assert.Equal(t, time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC), ap.StartsAt)
		assert.Equal(t, time.Date(2025, 3, 5, 10, 45, 0, 0, time.UTC), ap.EndsAt)
	})

	t.Run("cancel stamps time", func(t *testing.T) {
		ap := &models.Appointment{Status: string(StatusRescheduled)}
		require.NoError(t, Cancel(ap, now))
		assert.Equal(t, string(StatusCancelled), ap.Status)
		require.NotNil(t, ap.CancelledAt)
		assert.Equal(t, now, *ap.CancelledAt)
	})

	t.Run("complete after cancel fails", func(t *testing.T) {
		ap := &models.Appointment{Status: string(StatusCancelled)}
		err := Complete(ap, now)
		require.Error(t, err)
		assert.Equal(t, string(StatusCancelled), ap.Status)
		assert.Nil(t, ap.CompletedAt)
	})

	t.Run("no-show stamps time", func(t *testing.T) {
		ap := &models.Appointment{Status: string(StatusBooked)}
		require.NoError(t, MarkNoShow(ap, now))
		assert.Equal(t, string(StatusNoShow), ap.Status)
		require.NotNil(t, ap.NoShowAt)
	})
}

func TestApplyNoShowWarning(t *testing.T) {
	now := time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)
	u := &models.User{}

	ApplyNoShowWarning(u, now)
	assert.Equal(t, 1, u.WarningCount)
	assert.False(t, u.IsBookingBlocked)
	require.NotNil(t, u.LastWarningAt)

	ApplyNoShowWarning(u, now.Add(time.Hour))
	assert.Equal(t, 2, u.WarningCount)
	assert.True(t, u.IsBookingBlocked)
	require.NotNil(t, u.BlockReason)
	assert.Equal(t, NoShowBlockReason, *u.BlockReason)

	ClearEligibility(u, false)
	assert.False(t, u.IsBookingBlocked)
	assert.Nil(t, u.BlockReason)
	assert.Equal(t, 2, u.WarningCount)

	ClearEligibility(u, true)
	assert.Zero(t, u.WarningCount)
	assert.Nil(t, u.LastWarningAt)
}
