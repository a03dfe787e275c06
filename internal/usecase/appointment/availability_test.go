package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

func slotStarts(slots []domain.TimeSlot) map[time.Time]bool {
	out := make(map[time.Time]bool, len(slots))
	for _, s := range slots {
		out[s.Start] = true
	}
	return out
}

func TestAvailability_EmptyDay(t *testing.T) {
	e := newEnv(t)

	slots, err := e.availability().Execute(e.ctx, domain.AvailabilityInput{
		BarberID: e.barber.ID, Date: "2025-03-05", DurationMinutes: 30,
	})
	require.NoError(t, err)

	// default step is 15 minutes
	require.Len(t, slots, 31)
	assert.Equal(t, wed(9, 0), slots[0].Start)
	assert.Equal(t, wed(16, 30), slots[30].Start)

	halfHourly, err := e.availability().Execute(e.ctx, domain.AvailabilityInput{
		BarberID: e.barber.ID, Date: "2025-03-05", DurationMinutes: 30, StepMinutes: 30,
	})
	require.NoError(t, err)
	require.Len(t, halfHourly, 16)
	assert.Equal(t, wed(9, 0), halfHourly[0].Start)
	assert.Equal(t, wed(16, 30), halfHourly[15].Start)
}

func TestAvailability_ExcludesBookingsAndTimeOff(t *testing.T) {
	e := newEnv(t)
	e.book(t, e.customer(t), wed(10, 0), 30)

	_, err := NewTimeOffAdmin(e.repo, e.clock, e.audit).Create(e.ctx, e.admin, TimeOffInput{
		BarberID: e.barber.ID,
		StartsAt: wed(12, 0),
		EndsAt:   wed(13, 0),
		Reason:   "lunch",
	})
	require.NoError(t, err)

	slots, err := e.availability().Execute(e.ctx, domain.AvailabilityInput{
		BarberID: e.barber.ID, Date: "2025-03-05", DurationMinutes: 30, StepMinutes: 30,
	})
	require.NoError(t, err)

	starts := slotStarts(slots)
	assert.False(t, starts[wed(10, 0)])
	assert.False(t, starts[wed(12, 0)])
	assert.False(t, starts[wed(12, 30)])
	assert.True(t, starts[wed(9, 30)])
	assert.True(t, starts[wed(10, 30)])
	assert.True(t, starts[wed(13, 0)])
	assert.Len(t, slots, 13)
}

func TestAvailability_BufferOnlyToday(t *testing.T) {
	e := newEnv(t)
	e.policy.BufferMinutes = 30
	e.withNow(time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC))

	today, err := e.availability().Execute(e.ctx, domain.AvailabilityInput{
		BarberID: e.barber.ID, Date: "2025-03-04", DurationMinutes: 30, StepMinutes: 10,
	})
	require.NoError(t, err)

	starts := slotStarts(today)
	assert.False(t, starts[time.Date(2025, 3, 4, 10, 10, 0, 0, time.UTC)])
	assert.True(t, starts[time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)])

	tomorrow, err := e.availability().Execute(e.ctx, domain.AvailabilityInput{
		BarberID: e.barber.ID, Date: "2025-03-05", DurationMinutes: 30, StepMinutes: 10,
	})
	require.NoError(t, err)
	assert.True(t, slotStarts(tomorrow)[wed(10, 10)])
}

func TestAvailability_DegenerateInputs(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name string
		in   domain.AvailabilityInput
	}{
		{"zero duration", domain.AvailabilityInput{Date: "2025-03-05", DurationMinutes: 0}},
		{"negative step", domain.AvailabilityInput{Date: "2025-03-05", DurationMinutes: 30, StepMinutes: -5}},
		{"longer than the day", domain.AvailabilityInput{Date: "2025-03-05", DurationMinutes: 9 * 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.BarberID = e.barber.ID
			slots, err := e.availability().Execute(e.ctx, tt.in)
			require.NoError(t, err)
			assert.NotNil(t, slots)
			assert.Empty(t, slots)
		})
	}

	_, err := e.availability().Execute(e.ctx, domain.AvailabilityInput{
		BarberID: e.barber.ID, Date: "05/03/2025", DurationMinutes: 30,
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))

	_, err = e.availability().Execute(e.ctx, domain.AvailabilityInput{
		BarberID: 999, Date: "2025-03-05", DurationMinutes: 30,
	})
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))
}

func TestAvailability_NoRuleForWeekday(t *testing.T) {
	e := newEnv(t)

	// weekdays only
	var hours []WorkingHoursInput
	for wd := 1; wd <= 5; wd++ {
		hours = append(hours, WorkingHoursInput{Weekday: wd, Start: "09:00", End: "17:00"})
	}
	_, err := NewReplaceWorkingHours(e.repo, e.clock, e.audit).Execute(e.ctx, e.admin, e.barber.ID, hours)
	require.NoError(t, err)

	slots, err := e.availability().Execute(e.ctx, domain.AvailabilityInput{
		BarberID: e.barber.ID, Date: "2025-03-08", DurationMinutes: 30, // Saturday
	})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

// Every offered slot must be bookable, and once booked it disappears.
func TestAvailability_SlotsAreBookable(t *testing.T) {
	e := newEnv(t)
	e.book(t, e.customer(t), wed(11, 0), 45)

	slots, err := e.availability().Execute(e.ctx, domain.AvailabilityInput{
		BarberID: e.barber.ID, Date: "2025-03-05", DurationMinutes: 60, StepMinutes: 20,
	})
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	detector := NewConflictDetector(e.repo)
	for _, s := range slots {
		busy, err := detector.HasOverlap(e.ctx, e.barber.ID, s.Start, s.End, nil)
		require.NoError(t, err)
		assert.False(t, busy, s.Start)
	}

	picked := slots[len(slots)/2]
	e.book(t, e.customer(t), picked.Start, 60)

	after, err := e.availability().Execute(e.ctx, domain.AvailabilityInput{
		BarberID: e.barber.ID, Date: "2025-03-05", DurationMinutes: 60, StepMinutes: 20,
	})
	require.NoError(t, err)
	assert.False(t, slotStarts(after)[picked.Start])
	assert.Less(t, len(after), len(slots))
}

// ======================================================
// Working hours
// ======================================================

func TestReplaceWorkingHours_FlagsBookingsOutside(t *testing.T) {
	e := newEnv(t)
	early := e.book(t, e.customer(t), wed(9, 0), 30)
	e.book(t, e.customer(t), wed(13, 0), 30)

	uc := NewReplaceWorkingHours(e.repo, e.clock, e.audit)

	res, err := uc.Execute(e.ctx, e.admin, e.barber.ID, []WorkingHoursInput{
		{Weekday: 3, Start: "12:00", End: "18:00"},
	})
	require.NoError(t, err)

	require.Len(t, res.Rules, 1)
	assert.Equal(t, "12:00", res.Rules[0].Start)
	require.Len(t, res.Flagged, 1)
	assert.Equal(t, early.ID, res.Flagged[0].ID)

	// flagged bookings are left alone
	stored, err := e.repo.GetAppointment(e.ctx, early.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusBooked), stored.Status)

	got, err := NewGetWorkingHours(e.repo).Execute(e.ctx, e.barber.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Weekday)
}

func TestReplaceWorkingHours_Validation(t *testing.T) {
	e := newEnv(t)
	uc := NewReplaceWorkingHours(e.repo, e.clock, e.audit)

	tests := []struct {
		name string
		in   []WorkingHoursInput
		code string
	}{
		{"weekday", []WorkingHoursInput{{Weekday: 7, Start: "09:00", End: "10:00"}}, "invalid_weekday"},
		{"duplicate", []WorkingHoursInput{
			{Weekday: 1, Start: "09:00", End: "10:00"},
			{Weekday: 1, Start: "11:00", End: "12:00"},
		}, "duplicate_weekday"},
		{"reversed", []WorkingHoursInput{{Weekday: 1, Start: "10:00", End: "09:00"}}, "invalid_time_range"},
		{"format", []WorkingHoursInput{{Weekday: 1, Start: "9h", End: "10:00"}}, "invalid_time_of_day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(e.ctx, e.admin, e.barber.ID, tt.in)
			assert.True(t, httperr.IsBusiness(err, tt.code), err)
		})
	}

	// nothing was replaced
	got, err := NewGetWorkingHours(e.repo).Execute(e.ctx, e.barber.ID)
	require.NoError(t, err)
	assert.Len(t, got, 7)

	_, err = uc.Execute(e.ctx, Actor{UserID: 1}, e.barber.ID, nil)
	assert.True(t, httperr.IsBusiness(err, "admin_only"))
}

// ======================================================
// Time off
// ======================================================

func TestTimeOffAdmin(t *testing.T) {
	e := newEnv(t)
	uc := NewTimeOffAdmin(e.repo, e.clock, e.audit)

	_, err := uc.Create(e.ctx, e.admin, TimeOffInput{BarberID: e.barber.ID, StartsAt: wed(12, 0), EndsAt: wed(12, 0)})
	assert.True(t, httperr.IsBusiness(err, "invalid_time_range"))

	off, err := uc.Create(e.ctx, e.admin, TimeOffInput{BarberID: e.barber.ID, StartsAt: wed(12, 0), EndsAt: wed(14, 0)})
	require.NoError(t, err)

	list, err := uc.List(e.ctx, e.barber.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, off.ID, list[0].ID)

	require.NoError(t, uc.Delete(e.ctx, e.admin, off.ID))
	assert.True(t, httperr.IsBusiness(uc.Delete(e.ctx, e.admin, off.ID), "time_off_not_found"))

	list, err = uc.List(e.ctx, e.barber.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.Equal(t, []string{"time_off_created", "time_off_deleted"}, e.audit.actions())
}

// ======================================================
// Listings
// ======================================================

func TestListings(t *testing.T) {
	e := newEnv(t)
	c := e.customer(t)
	ap := e.book(t, c, wed(10, 0), 30)
	_, err := NewCancelAppointment(e.repo, e.clock, e.audit).Execute(e.ctx, c, ap.ID)
	require.NoError(t, err)
	e.book(t, c, wed(11, 0), 30)
	e.insert(t, e.customer(t), time.Date(2025, 3, 28, 9, 0, 0, 0, time.UTC), 30)

	byDate, err := NewListAppointmentsByDate(e.repo).Execute(e.ctx, e.barber.ID, "2025-03-05")
	require.NoError(t, err)
	require.Len(t, byDate, 2, "cancelled bookings are listed too")
	assert.True(t, byDate[0].StartsAt.Before(byDate[1].StartsAt))

	byMonth, err := NewListAppointmentsByMonth(e.repo).Execute(e.ctx, e.barber.ID, 2025, 3)
	require.NoError(t, err)
	assert.Len(t, byMonth, 3)

	_, err = NewListAppointmentsByMonth(e.repo).Execute(e.ctx, e.barber.ID, 2025, 13)
	assert.True(t, httperr.IsBusiness(err, "invalid_month"))

	mine, err := NewListMyAppointments(e.repo).Execute(e.ctx, c.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, wed(11, 0), mine[0].StartsAt)
}
