package appointment

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// Tuesday 2025-03-04 08:00 UTC
var testNow = time.Date(2025, 3, 4, 8, 0, 0, 0, time.UTC)

var customerSeq atomic.Int64

type recordingAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (a *recordingAuditor) Dispatch(ev audit.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

func (a *recordingAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.events))
	for _, ev := range a.events {
		out = append(out, ev.Action)
	}
	return out
}

// interleavedRepo runs beforeTx once, ahead of the first write unit, so a
// test can commit something between a use case's reads and its transaction.
type interleavedRepo struct {
	*repository.MemoryRepository
	once     sync.Once
	beforeTx func()
}

func (r *interleavedRepo) WithTx(ctx context.Context, fn func(tx domain.Repository) error) error {
	r.once.Do(r.beforeTx)
	return r.MemoryRepository.WithTx(ctx, fn)
}

func (e *env) interleave(beforeTx func()) *interleavedRepo {
	return &interleavedRepo{MemoryRepository: e.repo, beforeTx: beforeTx}
}

type env struct {
	ctx    context.Context
	repo   *repository.MemoryRepository
	clock  *timezone.Clock
	policy Policy
	audit  *recordingAuditor
	locker lock.Locker

	barber *models.Barber
	admin  Actor
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		ctx:    context.Background(),
		repo:   repository.NewMemoryRepository(),
		clock:  timezone.FixedClock(testNow),
		policy: Policy{BufferMinutes: 5, MaxDurationMinutes: 480, LockTimeout: 2 * time.Second},
		audit:  &recordingAuditor{},
		locker: lock.NewLocalLocker(),
	}

	// 09:00-17:00 every day
	var hours []WorkingHoursInput
	for wd := 0; wd <= 6; wd++ {
		hours = append(hours, WorkingHoursInput{Weekday: wd, Start: "09:00", End: "17:00"})
	}
	b, err := SeedBarber(e.ctx, e.repo, "Alex", hours)
	require.NoError(t, err)
	e.barber = b

	admin := &models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin}
	require.NoError(t, e.repo.CreateUser(e.ctx, admin))
	e.admin = Actor{UserID: admin.ID, Role: models.RoleAdmin}

	return e
}

func (e *env) withNow(now time.Time) {
	e.clock = timezone.FixedClock(now)
}

func (e *env) customer(t *testing.T) Actor {
	t.Helper()
	u := &models.User{
		Name:  "Customer",
		Email: fmt.Sprintf("c%d@example.com", customerSeq.Add(1)),
		Role:  models.RoleCustomer,
	}
	require.NoError(t, e.repo.CreateUser(e.ctx, u))
	return Actor{UserID: u.ID, Role: models.RoleCustomer}
}

func (e *env) create() *CreateAppointment {
	return NewCreateAppointment(e.repo, e.locker, e.clock, e.policy, e.audit)
}

func (e *env) reschedule() *RescheduleAppointment {
	return NewRescheduleAppointment(e.repo, e.locker, e.clock, e.policy, e.audit)
}

func (e *env) availability() *GetAvailability {
	return NewGetAvailability(e.repo, e.clock, e.policy)
}

func (e *env) book(t *testing.T, who Actor, start time.Time, minutes int) *models.Appointment {
	t.Helper()
	ap, err := e.create().Execute(e.ctx, CreateAppointmentInput{
		UserID:          who.UserID,
		BarberID:        e.barber.ID,
		ServiceName:     "Haircut",
		DurationMinutes: minutes,
		StartsAt:        start,
	})
	require.NoError(t, err)
	return ap
}

// insert writes an appointment straight to the store, skipping every rule.
func (e *env) insert(t *testing.T, who Actor, start time.Time, minutes int) *models.Appointment {
	t.Helper()
	ap := &models.Appointment{
		UserID:          who.UserID,
		BarberID:        e.barber.ID,
		ServiceName:     "Haircut",
		DurationMinutes: minutes,
		StartsAt:        start,
		EndsAt:          start.Add(time.Duration(minutes) * time.Minute),
		Status:          "booked",
	}
	require.NoError(t, e.repo.CreateAppointment(e.ctx, ap))
	return ap
}

// wed returns 2025-03-05 hh:mm UTC, the day after testNow.
func wed(h, m int) time.Time {
	return time.Date(2025, 3, 5, h, m, 0, 0, time.UTC)
}
