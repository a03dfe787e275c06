package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// memoryData is everything the in-memory store holds. It is cloned at the
// start of a transaction and swapped back in on rollback.
type memoryData struct {
	nextID       uint
	barbers      map[uint]models.Barber
	hours        map[uint][]models.WorkingHours
	timeOff      map[uint]models.TimeOff
	appointments map[uint]models.Appointment
	users        map[uint]models.User
}

func newMemoryData() *memoryData {
	return &memoryData{
		barbers:      map[uint]models.Barber{},
		hours:        map[uint][]models.WorkingHours{},
		timeOff:      map[uint]models.TimeOff{},
		appointments: map[uint]models.Appointment{},
		users:        map[uint]models.User{},
	}
}

func (d *memoryData) clone() *memoryData {
	c := newMemoryData()
	c.nextID = d.nextID
	for k, v := range d.barbers {
		c.barbers[k] = v
	}
	for k, v := range d.hours {
		c.hours[k] = append([]models.WorkingHours(nil), v...)
	}
	for k, v := range d.timeOff {
		c.timeOff[k] = v
	}
	for k, v := range d.appointments {
		c.appointments[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	return c
}

func (d *memoryData) id() uint {
	d.nextID++
	return d.nextID
}

type memoryShared struct {
	txMu sync.Mutex // one writer unit at a time
	mu   sync.RWMutex
	data *memoryData
}

// MemoryRepository keeps everything in process memory. Write units are
// serialized, which gives the same check-then-insert safety a locked barber
// row gives on Postgres. Used for STORAGE_DRIVER=memory and in tests.
type MemoryRepository struct {
	s    *memoryShared
	inTx bool
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{s: &memoryShared{data: newMemoryData()}}
}

func (r *MemoryRepository) read(fn func(d *memoryData)) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	fn(r.s.data)
}

func (r *MemoryRepository) write(fn func(d *memoryData) error) error {
	if !r.inTx {
		r.s.txMu.Lock()
		defer r.s.txMu.Unlock()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return fn(r.s.data)
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

func (r *MemoryRepository) WithTx(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {

	if r.inTx {
		return fn(r)
	}

	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.RLock()
	snapshot := r.s.data.clone()
	r.s.mu.RUnlock()

	if err := fn(&MemoryRepository{s: r.s, inTx: true}); err != nil {
		r.s.mu.Lock()
		r.s.data = snapshot
		r.s.mu.Unlock()
		return err
	}
	return nil
}

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (r *MemoryRepository) GetBarber(_ context.Context, id uint) (*models.Barber, error) {
	var (
		b  models.Barber
		ok bool
	)
	r.read(func(d *memoryData) { b, ok = d.barbers[id] })
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (r *MemoryRepository) ListBarbers(_ context.Context) ([]models.Barber, error) {
	var out []models.Barber
	r.read(func(d *memoryData) {
		for _, b := range d.barbers {
			if !b.Active {
				continue
			}
			b.WorkingHours = append([]models.WorkingHours(nil), d.hours[b.ID]...)
			out = append(out, b)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepository) CreateBarber(_ context.Context, b *models.Barber) error {
	return r.write(func(d *memoryData) error {
		b.ID = d.id()
		b.CreatedAt = time.Now()
		b.UpdatedAt = b.CreatedAt

		rules := b.WorkingHours
		for i := range rules {
			rules[i].ID = d.id()
			rules[i].BarberID = b.ID
		}
		d.hours[b.ID] = append([]models.WorkingHours(nil), rules...)

		stored := *b
		stored.WorkingHours = nil
		d.barbers[b.ID] = stored
		return nil
	})
}

func (r *MemoryRepository) LockBarber(_ context.Context, barberID uint) error {
	var ok bool
	r.read(func(d *memoryData) { _, ok = d.barbers[barberID] })
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (r *MemoryRepository) GetWorkingHours(_ context.Context, barberID uint, weekday int) (*models.WorkingHours, error) {
	var (
		wh    models.WorkingHours
		found bool
	)
	r.read(func(d *memoryData) {
		for _, h := range d.hours[barberID] {
			if h.Weekday == weekday {
				wh, found = h, true
				return
			}
		}
	})
	if !found {
		return nil, domain.ErrNotFound
	}
	return &wh, nil
}

func (r *MemoryRepository) ListWorkingHours(_ context.Context, barberID uint) ([]models.WorkingHours, error) {
	var out []models.WorkingHours
	r.read(func(d *memoryData) {
		out = append(out, d.hours[barberID]...)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Weekday < out[j].Weekday })
	return out, nil
}

func (r *MemoryRepository) ReplaceWorkingHours(_ context.Context, barberID uint, rules []models.WorkingHours) error {
	return r.write(func(d *memoryData) error {
		next := make([]models.WorkingHours, 0, len(rules))
		for _, wh := range rules {
			wh.ID = d.id()
			wh.BarberID = barberID
			next = append(next, wh)
		}
		d.hours[barberID] = next
		return nil
	})
}

// --------------------------------------------------
// Time off
// --------------------------------------------------

func (r *MemoryRepository) ListTimeOff(_ context.Context, barberID uint, start, end time.Time) ([]models.TimeOff, error) {
	var out []models.TimeOff
	r.read(func(d *memoryData) {
		for _, t := range d.timeOff {
			if t.BarberID == barberID && domain.Overlaps(t.StartsAt, t.EndsAt, start, end) {
				out = append(out, t)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (r *MemoryRepository) CreateTimeOff(_ context.Context, t *models.TimeOff) error {
	return r.write(func(d *memoryData) error {
		t.ID = d.id()
		t.CreatedAt = time.Now()
		d.timeOff[t.ID] = *t
		return nil
	})
}

func (r *MemoryRepository) DeleteTimeOff(_ context.Context, id uint) error {
	return r.write(func(d *memoryData) error {
		if _, ok := d.timeOff[id]; !ok {
			return domain.ErrNotFound
		}
		delete(d.timeOff, id)
		return nil
	})
}

// --------------------------------------------------
// Appointment (conflict / availability)
// --------------------------------------------------

func (r *MemoryRepository) ListActiveAppointments(_ context.Context, barberID uint, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	r.read(func(d *memoryData) {
		for _, ap := range d.appointments {
			if ap.BarberID == barberID &&
				domain.Status(ap.Status).IsActive() &&
				domain.Overlaps(ap.StartsAt, ap.EndsAt, start, end) {
				out = append(out, ap)
			}
		}
	})
	sortByStart(out)
	return out, nil
}

func (r *MemoryRepository) HasActiveOverlap(ctx context.Context, barberID uint, start, end time.Time, excludeID *uint) (bool, error) {
	apps, err := r.ListActiveAppointments(ctx, barberID, start, end)
	if err != nil {
		return false, err
	}
	for _, ap := range apps {
		if excludeID != nil && ap.ID == *excludeID {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (r *MemoryRepository) CountActiveForUser(_ context.Context, userID uint, from, to time.Time, excludeID *uint) (int64, error) {
	var n int64
	r.read(func(d *memoryData) {
		for _, ap := range d.appointments {
			if ap.UserID != userID || !domain.Status(ap.Status).IsActive() {
				continue
			}
			if excludeID != nil && ap.ID == *excludeID {
				continue
			}
			if !ap.StartsAt.Before(from) && ap.StartsAt.Before(to) {
				n++
			}
		}
	})
	return n, nil
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *MemoryRepository) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	return r.write(func(d *memoryData) error {
		ap.ID = d.id()
		ap.CreatedAt = time.Now()
		ap.UpdatedAt = ap.CreatedAt
		d.appointments[ap.ID] = *ap
		return nil
	})
}

func (r *MemoryRepository) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	var (
		ap models.Appointment
		ok bool
	)
	r.read(func(d *memoryData) { ap, ok = d.appointments[id] })
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ap, nil
}

func (r *MemoryRepository) GetAppointmentForUser(ctx context.Context, id, userID uint) (*models.Appointment, error) {
	ap, err := r.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if ap.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return ap, nil
}

// GetAppointmentForUpdate is a plain read: write units already hold txMu.
func (r *MemoryRepository) GetAppointmentForUpdate(ctx context.Context, id uint) (*models.Appointment, error) {
	return r.GetAppointment(ctx, id)
}

func (r *MemoryRepository) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	return r.write(func(d *memoryData) error {
		if _, ok := d.appointments[ap.ID]; !ok {
			return domain.ErrNotFound
		}
		ap.UpdatedAt = time.Now()
		d.appointments[ap.ID] = *ap
		return nil
	})
}

// --------------------------------------------------
// Appointment (listing)
// --------------------------------------------------

func (r *MemoryRepository) ListAppointmentsForUser(_ context.Context, userID uint) ([]models.Appointment, error) {
	var out []models.Appointment
	r.read(func(d *memoryData) {
		for _, ap := range d.appointments {
			if ap.UserID == userID {
				out = append(out, ap)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.After(out[j].StartsAt) })
	return out, nil
}

func (r *MemoryRepository) ListAppointmentsForPeriod(_ context.Context, barberID uint, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	r.read(func(d *memoryData) {
		for _, ap := range d.appointments {
			if ap.BarberID == barberID && !ap.StartsAt.Before(start) && ap.StartsAt.Before(end) {
				out = append(out, ap)
			}
		}
	})
	sortByStart(out)
	return out, nil
}

func (r *MemoryRepository) ListActiveFromBarber(_ context.Context, barberID uint, from time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	r.read(func(d *memoryData) {
		for _, ap := range d.appointments {
			if ap.BarberID == barberID && domain.Status(ap.Status).IsActive() && !ap.StartsAt.Before(from) {
				out = append(out, ap)
			}
		}
	})
	sortByStart(out)
	return out, nil
}

// --------------------------------------------------
// User
// --------------------------------------------------

func (r *MemoryRepository) GetUser(_ context.Context, id uint) (*models.User, error) {
	var (
		u  models.User
		ok bool
	)
	r.read(func(d *memoryData) { u, ok = d.users[id] })
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) GetUserForUpdate(ctx context.Context, id uint) (*models.User, error) {
	return r.GetUser(ctx, id)
}

func (r *MemoryRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	var (
		u     models.User
		found bool
	)
	r.read(func(d *memoryData) {
		for _, candidate := range d.users {
			if candidate.Email == email {
				u, found = candidate, true
				return
			}
		}
	})
	if !found {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) CreateUser(_ context.Context, u *models.User) error {
	return r.write(func(d *memoryData) error {
		u.ID = d.id()
		u.CreatedAt = time.Now()
		u.UpdatedAt = u.CreatedAt
		d.users[u.ID] = *u
		return nil
	})
}

func (r *MemoryRepository) UpdateUserEligibility(_ context.Context, u *models.User) error {
	return r.write(func(d *memoryData) error {
		cur, ok := d.users[u.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.WarningCount = u.WarningCount
		cur.IsBookingBlocked = u.IsBookingBlocked
		cur.BlockReason = u.BlockReason
		cur.LastWarningAt = u.LastWarningAt
		cur.UpdatedAt = time.Now()
		d.users[u.ID] = cur
		return nil
	})
}

func sortByStart(apps []models.Appointment) {
	sort.Slice(apps, func(i, j int) bool { return apps[i].StartsAt.Before(apps[j].StartsAt) })
}

var _ domain.Repository = (*MemoryRepository)(nil)
