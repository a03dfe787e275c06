package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ErrNotFound is returned by repositories when a single-row lookup misses.
var ErrNotFound = errors.New("record not found")

type Repository interface {
	// -------- Transactions --------

	// WithTx runs fn as one unit: either every write inside it lands or none.
	WithTx(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Barber --------
	GetBarber(
		ctx context.Context,
		id uint,
	) (*models.Barber, error)

	ListBarbers(
		ctx context.Context,
	) ([]models.Barber, error)

	CreateBarber(
		ctx context.Context,
		b *models.Barber,
	) error

	// LockBarber serializes booking writes for one barber until the
	// surrounding transaction ends.
	LockBarber(
		ctx context.Context,
		barberID uint,
	) error

	// -------- Working hours --------
	GetWorkingHours(
		ctx context.Context,
		barberID uint,
		weekday int,
	) (*models.WorkingHours, error)

	ListWorkingHours(
		ctx context.Context,
		barberID uint,
	) ([]models.WorkingHours, error)

	ReplaceWorkingHours(
		ctx context.Context,
		barberID uint,
		rules []models.WorkingHours,
	) error

	// -------- Time off --------
	ListTimeOff(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
	) ([]models.TimeOff, error)

	CreateTimeOff(
		ctx context.Context,
		t *models.TimeOff,
	) error

	DeleteTimeOff(
		ctx context.Context,
		id uint,
	) error

	// -------- Appointment (conflict / availability) --------
	ListActiveAppointments(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	HasActiveOverlap(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
		excludeID *uint,
	) (bool, error)

	CountActiveForUser(
		ctx context.Context,
		userID uint,
		from time.Time,
		to time.Time,
		excludeID *uint,
	) (int64, error)

	// -------- Appointment (state change) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	GetAppointmentForUser(
		ctx context.Context,
		id uint,
		userID uint,
	) (*models.Appointment, error)

	// GetAppointmentForUpdate re-reads the row and holds it until the
	// surrounding transaction ends. Transitions are applied to this copy.
	GetAppointmentForUpdate(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (listing) --------
	ListAppointmentsForUser(
		ctx context.Context,
		userID uint,
	) ([]models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListActiveFromBarber(
		ctx context.Context,
		barberID uint,
		from time.Time,
	) ([]models.Appointment, error)

	// -------- User --------
	GetUser(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	GetUserByEmail(
		ctx context.Context,
		email string,
	) (*models.User, error)

	CreateUser(
		ctx context.Context,
		u *models.User,
	) error

	// GetUserForUpdate holds the user's eligibility fields until the
	// surrounding transaction ends.
	GetUserForUpdate(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	UpdateUserEligibility(
		ctx context.Context,
		u *models.User,
	) error
}
