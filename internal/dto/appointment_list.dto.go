package dto

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// AppointmentDTO is the wire form of an appointment. Instants are always UTC.
type AppointmentDTO struct {
	ID              uint       `json:"id"`
	UserID          uint       `json:"user_id"`
	BarberID        uint       `json:"barber_id"`
	ServiceName     string     `json:"service_name"`
	DurationMinutes int        `json:"duration_minutes"`
	StartsAt        time.Time  `json:"starts_at"`
	EndsAt          time.Time  `json:"ends_at"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	NoShowAt        *time.Time `json:"no_show_at,omitempty"`
}

type SlotDTO struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type WorkingHoursDTO struct {
	Weekday int    `json:"weekday"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

func FromAppointment(ap models.Appointment) AppointmentDTO {
	return AppointmentDTO{
		ID:              ap.ID,
		UserID:          ap.UserID,
		BarberID:        ap.BarberID,
		ServiceName:     ap.ServiceName,
		DurationMinutes: ap.DurationMinutes,
		StartsAt:        ap.StartsAt.UTC(),
		EndsAt:          ap.EndsAt.UTC(),
		Status:          ap.Status,
		Notes:           ap.Notes,
		CancelledAt:     utcPtr(ap.CancelledAt),
		CompletedAt:     utcPtr(ap.CompletedAt),
		NoShowAt:        utcPtr(ap.NoShowAt),
	}
}

func FromAppointments(apps []models.Appointment) []AppointmentDTO {
	out := make([]AppointmentDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, FromAppointment(ap))
	}
	return out
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
