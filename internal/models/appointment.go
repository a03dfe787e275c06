package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID   uint `gorm:"index;not null" json:"user_id"`
	BarberID uint `gorm:"index;not null" json:"barber_id"`

	ServiceName     string `gorm:"size:100;not null" json:"service_name"`
	DurationMinutes int    `gorm:"not null" json:"duration_minutes"`

	StartsAt time.Time `gorm:"index;not null" json:"starts_at"`
	EndsAt   time.Time `gorm:"not null" json:"ends_at"`

	Status string `gorm:"size:20;default:'booked';index" json:"status"`

	Notes       string     `gorm:"size:500" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`
	NoShowAt    *time.Time `json:"no_show_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
