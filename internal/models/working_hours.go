package models

import "time"

// WorkingHours is one weekday rule of a barber. A barber has at most one rule
// per weekday; the whole set is replaced on update.
type WorkingHours struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `gorm:"uniqueIndex:idx_barber_weekday;not null" json:"barber_id"`

	// 0 = Sunday
	Weekday int `gorm:"uniqueIndex:idx_barber_weekday;not null" json:"weekday"`

	StartMinute int `gorm:"not null" json:"start_minute"`
	EndMinute   int `gorm:"not null" json:"end_minute"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
