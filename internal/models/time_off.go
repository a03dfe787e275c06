package models

import "time"

// TimeOff blocks [StartsAt, EndsAt) for one barber. Overlapping rows are
// allowed; readers treat the set as a union.
type TimeOff struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `gorm:"index;not null" json:"barber_id"`

	StartsAt time.Time `gorm:"index;not null" json:"starts_at"`
	EndsAt   time.Time `gorm:"not null" json:"ends_at"`
	Reason   string    `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}

func (TimeOff) TableName() string {
	return "time_off"
}
