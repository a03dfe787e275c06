package models

import "time"

type Barber struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"size:100;not null" json:"name"`
	Bio    string `gorm:"size:255" json:"bio"`
	Active bool   `gorm:"default:true" json:"active"`

	WorkingHours []WorkingHours `gorm:"foreignKey:BarberID" json:"working_hours,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
