package models

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'customer'" json:"role"`

	// Booking eligibility. Written only by the no-show transition and by
	// the admin unblock action.
	WarningCount     int        `gorm:"not null;default:0" json:"warning_count"`
	IsBookingBlocked bool       `gorm:"not null;default:false" json:"is_booking_blocked"`
	BlockReason      *string    `gorm:"size:255" json:"block_reason"`
	LastWarningAt    *time.Time `json:"last_warning_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
