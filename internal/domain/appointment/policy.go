package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const (
	MaxDurationMinutes   = 480
	WeeklyLimitDays      = 7
	NoShowBlockThreshold = 2
	NoShowBlockReason    = "Booking blocked after repeated no-shows"
)

// ApplyNoShowWarning records one more no-show on the user and blocks them
// once the threshold is reached.
func ApplyNoShowWarning(u *models.User, now time.Time) {
	u.WarningCount++
	u.LastWarningAt = &now

	if u.WarningCount >= NoShowBlockThreshold && !u.IsBookingBlocked {
		reason := NoShowBlockReason
		u.IsBookingBlocked = true
		u.BlockReason = &reason
	}
}

// ClearEligibility lifts a block. With clearWarnings the counter restarts too.
func ClearEligibility(u *models.User, clearWarnings bool) {
	u.IsBookingBlocked = false
	u.BlockReason = nil
	if clearWarnings {
		u.WarningCount = 0
		u.LastWarningAt = nil
	}
}
