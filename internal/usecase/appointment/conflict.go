package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
)

// ConflictDetector answers "is this interval free for the barber". It is the
// only overlap check used when committing a booking.
type ConflictDetector struct {
	repo domain.Repository
}

func NewConflictDetector(repo domain.Repository) *ConflictDetector {
	return &ConflictDetector{repo: repo}
}

// Within returns a detector bound to the given transaction.
func (d *ConflictDetector) Within(tx domain.Repository) *ConflictDetector {
	return &ConflictDetector{repo: tx}
}

// HasOverlap reports whether an active appointment of the barber overlaps
// [start, end). excludeID skips one appointment, used when it is the one
// being moved.
func (d *ConflictDetector) HasOverlap(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
	excludeID *uint,
) (bool, error) {

	if !end.After(start) {
		return false, nil
	}
	return d.repo.HasActiveOverlap(ctx, barberID, start.UTC(), end.UTC(), excludeID)
}
