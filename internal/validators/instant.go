package validators

import (
	"strconv"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// ParseInstant reads an ISO-8601 instant with an explicit offset
// ("2025-03-01T10:00:00Z", "2025-03-01T11:00:00+01:00") and returns it in UTC.
// Naive local timestamps are rejected.
func ParseInstant(field, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, httperr.ErrValidation(
			"invalid_"+field,
			field+" must be an ISO-8601 instant with offset.",
		)
	}
	return t.UTC(), nil
}

// ParseID reads a positive numeric id from a path or query value.
func ParseID(field, s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, httperr.ErrValidation("invalid_"+field, field+" must be a positive integer.")
	}
	return uint(n), nil
}

// ParsePositiveInt reads an optional positive integer; empty gives def.
func ParsePositiveInt(field, s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, httperr.ErrValidation("invalid_"+field, field+" must be a positive integer.")
	}
	return n, nil
}
