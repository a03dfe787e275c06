package timezone

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

const DefaultTimezone = "Europe/Berlin"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ===============================
// Clock
// ===============================

// Clock answers "what time is it for the shop". The location only decides
// which calendar day "now" falls on; instants handed out are absolute.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

type ClockOption func(*Clock)

// WithNow replaces the wall clock, mostly for tests.
func WithNow(fn func() time.Time) ClockOption {
	return func(c *Clock) {
		c.now = fn
	}
}

func NewClock(tz string, opts ...ClockOption) (*Clock, error) {
	if !IsValid(tz) {
		return nil, fmt.Errorf("invalid timezone %q", tz)
	}
	loc, _ := time.LoadLocation(tz)

	c := &Clock{loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FixedClock always returns t. Handy in tests and tooling.
func FixedClock(t time.Time) *Clock {
	return &Clock{
		loc: Location(DefaultTimezone),
		now: func() time.Time { return t },
	}
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

// Now is the business "now".
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today is the calendar day "now" falls on in the business location,
// as midnight of that day in that location.
func (c *Clock) Today() time.Time {
	n := c.Now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, c.loc)
}

// ===============================
// Windows
// ===============================

// RollingWindow returns [now, now+days) as a half-open instant range.
// It starts at the exact instant, not at midnight.
func RollingWindow(now time.Time, days int) (time.Time, time.Time) {
	return now, now.Add(time.Duration(days) * 24 * time.Hour)
}

// DayWindowUTC returns [midnight, next midnight) of the UTC calendar day of t.
func DayWindowUTC(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

func SameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// ===============================
// Parsing
// ===============================

// ParseDateUTC parses YYYY-MM-DD as a UTC calendar day.
func ParseDateUTC(s string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, httperr.ErrValidation("invalid_date", "Date must be YYYY-MM-DD.")
	}
	return d, nil
}

// ParseMinuteOfDay converts a strict HH:MM (00-23:00-59) string into
// minutes since midnight.
func ParseMinuteOfDay(s string) (int, error) {
	invalid := httperr.ErrValidation("invalid_time_of_day", "Time must be HH:MM.")

	if len(s) != 5 || s[2] != ':' {
		return 0, invalid
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, invalid
		}
	}

	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, invalid
	}
	return h*60 + m, nil
}

func FormatMinuteOfDay(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
