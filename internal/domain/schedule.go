package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ErrInvalidDayHours is returned for malformed opening hours.
var ErrInvalidDayHours = errors.New("domain: invalid day hours")

// DayHours holds opening hours for one day of the week.
type DayHours struct {
	DayOfWeek time.Weekday
	Open      types.TimeString
	Close     types.TimeString
	Available bool
}

// Validate checks the day index and that Open is strictly before Close.
func (h DayHours) Validate() error {
	if h.DayOfWeek < time.Sunday || h.DayOfWeek > time.Saturday {
		return fmt.Errorf("%w: day of week %d out of range", ErrInvalidDayHours, h.DayOfWeek)
	}
	if err := h.Open.Validate(); err != nil {
		return fmt.Errorf("%w: open: %v", ErrInvalidDayHours, err)
	}
	if err := h.Close.Validate(); err != nil {
		return fmt.Errorf("%w: close: %v", ErrInvalidDayHours, err)
	}
	if !h.Open.IsBefore(h.Close) {
		return fmt.Errorf("%w: open %s must be before close %s", ErrInvalidDayHours, h.Open, h.Close)
	}
	return nil
}

// WeeklyHours maps a day of the week (0 = Sunday) to its opening hours.
// A missing day or Available=false means the business is closed that day.
type WeeklyHours map[time.Weekday]DayHours

// OpenInterval resolves the opening interval for the calendar day of date,
// interpreted in date's location. ok is false when the business is closed.
func (w WeeklyHours) OpenInterval(date time.Time) (interval TimeInterval, ok bool) {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, date.Location())

	hours, found := w[day.Weekday()]
	if !found || !hours.Available {
		return TimeInterval{}, false
	}

	open, err := hours.Open.On(day)
	if err != nil {
		return TimeInterval{}, false
	}
	closeAt, err := hours.Close.On(day)
	if err != nil {
		return TimeInterval{}, false
	}

	interval, err = NewTimeInterval(open, closeAt)
	if err != nil {
		return TimeInterval{}, false
	}
	return interval, true
}

// Validate checks every configured day.
func (w WeeklyHours) Validate() error {
	for day, hours := range w {
		if day != hours.DayOfWeek {
			return fmt.Errorf("%w: key %d does not match day %d", ErrInvalidDayHours, day, hours.DayOfWeek)
		}
		if err := hours.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// BlockedRange removes availability regardless of weekly hours
// (vacation, training). It never expires and must be deleted explicitly.
type BlockedRange struct {
	ID         int64
	BusinessID int64
	Interval   TimeInterval
	Reason     *string
	CreatedAt  time.Time
}
