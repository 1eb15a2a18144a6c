package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeklyHours_OpenInterval(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	hours := WeeklyHours{
		time.Monday: {DayOfWeek: time.Monday, Open: "09:00", Close: "18:00", Available: true},
		time.Sunday: {DayOfWeek: time.Sunday, Open: "10:00", Close: "14:00", Available: false},
	}

	monday := time.Date(2025, time.March, 3, 15, 0, 0, 0, loc)
	open, ok := hours.OpenInterval(monday)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.March, 3, 9, 0, 0, 0, loc), open.Start)
	assert.Equal(t, time.Date(2025, time.March, 3, 18, 0, 0, 0, loc), open.End)

	_, ok = hours.OpenInterval(time.Date(2025, time.March, 2, 0, 0, 0, 0, loc))
	assert.False(t, ok, "unavailable sunday")

	_, ok = hours.OpenInterval(time.Date(2025, time.March, 4, 0, 0, 0, 0, loc))
	assert.False(t, ok, "missing tuesday")
}

func TestDayHours_Validate(t *testing.T) {
	assert.NoError(t, DayHours{DayOfWeek: time.Friday, Open: "09:00", Close: "17:00", Available: true}.Validate())
	assert.ErrorIs(t, DayHours{DayOfWeek: time.Friday, Open: "17:00", Close: "09:00"}.Validate(), ErrInvalidDayHours)
	assert.ErrorIs(t, DayHours{DayOfWeek: time.Friday, Open: "9", Close: "17:00"}.Validate(), ErrInvalidDayHours)
	assert.ErrorIs(t, DayHours{DayOfWeek: 7, Open: "09:00", Close: "17:00"}.Validate(), ErrInvalidDayHours)
}

func TestAppointment_EffectiveStatus(t *testing.T) {
	a := &Appointment{
		Status:   StatusConfirmed,
		Interval: TimeInterval{Start: at(10, 0), End: at(10, 30)},
	}

	assert.Equal(t, StatusConfirmed, a.EffectiveStatus(at(10, 29)))
	assert.Equal(t, StatusCompleted, a.EffectiveStatus(at(10, 30)))
	assert.True(t, a.CanBeCancelled(at(10, 0)))
	assert.False(t, a.CanBeRescheduled(at(10, 0)))

	a.Status = StatusCancelled
	assert.Equal(t, StatusCancelled, a.EffectiveStatus(at(11, 0)))
	assert.False(t, a.CanBeCancelled(at(9, 0)))
}

func TestReminderState_IsSent(t *testing.T) {
	sentAt := at(9, 0)
	state := ReminderState{DayBefore: ReminderMark{SentAt: &sentAt}}

	assert.True(t, state.IsSent(ReminderDayBefore))
	assert.False(t, state.IsSent(ReminderHourBefore))
	assert.Nil(t, state.SentAt("weekly"))
}
