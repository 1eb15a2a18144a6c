package domain

import (
	"fmt"
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	// StatusCompleted is never stored, see Appointment.EffectiveStatus.
	StatusCompleted AppointmentStatus = "completed"
)

// ActiveStatuses are the statuses that occupy availability.
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}

// ParseAppointmentStatus converts a stored status string.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch status := AppointmentStatus(s); status {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return status, nil
	default:
		return "", fmt.Errorf("unknown appointment status %q", s)
	}
}

// ReminderKind identifies a reminder sent ahead of an appointment.
type ReminderKind string

const (
	ReminderDayBefore  ReminderKind = "day_before"
	ReminderHourBefore ReminderKind = "hour_before"
)

// ReminderKinds lists every reminder kind in dispatch order.
var ReminderKinds = []ReminderKind{
	ReminderDayBefore,
	ReminderHourBefore,
}

// ReminderMark records when a reminder was dispatched.
type ReminderMark struct {
	SentAt *time.Time
}

// ReminderState tracks dispatched reminders. Once set, a SentAt is never cleared.
type ReminderState struct {
	DayBefore  ReminderMark
	HourBefore ReminderMark
}

// SentAt returns the dispatch time of kind, or nil.
func (s ReminderState) SentAt(kind ReminderKind) *time.Time {
	switch kind {
	case ReminderDayBefore:
		return s.DayBefore.SentAt
	case ReminderHourBefore:
		return s.HourBefore.SentAt
	default:
		return nil
	}
}

// IsSent reports whether kind has already been dispatched.
func (s ReminderState) IsSent(kind ReminderKind) bool {
	return s.SentAt(kind) != nil
}

// Appointment represents a booked interval for a client at a business
type Appointment struct {
	ID         int64
	BusinessID int64
	ClientID   int64
	ServiceID  int64
	Interval   TimeInterval
	Status     AppointmentStatus
	Reminders  ReminderState

	// Denormalized data for notifications and history
	ServiceName string
	ClientName  string
	ClientPhone string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment occupies its interval
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeCancelled returns true if the appointment is active and not over yet
func (a *Appointment) CanBeCancelled(now time.Time) bool {
	return a.IsActive() && now.Before(a.Interval.End)
}

// CanBeRescheduled returns true if the appointment is active and has not started yet
func (a *Appointment) CanBeRescheduled(now time.Time) bool {
	return a.IsActive() && now.Before(a.Interval.Start)
}

// EffectiveStatus derives completed for active appointments whose interval has ended.
func (a *Appointment) EffectiveStatus(now time.Time) AppointmentStatus {
	if a.IsActive() && !now.Before(a.Interval.End) {
		return StatusCompleted
	}
	return a.Status
}

// AppointmentsFilter фильтр для получения записей бизнеса или клиента
type AppointmentsFilter struct {
	BusinessID       *int64
	ClientID         *int64
	From             *time.Time         // Начало периода по времени начала записи (включительно)
	To               *time.Time         // Конец периода (не включительно)
	Status           *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool
}

// CalendarEvent is the payload pushed to the external calendar after booking.
type CalendarEvent struct {
	AppointmentID int64
	Summary       string
	Description   string
	Interval      TimeInterval
}
