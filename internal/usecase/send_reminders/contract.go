package send_reminders

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/notification"
)

// AppointmentRepository интерфейс репозитория записей: выборка и захват напоминаний
type AppointmentRepository interface {
	ListDueReminders(ctx context.Context, kind domain.ReminderKind, window domain.TimeInterval) ([]*domain.Appointment, error)
	ClaimReminder(ctx context.Context, id int64, kind domain.ReminderKind, runID string, claimedAt time.Time, lease time.Duration) (bool, error)
	MarkReminderSent(ctx context.Context, id int64, kind domain.ReminderKind, runID string, sentAt time.Time) error
	ReleaseReminder(ctx context.Context, id int64, kind domain.ReminderKind, runID string) error
}

// Notifier транспорт уведомлений
type Notifier interface {
	Send(ctx context.Context, to notification.Recipient, body string) error
}

// Metrics счетчики исходов отправки напоминаний
type Metrics interface {
	ObserveReminder(kind string, outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
