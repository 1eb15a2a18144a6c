package reschedule_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/notification"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// AvailabilityEvaluator расчет доступности с исключением переносимой записи
type AvailabilityEvaluator interface {
	Evaluate(ctx context.Context, req *get_available_slots.Request) (*get_available_slots.Availability, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	MoveIfSlotFree(ctx context.Context, id int64, interval domain.TimeInterval, now time.Time) error
}

// BusinessRepository интерфейс каталога бизнесов (проверка владельца)
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// Notifier транспорт уведомлений
type Notifier interface {
	Send(ctx context.Context, to notification.Recipient, body string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
