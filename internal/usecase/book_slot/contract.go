package book_slot

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/SMC-AppointmentService/internal/notification"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// AvailabilityEvaluator расчет доступности (повторно выполняется перед бронированием)
type AvailabilityEvaluator interface {
	Evaluate(ctx context.Context, req *get_available_slots.Request) (*get_available_slots.Availability, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	CreateIfSlotFree(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetContactWithGracefulDegradation(ctx context.Context, userID int64) (*userservice.Contact, error)
}

// Notifier транспорт уведомлений
type Notifier interface {
	Send(ctx context.Context, to notification.Recipient, body string) error
}

// CalendarSync внешний календарь, только запись
type CalendarSync interface {
	Insert(ctx context.Context, event domain.CalendarEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики исходов бронирования
type Metrics interface {
	ObserveBooking(outcome string)
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
