package schedule

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// BusinessReader чтение бизнеса вместе с расписанием (каталог или репозиторий)
type BusinessReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// WeeklyHoursRepository запись расписания
type WeeklyHoursRepository interface {
	ReplaceWeeklyHours(ctx context.Context, businessID int64, hours domain.WeeklyHours) error
}

// CacheInvalidator сброс закешированного бизнеса после изменения расписания
type CacheInvalidator interface {
	InvalidateBusiness(ctx context.Context, id int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
