package blocked_ranges

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// BlockedRangeRepository интерфейс репозитория блокировок
type BlockedRangeRepository interface {
	Create(ctx context.Context, br *domain.BlockedRange) (*domain.BlockedRange, error)
	Delete(ctx context.Context, businessID, id int64) error
	ListOverlapping(ctx context.Context, businessID int64, interval domain.TimeInterval) ([]*domain.BlockedRange, error)
}

// BusinessRepository интерфейс каталога бизнесов (проверка владельца)
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
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
