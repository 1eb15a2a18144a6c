package run_jobs

import (
	"context"
	"time"

	sendDailyDigest "github.com/m04kA/SMC-AppointmentService/internal/usecase/send_daily_digest"
)

type RemindersUseCase interface {
	Execute(ctx context.Context, now time.Time)
}

type DigestUseCase interface {
	Execute(ctx context.Context, now time.Time) sendDailyDigest.Result
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени (для тестов)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальная реализация TimeProvider
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}
