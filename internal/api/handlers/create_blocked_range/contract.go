package create_blocked_range

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/blocked_ranges/models"
)

type BlockedRangeService interface {
	Create(ctx context.Context, req *models.CreateBlockedRangeRequest) (*models.BlockedRangeResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
