package list_blocked_ranges

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/blocked_ranges/models"
)

type BlockedRangeService interface {
	List(ctx context.Context, req *models.ListBlockedRangesRequest) (*models.BlockedRangeListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
