package delete_blocked_range

import "context"

type BlockedRangeService interface {
	Delete(ctx context.Context, businessID, id, userID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
