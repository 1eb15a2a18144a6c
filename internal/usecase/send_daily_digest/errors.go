package send_daily_digest

import "errors"

var (
	// ErrStoreUnavailable ошибка хранилища при сборе дайджеста
	ErrStoreUnavailable = errors.New("send_daily_digest: store unavailable")

	// ErrNotifierFailure транспорт не доставил дайджест владельцу
	ErrNotifierFailure = errors.New("send_daily_digest: notifier failure")
)
