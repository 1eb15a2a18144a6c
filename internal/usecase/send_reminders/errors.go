package send_reminders

import "errors"

var (
	// ErrNotifierFailure транспорт не доставил напоминание; захват снимается, отправка повторится в следующем запуске
	ErrNotifierFailure = errors.New("send_reminders: notifier failure")

	// ErrStoreUnavailable ошибка хранилища при обработке напоминания
	ErrStoreUnavailable = errors.New("send_reminders: store unavailable")
)
