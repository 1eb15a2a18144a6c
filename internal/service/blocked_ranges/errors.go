package blocked_ranges

import "errors"

var (
	// ErrBlockedRangeNotFound возвращается, когда блокировка не найдена
	ErrBlockedRangeNotFound = errors.New("blocked_ranges: blocked range not found")

	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("blocked_ranges: business not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("blocked_ranges: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("blocked_ranges: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("blocked_ranges: internal error")
)
