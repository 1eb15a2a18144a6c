package get_available_slots

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("get_available_slots: business not found")

	// ErrInvalidService возвращается, когда услуга неизвестна, неактивна или принадлежит другому бизнесу
	ErrInvalidService = errors.New("get_available_slots: invalid service")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrStoreUnavailable возвращается при ошибке или таймауте хранилища
	ErrStoreUnavailable = errors.New("get_available_slots: store unavailable")
)
