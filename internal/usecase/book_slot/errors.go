package book_slot

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("book_slot: business not found")

	// ErrInvalidService возвращается для неизвестной, неактивной или чужой услуги
	ErrInvalidService = errors.New("book_slot: invalid service")

	// ErrInvalidSlot возвращается, когда время начала не попадает на сетку слотов рабочего дня
	ErrInvalidSlot = errors.New("book_slot: invalid slot")

	// ErrSlotNoLongerAvailable возвращается, когда слот занят, в том числе проигранной гонкой.
	// Клиенту следует заново запросить доступные слоты.
	ErrSlotNoLongerAvailable = errors.New("book_slot: slot is no longer available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_slot: invalid input data")

	// ErrStoreUnavailable возвращается при ошибке или таймауте хранилища; запись не создается
	ErrStoreUnavailable = errors.New("book_slot: store unavailable")
)
