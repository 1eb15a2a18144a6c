package reschedule_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrAccessDenied возвращается, когда пользователь не клиент записи и не владелец бизнеса
	ErrAccessDenied = errors.New("reschedule_appointment: access denied")

	// ErrCannotReschedule возвращается для отмененной или уже начавшейся записи
	ErrCannotReschedule = errors.New("reschedule_appointment: appointment cannot be rescheduled")

	// ErrInvalidService возвращается, если услуга записи больше не доступна для бронирования
	ErrInvalidService = errors.New("reschedule_appointment: invalid service")

	// ErrInvalidSlot возвращается, когда новое время начала не попадает на сетку слотов
	ErrInvalidSlot = errors.New("reschedule_appointment: invalid slot")

	// ErrSlotNoLongerAvailable возвращается, когда новый слот занят
	ErrSlotNoLongerAvailable = errors.New("reschedule_appointment: slot is no longer available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_appointment: invalid input data")

	// ErrStoreUnavailable возвращается при ошибке или таймауте хранилища
	ErrStoreUnavailable = errors.New("reschedule_appointment: store unavailable")
)
