package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotTaken возвращается, когда интервал пересекается с активной записью или блокировкой
	ErrSlotTaken = errors.New("appointment.repository: slot is taken")

	// ErrCannotCancel возвращается, когда запись уже не активна
	ErrCannotCancel = errors.New("appointment.repository: appointment cannot be cancelled")

	// ErrClaimLost возвращается, когда напоминание захвачено другим запуском планировщика
	ErrClaimLost = errors.New("appointment.repository: reminder claim lost")

	// ErrUnknownReminderKind возвращается для неизвестного типа напоминания
	ErrUnknownReminderKind = errors.New("appointment.repository: unknown reminder kind")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
