package reschedule_appointment

import "time"

// Settings параметры переноса
type Settings struct {
	Location      *time.Location // Часовой пояс деплоймента
	NotifyTimeout time.Duration  // Таймаут уведомления клиента
}

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID int64     // ID записи
	UserID        int64     // Клиент записи или владелец бизнеса
	NewStart      time.Time // Новое время начала
}

// Response модель ответа с перенесенной записью
type Response struct {
	ID          int64
	BusinessID  int64
	ClientID    int64
	ServiceID   int64
	ServiceName string
	StartTime   time.Time
	EndTime     time.Time
	Status      string
}
