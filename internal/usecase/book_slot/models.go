package book_slot

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Settings параметры бронирования
type Settings struct {
	Location          *time.Location           // Часовой пояс деплоймента
	InitialStatus     domain.AppointmentStatus // pending или confirmed
	SideEffectTimeout time.Duration            // Таймаут синхронизации календаря и SMS после коммита
}

// Request модель запроса на бронирование
type Request struct {
	BusinessID  int64     // ID бизнеса
	ClientID    int64     // ID клиента
	ServiceID   int64     // ID услуги
	Start       time.Time // Запрошенное время начала
	ClientName  string    // Имя клиента (опционально, иначе из UserService)
	ClientPhone string    // Телефон клиента (опционально, иначе из UserService)
}

// Response модель ответа с созданной записью
type Response struct {
	ID          int64
	BusinessID  int64
	ClientID    int64
	ServiceID   int64
	ServiceName string
	StartTime   time.Time
	EndTime     time.Time
	Status      string
	CreatedAt   time.Time
}
