package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Settings параметры сетки слотов деплоймента
type Settings struct {
	Location  *time.Location // Часовой пояс, в котором интерпретируется дата
	Step      time.Duration  // Шаг сетки слотов
	MinNotice time.Duration  // Минимальное время до начала слота
}

// Request модель запроса на получение доступных слотов
type Request struct {
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	Date       time.Time // Календарный день; используются только год, месяц и число

	// ExcludeAppointmentID не учитывает запись при расчете (перенос записи), 0 - не исключать
	ExcludeAppointmentID int64
}

// Response модель ответа со списком доступных слотов
type Response struct {
	BusinessID      int64
	ServiceID       int64
	Date            time.Time
	DurationMinutes int
	Slots           []domain.TimeInterval
}

// Availability полный результат расчета доступности на день
type Availability struct {
	Business *domain.Business
	Service  *domain.Service
	Date     time.Time           // Полночь дня в часовом поясе деплоймента
	Open     domain.TimeInterval // Рабочий интервал, пустой в выходной
	IsOpen   bool

	// Slots свободные слоты
	Slots []domain.TimeInterval
	// Grid слоты без учета существующих записей: корректные старты, которые могут быть заняты
	Grid []domain.TimeInterval
}

// HasSlot проверяет, что start является свободным слотом
func (a *Availability) HasSlot(start time.Time) bool {
	return containsStart(a.Slots, start)
}

// OnGrid проверяет, что start является корректным стартом слота без учета записей
func (a *Availability) OnGrid(start time.Time) bool {
	return containsStart(a.Grid, start)
}

func containsStart(slots []domain.TimeInterval, start time.Time) bool {
	for _, s := range slots {
		if s.Start.Equal(start) {
			return true
		}
	}
	return false
}
