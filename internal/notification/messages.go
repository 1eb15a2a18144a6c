package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const messageTimeLayout = "02.01.2006 15:04"

// BookingConfirmation текст подтверждения записи
func BookingConfirmation(a *domain.Appointment, businessName string, loc *time.Location) string {
	return fmt.Sprintf("Вы записаны: %s, %s, %s.",
		businessName, a.ServiceName, a.Interval.Start.In(loc).Format(messageTimeLayout))
}

// Rescheduled текст уведомления о переносе записи
func Rescheduled(a *domain.Appointment, businessName string, loc *time.Location) string {
	return fmt.Sprintf("Запись перенесена: %s, %s, %s.",
		businessName, a.ServiceName, a.Interval.Start.In(loc).Format(messageTimeLayout))
}

// Reminder текст напоминания о записи
func Reminder(kind domain.ReminderKind, a *domain.Appointment, loc *time.Location) string {
	start := a.Interval.Start.In(loc).Format(messageTimeLayout)

	switch kind {
	case domain.ReminderDayBefore:
		return fmt.Sprintf("Напоминаем: завтра в %s у вас запись на %s.", start, a.ServiceName)
	default:
		return fmt.Sprintf("Напоминаем: через час, в %s, у вас запись на %s.", start, a.ServiceName)
	}
}

// Digest сводка записей бизнеса на день. Записи должны быть упорядочены по времени начала.
func Digest(businessName string, day time.Time, appointments []*domain.Appointment, loc *time.Location) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: записи на %s (%d)", businessName, day.In(loc).Format("02.01.2006"), len(appointments))
	for _, a := range appointments {
		name := a.ClientName
		if name == "" {
			name = fmt.Sprintf("клиент #%d", a.ClientID)
		}
		fmt.Fprintf(&b, "\n%s-%s %s, %s",
			a.Interval.Start.In(loc).Format(domain.TimeFormat),
			a.Interval.End.In(loc).Format(domain.TimeFormat),
			a.ServiceName,
			name,
		)
	}

	return b.String()
}
