package send_reminders

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// dayBeforeWindow окно [floorHour(now+24h), floorHour(now+25h))
func dayBeforeWindow(now time.Time, loc *time.Location) domain.TimeInterval {
	return domain.TimeInterval{
		Start: floorHour(now.Add(24*time.Hour), loc),
		End:   floorHour(now.Add(25*time.Hour), loc),
	}
}

// hourBeforeWindow окно вокруг floor(now, cadence)+60m шириной в два периода.
// Верхняя половина - первая попытка, нижняя повторяет неудачные отправки предыдущего запуска.
func hourBeforeWindow(now time.Time, cadence time.Duration, loc *time.Location) domain.TimeInterval {
	target := floorCadence(now, cadence, loc).Add(time.Hour)
	return domain.TimeInterval{
		Start: target.Add(-cadence),
		End:   target.Add(cadence),
	}
}

func floorHour(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, loc)
}

// floorCadence округляет вниз до границы периода, отсчитанного от локальной полуночи
func floorCadence(t time.Time, cadence time.Duration, loc *time.Location) time.Time {
	local := t.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	elapsed := local.Sub(midnight)
	return midnight.Add(elapsed - elapsed%cadence)
}
