package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// computeSlots вычитает блокировки и записи из рабочего интервала и нарезает свободное время на слоты.
// Grid строится так же, но без записей. Слоты, начинающиеся раньше cutoff, отбрасываются в обоих списках.
func computeSlots(
	open domain.TimeInterval,
	blocked []*domain.BlockedRange,
	booked []*domain.Appointment,
	duration time.Duration,
	step time.Duration,
	cutoff time.Time,
) (slots []domain.TimeInterval, grid []domain.TimeInterval) {
	blockedHoles := make([]domain.TimeInterval, 0, len(blocked))
	for _, b := range blocked {
		blockedHoles = append(blockedHoles, b.Interval)
	}

	allHoles := make([]domain.TimeInterval, 0, len(blockedHoles)+len(booked))
	allHoles = append(allHoles, blockedHoles...)
	for _, a := range booked {
		allHoles = append(allHoles, a.Interval)
	}

	grid = notBefore(domain.Quantize(domain.Subtract(open, blockedHoles), duration, step, open.Start), cutoff)
	slots = notBefore(domain.Quantize(domain.Subtract(open, allHoles), duration, step, open.Start), cutoff)

	return slots, grid
}

// notBefore оставляет слоты, начинающиеся не раньше cutoff
func notBefore(slots []domain.TimeInterval, cutoff time.Time) []domain.TimeInterval {
	out := make([]domain.TimeInterval, 0, len(slots))
	for _, s := range slots {
		if !s.Start.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out
}

// dayStart возвращает полночь календарного дня date в часовом поясе loc
func dayStart(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
