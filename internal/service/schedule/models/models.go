package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// DayHours часы работы в один день недели
type DayHours struct {
	DayOfWeek int    `json:"dayOfWeek"` // 0 - воскресенье
	Open      string `json:"open"`      // HH:MM
	Close     string `json:"close"`     // HH:MM
	Available bool   `json:"available"`
}

// UpdateWeeklyHoursRequest запрос на замену расписания бизнеса
type UpdateWeeklyHoursRequest struct {
	UserID     int64      `json:"-"`
	BusinessID int64      `json:"-"`
	Days       []DayHours `json:"days"`
}

// WeeklyHoursResponse расписание бизнеса
type WeeklyHoursResponse struct {
	BusinessID int64      `json:"businessId"`
	Days       []DayHours `json:"days"`
}

// ToDomainWeeklyHours конвертирует дни запроса в расписание. Повтор дня недели - ошибка.
func (r *UpdateWeeklyHoursRequest) ToDomainWeeklyHours() (domain.WeeklyHours, error) {
	hours := make(domain.WeeklyHours, len(r.Days))

	for _, d := range r.Days {
		day := time.Weekday(d.DayOfWeek)
		if _, exists := hours[day]; exists {
			return nil, fmt.Errorf("day %d is specified twice", d.DayOfWeek)
		}
		hours[day] = domain.DayHours{
			DayOfWeek: day,
			Open:      types.TimeString(d.Open),
			Close:     types.TimeString(d.Close),
			Available: d.Available,
		}
	}

	return hours, nil
}

// FromDomainWeeklyHours конвертирует расписание в DTO, дни упорядочены с воскресенья
func FromDomainWeeklyHours(businessID int64, hours domain.WeeklyHours) *WeeklyHoursResponse {
	resp := &WeeklyHoursResponse{
		BusinessID: businessID,
		Days:       make([]DayHours, 0, len(hours)),
	}

	for _, h := range hours {
		resp.Days = append(resp.Days, DayHours{
			DayOfWeek: int(h.DayOfWeek),
			Open:      string(h.Open),
			Close:     string(h.Close),
			Available: h.Available,
		})
	}

	sort.Slice(resp.Days, func(i, j int) bool {
		return resp.Days[i].DayOfWeek < resp.Days[j].DayOfWeek
	})

	return resp
}
