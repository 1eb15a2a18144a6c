package run_jobs

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	sendDailyDigest "github.com/m04kA/SMC-AppointmentService/internal/usecase/send_daily_digest"
)

// RemindersResponse ответ на запуск прохода напоминаний
type RemindersResponse struct {
	Now string `json:"now"`
}

// DigestResponse ответ на запуск рассылки дайджеста
type DigestResponse struct {
	Now        string `json:"now"`
	Day        string `json:"day"`
	Businesses int    `json:"businesses"`
	Sent       int    `json:"sent"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
}

// FromDigestResult конвертирует итог рассылки в HTTP response
func FromDigestResult(now time.Time, res sendDailyDigest.Result) *DigestResponse {
	return &DigestResponse{
		Now:        now.Format(time.RFC3339),
		Day:        res.Day.Format(domain.DateFormat),
		Businesses: res.Businesses,
		Sent:       res.Sent,
		Skipped:    res.Skipped,
		Failed:     res.Failed,
	}
}
