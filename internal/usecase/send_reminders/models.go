package send_reminders

import "time"

const (
	defaultCadence     = 30 * time.Minute
	defaultLease       = 10 * time.Minute
	defaultConcurrency = 8
)

// Settings параметры планировщика напоминаний
type Settings struct {
	Location    *time.Location // Часовой пояс деплоймента
	Cadence     time.Duration  // Период запуска; задает окно hour_before
	Lease       time.Duration  // Через сколько чужой незавершенный захват считается брошенным
	Concurrency int            // Максимум одновременных отправок за проход
}
