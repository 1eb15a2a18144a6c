package send_daily_digest

import "time"

const defaultConcurrency = 4

// Settings параметры рассылки дайджеста
type Settings struct {
	Location    *time.Location // Часовой пояс деплоймента, задает границы календарного дня
	Concurrency int            // Максимум одновременных отправок
}

// Result итог рассылки
type Result struct {
	Day        time.Time
	Businesses int
	Sent       int
	Skipped    int // Владельцу некуда доставить сводку
	Failed     int
}
