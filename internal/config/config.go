package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Драйверы БД
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Транспорты уведомлений
const (
	TransportSMS      = "sms"
	TransportTelegram = "telegram"
	TransportLog      = "log"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	Booking     BookingConfig     `toml:"booking"`
	Reminders   RemindersConfig   `toml:"reminders"`
	Scheduler   SchedulerConfig   `toml:"scheduler"`
	Notifier    NotifierConfig    `toml:"notifier"`
	Calendar    CalendarConfig    `toml:"calendar"`
	Cache       CacheConfig       `toml:"cache"`
	UserService UserServiceConfig `toml:"user_service"`
	Internal    InternalConfig    `toml:"internal"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к БД
type DatabaseConfig struct {
	Driver          string `toml:"driver"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	Path            string `toml:"path"` // Файл SQLite, ":memory:" для тестов
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // Секунды
	QueryTimeout    int    `toml:"query_timeout"`     // Секунды
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN возвращает строку подключения для выбранного драйвера
func (c DatabaseConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return c.Path
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig параметры расчета слотов и бронирования
type BookingConfig struct {
	Timezone          string `toml:"timezone"`
	StepMinutes       int    `toml:"step_minutes"`
	MinNoticeMinutes  int    `toml:"min_notice_minutes"`
	InitialStatus     string `toml:"initial_status"`
	SideEffectTimeout int    `toml:"side_effect_timeout"` // Секунды на синхронизацию календаря и SMS
}

// Location возвращает часовой пояс деплоймента
func (c BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// RemindersConfig параметры планировщика напоминаний
type RemindersConfig struct {
	CadenceMinutes int `toml:"cadence_minutes"`
	LeaseMinutes   int `toml:"lease_minutes"`
	Concurrency    int `toml:"concurrency"`
}

// SchedulerConfig внутрипроцессный запуск напоминаний и дайджеста по cron
type SchedulerConfig struct {
	Enabled       bool   `toml:"enabled"`
	RemindersCron string `toml:"reminders_cron"`
	DigestCron    string `toml:"digest_cron"`
	JobTimeout    int    `toml:"job_timeout"` // Секунды на один проход задачи
}

// NotifierConfig настройки отправки уведомлений
type NotifierConfig struct {
	Transport string         `toml:"transport"`
	SMS       SMSConfig      `toml:"sms"`
	Telegram  TelegramConfig `toml:"telegram"`
}

// SMSConfig настройки HTTP SMS-шлюза
type SMSConfig struct {
	URL           string  `toml:"url"`
	Token         string  `toml:"token"`
	Sender        string  `toml:"sender"`
	Timeout       int     `toml:"timeout"`
	RatePerSecond float64 `toml:"rate_per_second"`
	Burst         int     `toml:"burst"`
}

// TelegramConfig настройки Telegram бота
type TelegramConfig struct {
	Token string `toml:"token"`
}

// CalendarConfig настройки синхронизации с Google Calendar
type CalendarConfig struct {
	Enabled         bool   `toml:"enabled"`
	CredentialsFile string `toml:"credentials_file"`
	CalendarID      string `toml:"calendar_id"`
}

// CacheConfig настройки Redis кэша каталога
type CacheConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// UserServiceConfig настройки клиента UserService, из которого берутся контакты клиентов.
// Пустой URL отключает запросы.
type UserServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // Секунды
}

// InternalConfig настройки внутренних эндпоинтов запуска задач
type InternalConfig struct {
	Token string `toml:"token"`
}

// Load читает .env (если есть) и TOML файл, затем применяет переменные окружения и значения по умолчанию
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv переопределяет секреты из окружения
func (c *Config) applyEnv() {
	overrides := []struct {
		env    string
		target *string
	}{
		{"DB_PASSWORD", &c.Database.Password},
		{"SMS_API_TOKEN", &c.Notifier.SMS.Token},
		{"TELEGRAM_BOT_TOKEN", &c.Notifier.Telegram.Token},
		{"INTERNAL_API_TOKEN", &c.Internal.Token},
		{"REDIS_PASSWORD", &c.Cache.Password},
		{"APP_TIMEZONE", &c.Booking.Timezone},
	}

	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.env); ok && v != "" {
			*o.target = v
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.Driver == DriverSQLite && c.Database.Path == "" {
		c.Database.Path = "appointments.db"
	}
	if c.Database.QueryTimeout == 0 {
		c.Database.QueryTimeout = 5
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "smc_appointment_service"
	}
	if c.Booking.Timezone == "" {
		c.Booking.Timezone = "UTC"
	}
	if c.Booking.StepMinutes == 0 {
		c.Booking.StepMinutes = domain.DefaultStepMinutes
	}
	if c.Booking.InitialStatus == "" {
		c.Booking.InitialStatus = string(domain.StatusConfirmed)
	}
	if c.Booking.SideEffectTimeout == 0 {
		c.Booking.SideEffectTimeout = 15
	}
	if c.Reminders.CadenceMinutes == 0 {
		c.Reminders.CadenceMinutes = domain.DefaultReminderCadenceMinutes
	}
	if c.Reminders.LeaseMinutes == 0 {
		c.Reminders.LeaseMinutes = domain.DefaultReminderLeaseMinutes
	}
	if c.Reminders.Concurrency == 0 {
		c.Reminders.Concurrency = 4
	}
	if c.Scheduler.RemindersCron == "" {
		c.Scheduler.RemindersCron = fmt.Sprintf("*/%d * * * *", c.Reminders.CadenceMinutes)
	}
	if c.Scheduler.DigestCron == "" {
		c.Scheduler.DigestCron = "0 18 * * *"
	}
	if c.Scheduler.JobTimeout == 0 {
		c.Scheduler.JobTimeout = 300
	}
	if c.Notifier.Transport == "" {
		c.Notifier.Transport = TransportLog
	}
	if c.Notifier.SMS.Timeout == 0 {
		c.Notifier.SMS.Timeout = 10
	}
	if c.Notifier.SMS.RatePerSecond == 0 {
		c.Notifier.SMS.RatePerSecond = 5
	}
	if c.Notifier.SMS.Burst == 0 {
		c.Notifier.SMS.Burst = 1
	}
	if c.UserService.Timeout == 0 {
		c.UserService.Timeout = 5
	}
	if c.Calendar.CalendarID == "" {
		c.Calendar.CalendarID = "primary"
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 300
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: unknown database driver %q", ErrInvalidConfig, c.Database.Driver)
	}

	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Booking.Timezone, err)
	}

	if c.Booking.StepMinutes < domain.MinStepMinutes || c.Booking.StepMinutes > domain.MaxStepMinutes {
		return fmt.Errorf("%w: step_minutes must be between %d and %d",
			ErrInvalidConfig, domain.MinStepMinutes, domain.MaxStepMinutes)
	}

	if c.Booking.MinNoticeMinutes < 0 {
		return fmt.Errorf("%w: min_notice_minutes must not be negative", ErrInvalidConfig)
	}

	switch domain.AppointmentStatus(c.Booking.InitialStatus) {
	case domain.StatusPending, domain.StatusConfirmed:
	default:
		return fmt.Errorf("%w: initial_status must be pending or confirmed", ErrInvalidConfig)
	}

	if c.Reminders.CadenceMinutes <= 0 || c.Reminders.CadenceMinutes > 60 || 60%c.Reminders.CadenceMinutes != 0 {
		return fmt.Errorf("%w: reminders cadence_minutes must divide an hour", ErrInvalidConfig)
	}

	// Захват напоминания должен пережить проход, иначе следующий проход перехватит живую отправку
	if c.Scheduler.JobTimeout >= c.Reminders.LeaseMinutes*60 {
		return fmt.Errorf("%w: scheduler.job_timeout (%ds) must be shorter than reminders.lease_minutes (%dm)",
			ErrInvalidConfig, c.Scheduler.JobTimeout, c.Reminders.LeaseMinutes)
	}

	switch c.Notifier.Transport {
	case TransportLog:
	case TransportSMS:
		if c.Notifier.SMS.URL == "" {
			return fmt.Errorf("%w: notifier.sms.url is required for sms transport", ErrInvalidConfig)
		}
	case TransportTelegram:
		if c.Notifier.Telegram.Token == "" {
			return fmt.Errorf("%w: notifier.telegram.token is required for telegram transport", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown notifier transport %q", ErrInvalidConfig, c.Notifier.Transport)
	}

	if c.Calendar.Enabled && c.Calendar.CredentialsFile == "" {
		return fmt.Errorf("%w: calendar.credentials_file is required when calendar is enabled", ErrInvalidConfig)
	}

	if c.Cache.Enabled && c.Cache.Addr == "" {
		return fmt.Errorf("%w: cache.addr is required when cache is enabled", ErrInvalidConfig)
	}

	return nil
}
