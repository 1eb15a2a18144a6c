// Package app собирает зависимости сервиса из конфигурации.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/api/option"

	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/cache/catalog"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	blockedRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/blocked"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/database"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schema"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/gcalendar"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/smsgateway"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/telegram"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/SMC-AppointmentService/internal/notification"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	blockedRanges "github.com/m04kA/SMC-AppointmentService/internal/service/blocked_ranges"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	bookSlot "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_slot"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	rescheduleAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_appointment"
	sendDailyDigest "github.com/m04kA/SMC-AppointmentService/internal/usecase/send_daily_digest"
	sendReminders "github.com/m04kA/SMC-AppointmentService/internal/usecase/send_reminders"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/sqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// businessReader источник бизнесов и услуг: репозиторий или кэш каталога поверх него
type businessReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

// Notifier транспорт уведомлений
type Notifier interface {
	Send(ctx context.Context, to notification.Recipient, body string) error
}

// App контейнер зависимостей сервиса
type App struct {
	Config   *config.Config
	Logger   *logger.Logger
	Location *time.Location
	Metrics  *metrics.Metrics
	DB       *dbmetrics.DB

	Availability  *getAvailableSlots.UseCase
	Booking       *bookSlot.UseCase
	Reschedule    *rescheduleAppointment.UseCase
	Reminders     *sendReminders.UseCase
	Digest        *sendDailyDigest.UseCase
	Appointments  *appointments.Service
	Schedule      *schedule.Service
	BlockedRanges *blockedRanges.Service

	redis *redis.Client
}

// New открывает БД и внешние клиенты и собирает use cases и сервисы
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	loc, err := cfg.Booking.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	a := &App{
		Config:   cfg,
		Logger:   log,
		Location: loc,
	}

	// Метрики
	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New(cfg.Metrics.ServiceName, prometheus.DefaultRegisterer)
		log.Info("Prometheus metrics initialized for service: %s", cfg.Metrics.ServiceName)
	}

	// БД
	rawDB, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	a.DB = dbmetrics.Wrap(rawDB, a.Metrics)
	log.Info("Successfully connected to %s database", cfg.Database.Driver)

	if cfg.Database.AutoMigrate {
		if err := schema.Apply(ctx, a.DB, cfg.Database.Driver); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
		log.Info("Database schema applied")
	}

	if err := a.build(ctx); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg := a.Config
	log := a.Logger

	qb := sqlbuilder.New(cfg.Database.Driver)
	txOpts := []txmanager.Option{}
	if cfg.Database.Driver == config.DriverSQLite {
		txOpts = append(txOpts, txmanager.WithSerializableLevel(sql.LevelDefault))
	}
	txManager := txmanager.NewTransactionManager(a.DB, txOpts...)

	// Репозитории
	businesses := businessRepo.NewRepository(a.DB, qb)
	blocked := blockedRepo.NewRepository(a.DB, qb)
	appointmentsRepo := appointmentRepo.NewRepository(a.DB, qb)

	// Кэш каталога
	var reader businessReader = businesses
	var invalidator schedule.CacheInvalidator
	if cfg.Cache.Enabled {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		cat := catalog.New(a.redis, businesses, time.Duration(cfg.Cache.TTLSeconds)*time.Second, log)
		reader, invalidator = cat, cat
		log.Info("Catalog cache enabled: %s", cfg.Cache.Addr)
	}

	// Внешние клиенты
	notifier, err := newNotifier(cfg.Notifier, log)
	if err != nil {
		return err
	}

	var calendar bookSlot.CalendarSync
	if cfg.Calendar.Enabled {
		gc, err := gcalendar.NewClient(ctx, cfg.Calendar.CalendarID, a.Location, log,
			option.WithCredentialsFile(cfg.Calendar.CredentialsFile))
		if err != nil {
			return fmt.Errorf("failed to init calendar client: %w", err)
		}
		calendar = gc
		log.Info("Google Calendar sync enabled: calendar=%s", cfg.Calendar.CalendarID)
	}

	var userClient bookSlot.UserServiceClient
	if cfg.UserService.URL != "" {
		userClient = userservice.NewClient(cfg.UserService.URL, time.Duration(cfg.UserService.Timeout)*time.Second, log)
		log.Info("UserService client initialized: %s", cfg.UserService.URL)
	}

	// Use cases
	a.Availability = getAvailableSlots.NewUseCase(
		reader,
		blocked,
		appointmentsRepo,
		getAvailableSlots.Settings{
			Location:  a.Location,
			Step:      time.Duration(cfg.Booking.StepMinutes) * time.Minute,
			MinNotice: time.Duration(cfg.Booking.MinNoticeMinutes) * time.Minute,
		},
		log,
	)

	a.Booking = bookSlot.NewUseCase(
		a.Availability,
		appointmentsRepo,
		userClient,
		notifier,
		calendar,
		txManager,
		a.Metrics,
		bookSlot.Settings{
			Location:          a.Location,
			InitialStatus:     domain.AppointmentStatus(cfg.Booking.InitialStatus),
			SideEffectTimeout: time.Duration(cfg.Booking.SideEffectTimeout) * time.Second,
		},
		log,
	)

	a.Reschedule = rescheduleAppointment.NewUseCase(
		a.Availability,
		appointmentsRepo,
		reader,
		notifier,
		txManager,
		rescheduleAppointment.Settings{
			Location:      a.Location,
			NotifyTimeout: time.Duration(cfg.Booking.SideEffectTimeout) * time.Second,
		},
		log,
	)

	a.Reminders = sendReminders.NewUseCase(
		appointmentsRepo,
		notifier,
		a.Metrics,
		sendReminders.Settings{
			Location:    a.Location,
			Cadence:     time.Duration(cfg.Reminders.CadenceMinutes) * time.Minute,
			Lease:       time.Duration(cfg.Reminders.LeaseMinutes) * time.Minute,
			Concurrency: cfg.Reminders.Concurrency,
		},
		log,
	)

	a.Digest = sendDailyDigest.NewUseCase(
		appointmentsRepo,
		reader,
		notifier,
		a.Metrics,
		sendDailyDigest.Settings{Location: a.Location},
		log,
	)

	// Сервисы
	a.Appointments = appointments.NewService(appointmentsRepo, reader, a.Location, log)
	a.Schedule = schedule.NewService(reader, businesses, invalidator, txManager, log)
	a.BlockedRanges = blockedRanges.NewService(blocked, reader, a.Location, log)

	return nil
}

// newNotifier выбирает транспорт уведомлений по конфигурации
func newNotifier(cfg config.NotifierConfig, log *logger.Logger) (Notifier, error) {
	switch cfg.Transport {
	case config.TransportSMS:
		log.Info("Notifier transport: sms gateway %s", cfg.SMS.URL)
		return smsgateway.NewClient(
			cfg.SMS.URL,
			cfg.SMS.Token,
			cfg.SMS.Sender,
			time.Duration(cfg.SMS.Timeout)*time.Second,
			cfg.SMS.RatePerSecond,
			cfg.SMS.Burst,
			log,
		), nil

	case config.TransportTelegram:
		n, err := telegram.NewNotifier(cfg.Telegram.Token, log)
		if err != nil {
			return nil, fmt.Errorf("failed to init telegram notifier: %w", err)
		}
		log.Info("Notifier transport: telegram")
		return n, nil

	default:
		log.Info("Notifier transport: log")
		return notification.NewLogNotifier(log), nil
	}
}

// Close дожидается фоновых отправок и закрывает соединения
func (a *App) Close() {
	if a.Booking != nil {
		a.Booking.Wait()
	}
	if a.Reschedule != nil {
		a.Reschedule.Wait()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Error("Failed to close redis client: %v", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Unwrap().Close(); err != nil {
			a.Logger.Error("Failed to close database: %v", err)
		}
	}
}
