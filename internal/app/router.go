package app

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bookSlotHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/book_slot"
	cancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_appointment"
	createBlockedRangeHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_blocked_range"
	deleteBlockedRangeHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/delete_blocked_range"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getBusinessAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_business_appointments"
	getClientAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_client_appointments"
	getWeeklyHoursHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_weekly_hours"
	listBlockedRangesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_blocked_ranges"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/reschedule_appointment"
	runJobsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/run_jobs"
	updateWeeklyHoursHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_weekly_hours"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

// Router собирает HTTP маршруты сервиса
func (a *App) Router() http.Handler {
	cfg := a.Config
	log := a.Logger

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(a.Availability, a.Location, log)
	bookSlot := bookSlotHandler.NewHandler(a.Booking, a.Location, log)
	getAppointment := getAppointmentHandler.NewHandler(a.Appointments, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(a.Appointments, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(a.Reschedule, a.Location, log)
	getClientAppointments := getClientAppointmentsHandler.NewHandler(a.Appointments, log)
	getBusinessAppointments := getBusinessAppointmentsHandler.NewHandler(a.Appointments, a.Location, log)
	getWeeklyHours := getWeeklyHoursHandler.NewHandler(a.Schedule, log)
	updateWeeklyHours := updateWeeklyHoursHandler.NewHandler(a.Schedule, log)
	listBlockedRanges := listBlockedRangesHandler.NewHandler(a.BlockedRanges, log)
	createBlockedRange := createBlockedRangeHandler.NewHandler(a.BlockedRanges, log)
	deleteBlockedRange := deleteBlockedRangeHandler.NewHandler(a.BlockedRanges, log)
	runJobs := runJobsHandler.NewHandler(a.Reminders, a.Digest, time.Duration(cfg.Scheduler.JobTimeout)*time.Second, log)

	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if a.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(a.Metrics))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix, запросы к хранилищу ограничены query_timeout
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Timeout(time.Duration(cfg.Database.QueryTimeout) * time.Second))

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты услуги на день
	api.HandleFunc("/businesses/{businessId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Недельное расписание бизнеса
	api.HandleFunc("/businesses/{businessId}/weekly-hours", getWeeklyHours.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/appointments", bookSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/clients/{clientId}/appointments", getClientAppointments.Handle).Methods(http.MethodGet)

	// --- Управление бизнесом (для владельца) ---
	protected.HandleFunc("/businesses/{businessId}/appointments", getBusinessAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/weekly-hours", updateWeeklyHours.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/blocked-ranges", listBlockedRanges.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/blocked-ranges", createBlockedRange.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{businessId}/blocked-ranges/{blockedRangeId}",
		deleteBlockedRange.Handle).Methods(http.MethodDelete)

	// ============================================================
	// INTERNAL ROUTES (X-Internal-Token, запуск задач внешним планировщиком)
	// ============================================================

	internal := r.PathPrefix("/internal/v1").Subrouter()
	internal.Use(middleware.InternalToken(cfg.Internal.Token))
	internal.HandleFunc("/jobs/reminders", runJobs.HandleReminders).Methods(http.MethodPost)
	internal.HandleFunc("/jobs/digest", runJobs.HandleDigest).Methods(http.MethodPost)

	return r
}
