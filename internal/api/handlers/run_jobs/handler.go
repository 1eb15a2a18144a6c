package run_jobs

import (
	"context"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const msgInvalidNow = "некорректный параметр now, ожидается RFC3339"

// Handler запускает фоновые задачи по запросу внешнего планировщика.
// Задача выполняется синхронно, отмена запроса задачу не прерывает.
type Handler struct {
	reminders    RemindersUseCase
	digest       DigestUseCase
	timeout      time.Duration
	timeProvider TimeProvider
	logger       Logger
}

func NewHandler(reminders RemindersUseCase, digest DigestUseCase, timeout time.Duration, logger Logger) *Handler {
	return &Handler{
		reminders:    reminders,
		digest:       digest,
		timeout:      timeout,
		timeProvider: RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (h *Handler) WithTimeProvider(tp TimeProvider) *Handler {
	h.timeProvider = tp
	return h
}

// HandleReminders POST /internal/v1/jobs/reminders
// Query params: now (опционально, RFC3339)
func (h *Handler) HandleReminders(w http.ResponseWriter, r *http.Request) {
	now, ok := h.now(w, r, "POST /jobs/reminders")
	if !ok {
		return
	}

	ctx, cancel := h.jobContext(r)
	defer cancel()

	h.reminders.Execute(ctx, now)

	h.logger.Info("POST /jobs/reminders - Reminder pass finished: now=%s", now.Format(time.RFC3339))
	handlers.RespondJSON(w, http.StatusOK, &RemindersResponse{Now: now.Format(time.RFC3339)})
}

// HandleDigest POST /internal/v1/jobs/digest
// Query params: now (опционально, RFC3339)
func (h *Handler) HandleDigest(w http.ResponseWriter, r *http.Request) {
	now, ok := h.now(w, r, "POST /jobs/digest")
	if !ok {
		return
	}

	ctx, cancel := h.jobContext(r)
	defer cancel()

	result := h.digest.Execute(ctx, now)

	h.logger.Info("POST /jobs/digest - Digest finished: day=%s, sent=%d, skipped=%d, failed=%d",
		result.Day.Format(time.DateOnly), result.Sent, result.Skipped, result.Failed)
	handlers.RespondJSON(w, http.StatusOK, FromDigestResult(now, result))
}

func (h *Handler) now(w http.ResponseWriter, r *http.Request, route string) (time.Time, bool) {
	raw := r.URL.Query().Get("now")
	if raw == "" {
		return h.timeProvider.Now(), true
	}

	now, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		h.logger.Warn("%s - Invalid now: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidNow)
		return time.Time{}, false
	}
	return now, true
}

func (h *Handler) jobContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx := context.WithoutCancel(r.Context())
	if h.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.timeout)
}
