package send_reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/notification"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
)

// UseCase один проход планировщика напоминаний
type UseCase struct {
	appointmentRepo AppointmentRepository
	notifier        Notifier
	metrics         Metrics
	settings        Settings
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	notifier Notifier,
	metrics Metrics,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.Cadence <= 0 {
		settings.Cadence = defaultCadence
	}
	if settings.Lease <= 0 {
		settings.Lease = defaultLease
	}
	if settings.Concurrency <= 0 {
		settings.Concurrency = defaultConcurrency
	}

	return &UseCase{
		appointmentRepo: appointmentRepo,
		notifier:        notifier,
		metrics:         metrics,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет проход по всем типам напоминаний относительно now.
// now задает только окна; захват и время отправки берутся с часов процесса.
// Ошибки по отдельным записям логируются и не прерывают проход; неотправленные напоминания
// остаются незахваченными и повторяются следующим запуском.
func (uc *UseCase) Execute(ctx context.Context, now time.Time) {
	runID := uuid.NewString()
	uc.logger.Info("SendReminders: run=%s started at %s", runID, now.Format(time.RFC3339))

	for _, kind := range domain.ReminderKinds {
		if err := ctx.Err(); err != nil {
			uc.logger.Warn("SendReminders: run=%s interrupted: %v", runID, err)
			return
		}
		uc.executeKind(ctx, kind, runID, now)
	}

	uc.logger.Info("SendReminders: run=%s finished", runID)
}

func (uc *UseCase) window(kind domain.ReminderKind, now time.Time) domain.TimeInterval {
	if kind == domain.ReminderDayBefore {
		return dayBeforeWindow(now, uc.settings.Location)
	}
	return hourBeforeWindow(now, uc.settings.Cadence, uc.settings.Location)
}

func (uc *UseCase) executeKind(ctx context.Context, kind domain.ReminderKind, runID string, now time.Time) {
	window := uc.window(kind, now)

	due, err := uc.appointmentRepo.ListDueReminders(ctx, kind, window)
	if err != nil {
		uc.logger.Error("SendReminders: run=%s failed to list %s reminders: %v",
			runID, kind, fmt.Errorf("%w: %v", ErrStoreUnavailable, err))
		uc.metrics.ObserveReminder(string(kind), metrics.OutcomeError)
		return
	}

	uc.logger.Info("SendReminders: run=%s kind=%s window=[%s, %s) due=%d", runID, kind,
		window.Start.Format(time.RFC3339), window.End.Format(time.RFC3339), len(due))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.settings.Concurrency)

	for _, a := range due {
		g.Go(func() error {
			uc.dispatch(gctx, kind, a, runID)
			return nil
		})
	}

	_ = g.Wait()
}

// dispatch захватывает, отправляет и отмечает одно напоминание
func (uc *UseCase) dispatch(ctx context.Context, kind domain.ReminderKind, a *domain.Appointment, runID string) {
	claimed, err := uc.appointmentRepo.ClaimReminder(ctx, a.ID, kind, runID, uc.timeProvider.Now(), uc.settings.Lease)
	if err != nil {
		uc.logger.Error("SendReminders: failed to claim %s for appointment id=%d: %v", kind, a.ID, err)
		uc.metrics.ObserveReminder(string(kind), metrics.OutcomeError)
		return
	}
	if !claimed {
		uc.metrics.ObserveReminder(string(kind), metrics.OutcomeSkipped)
		return
	}

	body := notification.Reminder(kind, a, uc.settings.Location)
	to := notification.Recipient{UserID: a.ClientID, Phone: a.ClientPhone}

	if err := uc.notifier.Send(ctx, to, body); err != nil {
		if errors.Is(err, notification.ErrNoDestination) {
			uc.skipNoDestination(ctx, kind, a, runID)
			return
		}
		uc.logger.Warn("SendReminders: %v", fmt.Errorf("%w: %s for appointment id=%d: %v", ErrNotifierFailure, kind, a.ID, err))
		uc.metrics.ObserveReminder(string(kind), metrics.OutcomeSendFailure)

		if err := uc.appointmentRepo.ReleaseReminder(ctx, a.ID, kind, runID); err != nil {
			uc.logger.Error("SendReminders: failed to release %s for appointment id=%d, retry after lease: %v", kind, a.ID, err)
		}
		return
	}

	if err := uc.appointmentRepo.MarkReminderSent(ctx, a.ID, kind, runID, uc.timeProvider.Now()); err != nil {
		if errors.Is(err, appointmentRepo.ErrClaimLost) {
			uc.logger.Warn("SendReminders: claim on %s for appointment id=%d lost after send", kind, a.ID)
		} else {
			uc.logger.Error("SendReminders: failed to mark %s sent for appointment id=%d: %v", kind, a.ID, err)
		}
		uc.metrics.ObserveReminder(string(kind), metrics.OutcomeError)
		return
	}

	uc.logger.Info("SendReminders: %s sent for appointment id=%d", kind, a.ID)
	uc.metrics.ObserveReminder(string(kind), metrics.OutcomeSuccess)
}

// skipNoDestination закрывает напоминание без отправки: повтор не добавит клиенту адрес
func (uc *UseCase) skipNoDestination(ctx context.Context, kind domain.ReminderKind, a *domain.Appointment, runID string) {
	uc.logger.Warn("SendReminders: client=%d of appointment id=%d has no destination, %s skipped", a.ClientID, a.ID, kind)
	uc.metrics.ObserveReminder(string(kind), metrics.OutcomeSkipped)

	if err := uc.appointmentRepo.MarkReminderSent(ctx, a.ID, kind, runID, uc.timeProvider.Now()); err != nil {
		uc.logger.Error("SendReminders: failed to close %s for appointment id=%d: %v", kind, a.ID, err)
	}
}
