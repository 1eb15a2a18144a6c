package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	"github.com/m04kA/SMC-AppointmentService/internal/notification"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// UseCase use case переноса записи
type UseCase struct {
	availability    AvailabilityEvaluator
	appointmentRepo AppointmentRepository
	businessRepo    BusinessRepository
	notifier        Notifier
	txManager       TransactionManager
	settings        Settings
	timeProvider    TimeProvider
	logger          Logger

	// Фоновые уведомления о переносе
	notifications sync.WaitGroup
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availability AvailabilityEvaluator,
	appointmentRepo AppointmentRepository,
	businessRepo BusinessRepository,
	notifier Notifier,
	txManager TransactionManager,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.NotifyTimeout <= 0 {
		settings.NotifyTimeout = 15 * time.Second
	}

	return &UseCase{
		availability:    availability,
		appointmentRepo: appointmentRepo,
		businessRepo:    businessRepo,
		notifier:        notifier,
		txManager:       txManager,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute переносит активную запись на новое время.
// Доступность пересчитывается без учета самой записи, затем интервал меняется условным обновлением
// с той же проверкой пересечений, что и при бронировании. Отметки об отправленных напоминаниях сохраняются.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("Reschedule: appointment=%d by user=%d to %s",
		req.AppointmentID, req.UserID, req.NewStart.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("Reschedule: validation failed: %v", err)
		return nil, err
	}

	// 2. Загрузка записи
	appointment, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("Reschedule: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("Reschedule: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrStoreUnavailable, err)
	}

	// 3. Проверка прав: клиент записи или владелец бизнеса
	if err := uc.checkAccess(ctx, appointment, req.UserID); err != nil {
		return nil, err
	}

	now := uc.timeProvider.Now()
	if !appointment.CanBeRescheduled(now) {
		uc.logger.Warn("Reschedule: appointment id=%d cannot be rescheduled, status=%s",
			appointment.ID, appointment.EffectiveStatus(now))
		return nil, ErrCannotReschedule
	}

	// 4. Доступность на день нового слота без учета переносимой записи
	availability, err := uc.availability.Evaluate(ctx, &get_available_slots.Request{
		BusinessID:           appointment.BusinessID,
		ServiceID:            appointment.ServiceID,
		Date:                 req.NewStart.In(uc.settings.Location),
		ExcludeAppointmentID: appointment.ID,
	})
	if err != nil {
		uc.logger.Warn("Reschedule: availability check failed: %v", err)
		return nil, mapAvailabilityError(err)
	}

	if !availability.HasSlot(req.NewStart) {
		if availability.OnGrid(req.NewStart) {
			uc.logger.Warn("Reschedule: slot %s is taken", req.NewStart.Format(time.RFC3339))
			return nil, ErrSlotNoLongerAvailable
		}
		uc.logger.Warn("Reschedule: %s is not a valid slot start", req.NewStart.Format(time.RFC3339))
		return nil, fmt.Errorf("%w: %s is not a slot start", ErrInvalidSlot, req.NewStart.Format(time.RFC3339))
	}

	interval := domain.TimeInterval{
		Start: req.NewStart,
		End:   req.NewStart.Add(time.Duration(availability.Service.DurationMinutes) * time.Minute),
	}

	// 5. Условное обновление в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		return uc.appointmentRepo.MoveIfSlotFree(txCtx, appointment.ID, interval, now)
	})
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotTaken) || txmanager.IsSerializationFailure(err) {
			uc.logger.Warn("Reschedule: lost race for %s: %v", req.NewStart.Format(time.RFC3339), err)
			return nil, ErrSlotNoLongerAvailable
		}
		uc.logger.Error("Reschedule: failed to move appointment id=%d: %v", appointment.ID, err)
		return nil, fmt.Errorf("%w: failed to move appointment: %v", ErrStoreUnavailable, err)
	}

	appointment.Interval = interval
	appointment.UpdatedAt = now

	uc.logger.Info("Reschedule: successfully moved appointment id=%d to %s",
		appointment.ID, interval.Start.Format(time.RFC3339))

	// 6. Уведомление клиента не влияет на результат
	uc.notifications.Add(1)
	go func() {
		defer uc.notifications.Done()
		uc.notifyClient(context.WithoutCancel(ctx), appointment, availability.Business.Name)
	}()

	return &Response{
		ID:          appointment.ID,
		BusinessID:  appointment.BusinessID,
		ClientID:    appointment.ClientID,
		ServiceID:   appointment.ServiceID,
		ServiceName: appointment.ServiceName,
		StartTime:   appointment.Interval.Start,
		EndTime:     appointment.Interval.End,
		Status:      string(appointment.Status),
	}, nil
}

// Wait ожидает завершения фоновых уведомлений (graceful shutdown, тесты)
func (uc *UseCase) Wait() {
	uc.notifications.Wait()
}

func (uc *UseCase) checkAccess(ctx context.Context, appointment *domain.Appointment, userID int64) error {
	if appointment.ClientID == userID {
		return nil
	}

	business, err := uc.businessRepo.GetByID(ctx, appointment.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			return ErrAccessDenied
		}
		uc.logger.Error("Reschedule: failed to get business id=%d: %v", appointment.BusinessID, err)
		return fmt.Errorf("%w: failed to get business: %v", ErrStoreUnavailable, err)
	}

	if !business.IsOwner(userID) {
		uc.logger.Warn("Reschedule: access denied for user=%d to appointment id=%d", userID, appointment.ID)
		return ErrAccessDenied
	}

	return nil
}

func (uc *UseCase) notifyClient(ctx context.Context, a *domain.Appointment, businessName string) {
	ctx, cancel := context.WithTimeout(ctx, uc.settings.NotifyTimeout)
	defer cancel()

	body := notification.Rescheduled(a, businessName, uc.settings.Location)
	to := notification.Recipient{UserID: a.ClientID, Phone: a.ClientPhone}
	if err := uc.notifier.Send(ctx, to, body); err != nil {
		uc.logger.Error("Reschedule: notification for appointment id=%d failed: %v", a.ID, err)
	}
}

func mapAvailabilityError(err error) error {
	switch {
	case errors.Is(err, get_available_slots.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, get_available_slots.ErrInvalidService),
		errors.Is(err, get_available_slots.ErrBusinessNotFound):
		return fmt.Errorf("%w: %v", ErrInvalidService, err)
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}
