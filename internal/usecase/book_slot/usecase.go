package book_slot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/notification"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// UseCase use case бронирования слота
type UseCase struct {
	availability    AvailabilityEvaluator
	appointmentRepo AppointmentRepository
	userClient      UserServiceClient
	notifier        Notifier
	calendar        CalendarSync
	txManager       TransactionManager
	metrics         Metrics
	settings        Settings
	timeProvider    TimeProvider
	logger          Logger

	// Фоновые побочные эффекты после коммита
	sideEffects sync.WaitGroup
}

// NewUseCase создает новый экземпляр use case.
// userClient и calendar могут быть nil: тогда контакты берутся только из запроса, а календарь не синхронизируется.
func NewUseCase(
	availability AvailabilityEvaluator,
	appointmentRepo AppointmentRepository,
	userClient UserServiceClient,
	notifier Notifier,
	calendar CalendarSync,
	txManager TransactionManager,
	metrics Metrics,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.InitialStatus == "" {
		settings.InitialStatus = domain.StatusConfirmed
	}
	if settings.SideEffectTimeout <= 0 {
		settings.SideEffectTimeout = 15 * time.Second
	}

	return &UseCase{
		availability:    availability,
		appointmentRepo: appointmentRepo,
		userClient:      userClient,
		notifier:        notifier,
		calendar:        calendar,
		txManager:       txManager,
		metrics:         metrics,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case бронирования.
// Слот проверяется повторным расчетом доступности, затем запись вставляется условным запросом
// в сериализуемой транзакции: из конкурирующих запросов на один интервал выигрывает ровно один.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookSlot: business=%d, client=%d, service=%d, start=%s",
		req.BusinessID, req.ClientID, req.ServiceID, req.Start.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookSlot: validation failed: %v", err)
		uc.metrics.ObserveBooking(metrics.OutcomeRejected)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Повторный расчет доступности на день запрошенного слота
	availability, err := uc.availability.Evaluate(ctx, &get_available_slots.Request{
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		Date:       req.Start.In(uc.settings.Location),
	})
	if err != nil {
		uc.logger.Warn("BookSlot: availability check failed: %v", err)
		mapped := mapAvailabilityError(err)
		uc.observeFailure(mapped)
		return nil, mapped
	}

	// 3. Слот должен быть свободен; занятый слот на сетке означает проигранную гонку
	if !availability.HasSlot(req.Start) {
		if availability.OnGrid(req.Start) {
			uc.logger.Warn("BookSlot: slot %s at business=%d is taken", req.Start.Format(time.RFC3339), req.BusinessID)
			uc.metrics.ObserveBooking(metrics.OutcomeConflict)
			return nil, ErrSlotNoLongerAvailable
		}
		uc.metrics.ObserveBooking(metrics.OutcomeRejected)
		uc.logger.Warn("BookSlot: %s is not a valid slot start at business=%d", req.Start.Format(time.RFC3339), req.BusinessID)
		return nil, fmt.Errorf("%w: %s is not a slot start", ErrInvalidSlot, req.Start.Format(time.RFC3339))
	}

	// 4. Контакты клиента для уведомлений
	name, phone := uc.resolveContact(ctx, req)

	service := availability.Service
	appointment := &domain.Appointment{
		BusinessID: req.BusinessID,
		ClientID:   req.ClientID,
		ServiceID:  service.ID,
		Interval: domain.TimeInterval{
			Start: req.Start,
			End:   req.Start.Add(time.Duration(service.DurationMinutes) * time.Minute),
		},
		Status:      uc.settings.InitialStatus,
		ServiceName: service.Name,
		ClientName:  name,
		ClientPhone: phone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// 5. Проверка и вставка одним условным запросом в сериализуемой транзакции
	var created *domain.Appointment
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		created, err = uc.appointmentRepo.CreateIfSlotFree(txCtx, appointment)
		return err
	})
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotTaken) || txmanager.IsSerializationFailure(err) {
			uc.logger.Warn("BookSlot: lost race for %s at business=%d: %v",
				req.Start.Format(time.RFC3339), req.BusinessID, err)
			uc.metrics.ObserveBooking(metrics.OutcomeConflict)
			return nil, ErrSlotNoLongerAvailable
		}
		uc.logger.Error("BookSlot: failed to create appointment: %v", err)
		uc.metrics.ObserveBooking(metrics.OutcomeError)
		return nil, fmt.Errorf("%w: failed to create appointment: %v", ErrStoreUnavailable, err)
	}

	uc.logger.Info("BookSlot: successfully created appointment id=%d", created.ID)
	uc.metrics.ObserveBooking(metrics.OutcomeSuccess)

	// 6. Синхронизация календаря и подтверждение не влияют на результат бронирования
	uc.sideEffects.Add(1)
	go func() {
		defer uc.sideEffects.Done()
		uc.runSideEffects(context.WithoutCancel(ctx), created, availability.Business.Name)
	}()

	return &Response{
		ID:          created.ID,
		BusinessID:  created.BusinessID,
		ClientID:    created.ClientID,
		ServiceID:   created.ServiceID,
		ServiceName: created.ServiceName,
		StartTime:   created.Interval.Start,
		EndTime:     created.Interval.End,
		Status:      string(created.Status),
		CreatedAt:   created.CreatedAt,
	}, nil
}

// Wait ожидает завершения фоновых побочных эффектов (graceful shutdown, тесты)
func (uc *UseCase) Wait() {
	uc.sideEffects.Wait()
}

// resolveContact дополняет контакты из запроса данными UserService
func (uc *UseCase) resolveContact(ctx context.Context, req *Request) (name string, phone string) {
	name, phone = req.ClientName, req.ClientPhone
	if uc.userClient == nil || (name != "" && phone != "") {
		return name, phone
	}

	contact, err := uc.userClient.GetContactWithGracefulDegradation(ctx, req.ClientID)
	if err != nil {
		uc.logger.Warn("BookSlot: contact for client=%d unavailable, booking without it: %v", req.ClientID, err)
		return name, phone
	}

	if name == "" {
		name = contact.Name
	}
	if phone == "" && contact.HasPhone() {
		phone = contact.Phone
	}
	return name, phone
}

func (uc *UseCase) runSideEffects(ctx context.Context, a *domain.Appointment, businessName string) {
	ctx, cancel := context.WithTimeout(ctx, uc.settings.SideEffectTimeout)
	defer cancel()

	if uc.calendar != nil {
		event := domain.CalendarEvent{
			AppointmentID: a.ID,
			Summary:       fmt.Sprintf("%s: %s", a.ServiceName, a.ClientName),
			Description:   fmt.Sprintf("Запись #%d, клиент #%d, телефон %s", a.ID, a.ClientID, a.ClientPhone),
			Interval:      a.Interval,
		}
		if err := uc.calendar.Insert(ctx, event); err != nil {
			uc.logger.Error("BookSlot: calendar sync for appointment id=%d failed: %v", a.ID, err)
		}
	}

	body := notification.BookingConfirmation(a, businessName, uc.settings.Location)
	to := notification.Recipient{UserID: a.ClientID, Phone: a.ClientPhone}
	if err := uc.notifier.Send(ctx, to, body); err != nil {
		uc.logger.Error("BookSlot: confirmation for appointment id=%d failed: %v", a.ID, err)
	}
}

func (uc *UseCase) observeFailure(err error) {
	if errors.Is(err, ErrStoreUnavailable) {
		uc.metrics.ObserveBooking(metrics.OutcomeError)
		return
	}
	uc.metrics.ObserveBooking(metrics.OutcomeRejected)
}

func mapAvailabilityError(err error) error {
	switch {
	case errors.Is(err, get_available_slots.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, get_available_slots.ErrBusinessNotFound):
		return ErrBusinessNotFound
	case errors.Is(err, get_available_slots.ErrInvalidService):
		return fmt.Errorf("%w: %v", ErrInvalidService, err)
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}
