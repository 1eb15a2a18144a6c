package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
)

// UseCase use case расчета доступных слотов
type UseCase struct {
	businessRepo    BusinessRepository
	blockedRepo     BlockedRangeRepository
	appointmentRepo AppointmentRepository
	settings        Settings
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	businessRepo BusinessRepository,
	blockedRepo BlockedRangeRepository,
	appointmentRepo AppointmentRepository,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.Step <= 0 {
		settings.Step = domain.DefaultStepMinutes * time.Minute
	}

	return &UseCase{
		businessRepo:    businessRepo,
		blockedRepo:     blockedRepo,
		appointmentRepo: appointmentRepo,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute возвращает упорядоченный список свободных слотов на день
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%d, service=%d, date=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	availability, err := uc.Evaluate(ctx, req)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for business=%d, service=%d, date=%s",
		len(availability.Slots), req.BusinessID, req.ServiceID, availability.Date.Format(domain.DateFormat))

	return &Response{
		BusinessID:      req.BusinessID,
		ServiceID:       req.ServiceID,
		Date:            availability.Date,
		DurationMinutes: availability.Service.DurationMinutes,
		Slots:           availability.Slots,
	}, nil
}

// Evaluate выполняет расчет доступности и возвращает свободные слоты вместе с сеткой
func (uc *UseCase) Evaluate(ctx context.Context, req *Request) (*Availability, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	day := dayStart(req.Date, uc.settings.Location)

	// 2. Получаем бизнес с расписанием
	business, err := uc.businessRepo.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrStoreUnavailable, err)
	}

	// 3. Получаем услугу и проверяем, что ее можно забронировать
	service, err := uc.businessRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, fmt.Errorf("%w: service id=%d not found", ErrInvalidService, req.ServiceID)
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrStoreUnavailable, err)
	}
	// Перенос уже существующей записи не требует, чтобы услуга была активна
	usable := service.IsBookable(business.ID)
	if req.ExcludeAppointmentID != 0 {
		usable = service.ServesBusiness(business.ID)
	}
	if !usable {
		uc.logger.Warn("GetAvailableSlots: service id=%d is not bookable at business id=%d", service.ID, business.ID)
		return nil, fmt.Errorf("%w: service id=%d is inactive or belongs to another business", ErrInvalidService, service.ID)
	}

	availability := &Availability{
		Business: business,
		Service:  service,
		Date:     day,
		Slots:    []domain.TimeInterval{},
		Grid:     []domain.TimeInterval{},
	}

	// 4. Рабочий интервал дня; в выходной слотов нет
	open, ok := business.WeeklyHours.OpenInterval(day)
	if !ok {
		uc.logger.Info("GetAvailableSlots: business id=%d is closed on %s", business.ID, day.Format(domain.DateFormat))
		return availability, nil
	}
	availability.Open = open
	availability.IsOpen = true

	// 5. Блокировки и активные записи, пересекающие рабочий интервал
	blocked, err := uc.blockedRepo.ListOverlapping(ctx, business.ID, open)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get blocked ranges: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocked ranges: %v", ErrStoreUnavailable, err)
	}

	booked, err := uc.appointmentRepo.ListActiveOverlapping(ctx, business.ID, open)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrStoreUnavailable, err)
	}
	booked = excludeAppointment(booked, req.ExcludeAppointmentID)

	// 6. Вычитание и нарезка; прошедшие слоты отбрасываются
	availability.Slots, availability.Grid = computeSlots(
		open,
		blocked,
		booked,
		time.Duration(service.DurationMinutes)*time.Minute,
		uc.settings.Step,
		now.Add(uc.settings.MinNotice),
	)

	return availability, nil
}

func excludeAppointment(appointments []*domain.Appointment, id int64) []*domain.Appointment {
	if id == 0 {
		return appointments
	}

	out := make([]*domain.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}
