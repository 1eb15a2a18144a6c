package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	businessRepo    BusinessRepository
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	businessRepo BusinessRepository,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}

	return &Service{
		appointmentRepo: appointmentRepo,
		businessRepo:    businessRepo,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись по ID.
// Запись видят клиент и владелец бизнеса.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appointment, err := s.getAppointment(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkUserAccess(ctx, appointment, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appointment, s.timeProvider.Now(), s.location), nil
}

// GetClientAppointments получает историю записей клиента. Клиент видит только свои записи.
func (s *Service) GetClientAppointments(ctx context.Context, req *models.GetClientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetClientAppointments: fetching appointments for client=%d by user=%d, status=%v",
		req.ClientID, req.UserID, req.Status)

	if req.ClientID <= 0 {
		return nil, fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}
	if req.UserID != req.ClientID {
		s.logger.Warn("GetClientAppointments: user=%d cannot read appointments of client=%d", req.UserID, req.ClientID)
		return nil, ErrAccessDenied
	}

	filter := domain.AppointmentsFilter{
		ClientID:         ptr.Ptr(req.ClientID),
		IncludeCancelled: req.IncludeCancelled,
	}

	return s.list(ctx, "GetClientAppointments", filter, req.Status)
}

// GetBusinessAppointments получает записи бизнеса за период. Доступно только владельцу.
func (s *Service) GetBusinessAppointments(ctx context.Context, req *models.GetBusinessAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetBusinessAppointments: fetching appointments for business=%d by user=%d", req.BusinessID, req.UserID)

	if req.BusinessID <= 0 {
		return nil, fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if err := s.checkOwnerAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	filter := domain.AppointmentsFilter{
		BusinessID:       ptr.Ptr(req.BusinessID),
		IncludeCancelled: req.IncludeCancelled,
	}

	if req.StartDate != nil || req.EndDate != nil {
		from, to, err := s.periodBounds(req.StartDate, req.EndDate)
		if err != nil {
			s.logger.Warn("GetBusinessAppointments: invalid period for business=%d: %v", req.BusinessID, err)
			return nil, err
		}
		filter.From = &from
		filter.To = &to
	}

	return s.list(ctx, "GetBusinessAppointments", filter, req.Status)
}

// Cancel отменяет запись. Отменить может клиент или владелец бизнеса.
// Отмена сразу освобождает интервал и подавляет будущие напоминания.
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", id, req.UserID)

	if req.CancellationReason != nil && utf8.RuneCountInString(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason must not exceed %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	appointment, err := s.getAppointment(ctx, "Cancel", id)
	if err != nil {
		return err
	}

	if err := s.checkUserAccess(ctx, appointment, req.UserID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to cancel appointment id=%d", req.UserID, id)
		return err
	}

	now := s.timeProvider.Now()
	if !appointment.CanBeCancelled(now) {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appointment.EffectiveStatus(now))
		return ErrCannotCancel
	}

	if err := s.appointmentRepo.Cancel(ctx, id, req.CancellationReason, now); err != nil {
		if errors.Is(err, appointmentRepo.ErrCannotCancel) {
			s.logger.Warn("Cancel: appointment id=%d was cancelled concurrently", id)
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", id)
	return nil
}

// Вспомогательные методы

func (s *Service) getAppointment(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appointment, nil
}

// list загружает записи и применяет фильтр по статусу.
// completed не хранится, поэтому фильтр по pending/confirmed/completed применяется к вычисленному статусу.
func (s *Service) list(ctx context.Context, op string, filter domain.AppointmentsFilter, status *string) (*models.AppointmentListResponse, error) {
	var wanted *domain.AppointmentStatus
	if status != nil {
		parsed, err := models.ToDomainAppointmentStatus(*status)
		if err != nil {
			s.logger.Warn("%s: invalid status=%s", op, *status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		wanted = &parsed

		if parsed == domain.StatusCancelled {
			filter.Status = wanted
		} else {
			filter.IncludeCancelled = false
		}
	}

	appointments, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("%s: repository error: %v", op, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	now := s.timeProvider.Now()
	if wanted != nil {
		filtered := make([]*domain.Appointment, 0, len(appointments))
		for _, a := range appointments {
			if a.EffectiveStatus(now) == *wanted {
				filtered = append(filtered, a)
			}
		}
		appointments = filtered
	}

	s.logger.Info("%s: successfully fetched %d appointments", op, len(appointments))
	return models.FromDomainAppointmentList(appointments, now, s.location), nil
}

// periodBounds переводит включительные даты периода в полуинтервал [from, to) в часовом поясе деплоймента
func (s *Service) periodBounds(startDate, endDate *time.Time) (from time.Time, to time.Time, err error) {
	if startDate == nil || endDate == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: both startDate and endDate are required", ErrInvalidTimeRange)
	}

	from = midnight(*startDate, s.location)
	to = midnight(*endDate, s.location).AddDate(0, 0, 1)

	if !from.Before(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: startDate must not be after endDate", ErrInvalidTimeRange)
	}
	if to.Sub(from) > domain.MaxListRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: period must not exceed %d days", ErrInvalidTimeRange, domain.MaxListRangeDays)
	}

	return from, to, nil
}

// checkUserAccess проверяет, что пользователь - клиент записи или владелец бизнеса
func (s *Service) checkUserAccess(ctx context.Context, appointment *domain.Appointment, userID int64) error {
	if appointment.ClientID == userID {
		return nil
	}

	if err := s.checkOwnerAccess(ctx, appointment.BusinessID, userID); err != nil {
		if errors.Is(err, ErrInternal) {
			return err
		}
		return ErrAccessDenied
	}

	return nil
}

// checkOwnerAccess проверяет, что пользователь является владельцем бизнеса
func (s *Service) checkOwnerAccess(ctx context.Context, businessID int64, userID int64) error {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("checkOwnerAccess: business id=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("checkOwnerAccess: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: checkOwnerAccess - failed to get business: %v", ErrInternal, err)
	}

	if !business.IsOwner(userID) {
		s.logger.Warn("checkOwnerAccess: user=%d is not the owner of business=%d", userID, businessID)
		return ErrAccessDenied
	}

	return nil
}

func midnight(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
