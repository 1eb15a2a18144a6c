package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

// Service сервис для работы с недельным расписанием бизнеса
type Service struct {
	businesses BusinessReader
	hoursRepo  WeeklyHoursRepository
	cache      CacheInvalidator
	txManager  TransactionManager
	logger     Logger
}

// NewService создает новый экземпляр сервиса расписания.
// cache может быть nil, если каталог не кешируется.
func NewService(
	businesses BusinessReader,
	hoursRepo WeeklyHoursRepository,
	cache CacheInvalidator,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		businesses: businesses,
		hoursRepo:  hoursRepo,
		cache:      cache,
		txManager:  txManager,
		logger:     logger,
	}
}

// GetWeeklyHours получает расписание бизнеса
// Публичный метод - доступен всем
func (s *Service) GetWeeklyHours(ctx context.Context, businessID int64) (*models.WeeklyHoursResponse, error) {
	s.logger.Info("GetWeeklyHours: fetching weekly hours for business=%d", businessID)

	if businessID <= 0 {
		return nil, fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	business, err := s.getBusiness(ctx, "GetWeeklyHours", businessID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainWeeklyHours(business.ID, business.WeeklyHours), nil
}

// UpdateWeeklyHours заменяет расписание бизнеса целиком
// Доступно только владельцу бизнеса
func (s *Service) UpdateWeeklyHours(ctx context.Context, req *models.UpdateWeeklyHoursRequest) (*models.WeeklyHoursResponse, error) {
	s.logger.Info("UpdateWeeklyHours: updating weekly hours for business=%d by user=%d", req.BusinessID, req.UserID)

	// 1. Валидируем входные данные
	if req.BusinessID <= 0 {
		return nil, fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	hours, err := req.ToDomainWeeklyHours()
	if err != nil {
		s.logger.Warn("UpdateWeeklyHours: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := hours.Validate(); err != nil {
		s.logger.Warn("UpdateWeeklyHours: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Проверяем права доступа (только владелец)
	business, err := s.getBusiness(ctx, "UpdateWeeklyHours", req.BusinessID)
	if err != nil {
		return nil, err
	}
	if !business.IsOwner(req.UserID) {
		s.logger.Warn("UpdateWeeklyHours: user=%d is not the owner of business=%d", req.UserID, req.BusinessID)
		return nil, ErrAccessDenied
	}

	// 3. Заменяем расписание в транзакции
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.hoursRepo.ReplaceWeeklyHours(txCtx, req.BusinessID, hours)
	})
	if err != nil {
		s.logger.Error("UpdateWeeklyHours: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: UpdateWeeklyHours - repository error: %v", ErrInternal, err)
	}

	// 4. Сбрасываем кеш каталога
	if s.cache != nil {
		if err := s.cache.InvalidateBusiness(ctx, req.BusinessID); err != nil {
			s.logger.Warn("UpdateWeeklyHours: failed to invalidate cache for business=%d: %v", req.BusinessID, err)
		}
	}

	s.logger.Info("UpdateWeeklyHours: successfully updated weekly hours for business=%d (%d days)", req.BusinessID, len(hours))
	return models.FromDomainWeeklyHours(req.BusinessID, hours), nil
}

func (s *Service) getBusiness(ctx context.Context, op string, businessID int64) (*domain.Business, error) {
	business, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("%s: business id=%d not found", op, businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("%s: failed to get business id=%d: %v", op, businessID, err)
		return nil, fmt.Errorf("%w: %s - failed to get business: %v", ErrInternal, op, err)
	}
	return business, nil
}
