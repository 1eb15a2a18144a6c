package blocked_ranges

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	blockedRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/blocked"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	"github.com/m04kA/SMC-AppointmentService/internal/service/blocked_ranges/models"
)

// Service сервис для работы с блокировками времени бизнеса
type Service struct {
	blockedRepo  BlockedRangeRepository
	businessRepo BusinessRepository
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса блокировок
func NewService(
	blockedRepo BlockedRangeRepository,
	businessRepo BusinessRepository,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}

	return &Service{
		blockedRepo:  blockedRepo,
		businessRepo: businessRepo,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Create создает блокировку. Существующие записи в интервале не отменяются.
// Доступно только владельцу бизнеса
func (s *Service) Create(ctx context.Context, req *models.CreateBlockedRangeRequest) (*models.BlockedRangeResponse, error) {
	s.logger.Info("Create: blocking [%s, %s) for business=%d by user=%d",
		req.Start.Format(time.RFC3339), req.End.Format(time.RFC3339), req.BusinessID, req.UserID)

	// 1. Валидируем входные данные
	if req.Start.IsZero() || req.End.IsZero() {
		return nil, fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}
	interval, err := domain.NewTimeInterval(req.Start, req.End)
	if err != nil {
		s.logger.Warn("Create: invalid interval: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.Reason != nil && utf8.RuneCountInString(*req.Reason) > domain.MaxBlockedRangeReasonLength {
		return nil, fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxBlockedRangeReasonLength)
	}

	// 2. Проверяем права доступа (только владелец)
	if err := s.checkOwnerAccess(ctx, "Create", req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	// 3. Создаем блокировку
	created, err := s.blockedRepo.Create(ctx, &domain.BlockedRange{
		BusinessID: req.BusinessID,
		Interval:   interval,
		Reason:     req.Reason,
		CreatedAt:  s.timeProvider.Now(),
	})
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created blocked range id=%d", created.ID)
	return models.FromDomainBlockedRange(created, s.location), nil
}

// Delete удаляет блокировку
// Доступно только владельцу бизнеса
func (s *Service) Delete(ctx context.Context, businessID, id, userID int64) error {
	s.logger.Info("Delete: deleting blocked range id=%d of business=%d by user=%d", id, businessID, userID)

	if err := s.checkOwnerAccess(ctx, "Delete", businessID, userID); err != nil {
		return err
	}

	if err := s.blockedRepo.Delete(ctx, businessID, id); err != nil {
		if errors.Is(err, blockedRepo.ErrBlockedRangeNotFound) {
			s.logger.Warn("Delete: blocked range id=%d not found in business=%d", id, businessID)
			return ErrBlockedRangeNotFound
		}
		s.logger.Error("Delete: repository error for blocked range id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted blocked range id=%d", id)
	return nil
}

// List возвращает блокировки, пересекающие период
// Доступно только владельцу бизнеса
func (s *Service) List(ctx context.Context, req *models.ListBlockedRangesRequest) (*models.BlockedRangeListResponse, error) {
	s.logger.Info("List: fetching blocked ranges for business=%d by user=%d", req.BusinessID, req.UserID)

	from := s.timeProvider.Now()
	if req.From != nil {
		from = *req.From
	}
	to := from.AddDate(0, 0, domain.MaxListRangeDays)
	if req.To != nil {
		to = *req.To
	}

	period, err := domain.NewTimeInterval(from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.checkOwnerAccess(ctx, "List", req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	ranges, err := s.blockedRepo.ListOverlapping(ctx, req.BusinessID, period)
	if err != nil {
		s.logger.Error("List: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d blocked ranges", len(ranges))
	return models.FromDomainBlockedRangeList(ranges, s.location), nil
}

// checkOwnerAccess проверяет, что пользователь является владельцем бизнеса
func (s *Service) checkOwnerAccess(ctx context.Context, op string, businessID, userID int64) error {
	if businessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("%s: business id=%d not found", op, businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("%s: failed to get business id=%d: %v", op, businessID, err)
		return fmt.Errorf("%w: %s - failed to get business: %v", ErrInternal, op, err)
	}

	if !business.IsOwner(userID) {
		s.logger.Warn("%s: user=%d is not the owner of business=%d", op, userID, businessID)
		return ErrAccessDenied
	}

	return nil
}
