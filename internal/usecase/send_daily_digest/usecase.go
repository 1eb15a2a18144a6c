package send_daily_digest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/notification"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// UseCase ежедневная сводка записей для владельцев бизнесов
type UseCase struct {
	appointmentRepo AppointmentRepository
	businessRepo    BusinessRepository
	notifier        Notifier
	metrics         Metrics
	settings        Settings
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	businessRepo BusinessRepository,
	notifier Notifier,
	metrics Metrics,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.Concurrency <= 0 {
		settings.Concurrency = defaultConcurrency
	}

	return &UseCase{
		appointmentRepo: appointmentRepo,
		businessRepo:    businessRepo,
		notifier:        notifier,
		metrics:         metrics,
		settings:        settings,
		logger:          logger,
	}
}

// Execute отправляет каждому владельцу сводку неотмененных записей на следующий календарный день.
// Ошибка по одному бизнесу не останавливает рассылку остальным.
func (uc *UseCase) Execute(ctx context.Context, now time.Time) Result {
	day := nextDay(now, uc.settings.Location)
	result := Result{Day: day}

	uc.logger.Info("SendDailyDigest: collecting appointments for %s", day.Format(domain.DateFormat))

	appointments, err := uc.appointmentRepo.List(ctx, domain.AppointmentsFilter{
		From: ptr.Ptr(day),
		To:   ptr.Ptr(day.AddDate(0, 0, 1)),
	})
	if err != nil {
		uc.logger.Error("SendDailyDigest: %v", fmt.Errorf("%w: failed to list appointments: %v", ErrStoreUnavailable, err))
		uc.metrics.ObserveDigest(metrics.OutcomeError)
		return result
	}

	businessIDs, byBusiness := groupByBusiness(appointments)
	result.Businesses = len(businessIDs)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.settings.Concurrency)

	for _, businessID := range businessIDs {
		g.Go(func() error {
			outcome := uc.sendDigest(gctx, businessID, day, byBusiness[businessID])

			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case metrics.OutcomeSuccess:
				result.Sent++
			case metrics.OutcomeSkipped:
				result.Skipped++
			default:
				result.Failed++
			}
			return nil
		})
	}
	_ = g.Wait()

	uc.logger.Info("SendDailyDigest: %s done, businesses=%d sent=%d skipped=%d failed=%d",
		day.Format(domain.DateFormat), result.Businesses, result.Sent, result.Skipped, result.Failed)
	return result
}

// sendDigest отправляет сводку одному владельцу и возвращает исход отправки
func (uc *UseCase) sendDigest(ctx context.Context, businessID int64, day time.Time, appointments []*domain.Appointment) string {
	outcome := uc.deliver(ctx, businessID, day, appointments)
	uc.metrics.ObserveDigest(outcome)
	return outcome
}

func (uc *UseCase) deliver(ctx context.Context, businessID int64, day time.Time, appointments []*domain.Appointment) string {
	business, err := uc.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		uc.logger.Error("SendDailyDigest: %v", fmt.Errorf("%w: failed to get business id=%d: %v", ErrStoreUnavailable, businessID, err))
		return metrics.OutcomeError
	}

	body := notification.Digest(business.Name, day, appointments, uc.settings.Location)
	to := notification.Recipient{UserID: business.OwnerID, Phone: business.OwnerPhone}

	if err := uc.notifier.Send(ctx, to, body); err != nil {
		if errors.Is(err, notification.ErrNoDestination) {
			uc.logger.Warn("SendDailyDigest: owner of business id=%d has no destination, skipped", businessID)
			return metrics.OutcomeSkipped
		}
		uc.logger.Error("SendDailyDigest: %v", fmt.Errorf("%w: business id=%d: %v", ErrNotifierFailure, businessID, err))
		return metrics.OutcomeSendFailure
	}

	return metrics.OutcomeSuccess
}

// groupByBusiness группирует записи по бизнесу, сохраняя порядок первого появления и порядок записей
func groupByBusiness(appointments []*domain.Appointment) ([]int64, map[int64][]*domain.Appointment) {
	order := make([]int64, 0)
	groups := make(map[int64][]*domain.Appointment)

	for _, a := range appointments {
		if _, ok := groups[a.BusinessID]; !ok {
			order = append(order, a.BusinessID)
		}
		groups[a.BusinessID] = append(groups[a.BusinessID], a)
	}

	return order, groups
}

// nextDay полночь следующего календарного дня в часовом поясе деплоймента
func nextDay(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
}
