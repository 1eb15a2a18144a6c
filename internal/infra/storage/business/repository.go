package business

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/sqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Repository репозиторий бизнесов, их услуг и недельного расписания
type Repository struct {
	db DBExecutor
	qb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория бизнесов
func NewRepository(db DBExecutor, qb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, qb: qb}
}

// Create создает бизнес вместе с его расписанием.
// Для атомарности вызывающий код оборачивает вызов в транзакцию.
func (r *Repository) Create(ctx context.Context, b *domain.Business) (*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Insert("businesses").
		Columns("name", "owner_id", "owner_phone").
		Values(b.Name, b.OwnerID, b.OwnerPhone).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&b.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	if len(b.WeeklyHours) > 0 {
		if err := r.ReplaceWeeklyHours(ctx, b.ID, b.WeeklyHours); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// GetByID получает бизнес вместе с недельным расписанием
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select("id", "name", "owner_id", "owner_phone").
		From("businesses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var b domain.Business
	err = executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.Name, &b.OwnerID, &b.OwnerPhone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan business: %v", ErrScanRow, err)
	}

	b.WeeklyHours, err = r.GetWeeklyHours(ctx, id)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// GetWeeklyHours возвращает расписание бизнеса. Дни без строки считаются выходными.
func (r *Repository) GetWeeklyHours(ctx context.Context, businessID int64) (domain.WeeklyHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select("day_of_week", "open_time", "close_time", "available").
		From("weekly_hours").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("day_of_week").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyHours - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := make(domain.WeeklyHours)
	for rows.Next() {
		var (
			day             int
			openAt, closeAt types.TimeString
			available       bool
		)
		if err := rows.Scan(&day, &openAt, &closeAt, &available); err != nil {
			return nil, fmt.Errorf("%w: GetWeeklyHours - scan day: %v", ErrScanRow, err)
		}

		weekday := time.Weekday(day)
		hours[weekday] = domain.DayHours{
			DayOfWeek: weekday,
			Open:      openAt,
			Close:     closeAt,
			Available: available,
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyHours - rows iteration: %v", ErrExecQuery, err)
	}

	return hours, nil
}

// ReplaceWeeklyHours полностью заменяет расписание бизнеса.
// Для атомарности вызывающий код оборачивает вызов в транзакцию.
func (r *Repository) ReplaceWeeklyHours(ctx context.Context, businessID int64, hours domain.WeeklyHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Delete("weekly_hours").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWeeklyHours - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceWeeklyHours - execute delete: %v", ErrExecQuery, err)
	}

	if len(hours) == 0 {
		return nil
	}

	insert := r.qb.Insert("weekly_hours").
		Columns("business_id", "day_of_week", "open_time", "close_time", "available")
	for day := time.Sunday; day <= time.Saturday; day++ {
		h, ok := hours[day]
		if !ok {
			continue
		}
		insert = insert.Values(businessID, int(day), h.Open.String(), h.Close.String(), h.Available)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWeeklyHours - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceWeeklyHours - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// CreateService создает услугу бизнеса
func (r *Repository) CreateService(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Insert("services").
		Columns("business_id", "name", "duration_minutes", "active").
		Values(s.BusinessID, s.Name, s.DurationMinutes, s.Active).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateService - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateService - execute insert: %v", ErrExecQuery, err)
	}

	return s, nil
}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select("id", "business_id", "name", "duration_minutes", "active").
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.BusinessID, &s.Name, &s.DurationMinutes, &s.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	return &s, nil
}
