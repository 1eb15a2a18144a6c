package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/sqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

const pgExclusionViolation = "23P01"

var appointmentColumns = []string{
	"id",
	"business_id",
	"client_id",
	"service_id",
	"service_name",
	"client_name",
	"client_phone",
	"start_at",
	"end_at",
	"status",
	"cancellation_reason",
	"cancelled_at",
	"day_before_sent_at",
	"hour_before_sent_at",
	"created_at",
	"updated_at",
}

// Вставка выполняется только если интервал не пересекается с активной записью
// или блокировкой того же бизнеса. CAST нужен postgres для типизации параметров в SELECT.
const insertIfFreeQuery = `
INSERT INTO appointments (
	business_id, client_id, service_id, service_name, client_name, client_phone,
	start_at, end_at, status, created_at, updated_at
)
SELECT CAST(? AS BIGINT), CAST(? AS BIGINT), CAST(? AS BIGINT), CAST(? AS TEXT), CAST(? AS TEXT), CAST(? AS TEXT),
	CAST(? AS BIGINT), CAST(? AS BIGINT), CAST(? AS TEXT), CAST(? AS BIGINT), CAST(? AS BIGINT)
WHERE NOT EXISTS (
	SELECT 1 FROM appointments
	WHERE business_id = ? AND status IN (?, ?) AND start_at < ? AND end_at > ?
)
AND NOT EXISTS (
	SELECT 1 FROM blocked_ranges
	WHERE business_id = ? AND start_at < ? AND end_at > ?
)
RETURNING id`

const moveIfFreeQuery = `
UPDATE appointments
SET start_at = ?, end_at = ?, updated_at = ?
WHERE id = ? AND status IN (?, ?)
AND NOT EXISTS (
	SELECT 1 FROM appointments other
	WHERE other.business_id = appointments.business_id
		AND other.id <> appointments.id
		AND other.status IN (?, ?)
		AND other.start_at < ? AND other.end_at > ?
)
AND NOT EXISTS (
	SELECT 1 FROM blocked_ranges b
	WHERE b.business_id = appointments.business_id AND b.start_at < ? AND b.end_at > ?
)`

// Repository репозиторий для работы с записями
type Repository struct {
	db DBExecutor
	qb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor, qb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, qb: qb}
}

// CreateIfSlotFree атомарно создает запись, если ее интервал свободен.
// Проверка и вставка выполняются одним запросом; при конкурентной вставке в postgres
// проигравшая транзакция получает ошибку сериализации или нарушение exclusion constraint.
func (r *Repository) CreateIfSlotFree(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, err := r.qb.Rebind(insertIfFreeQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateIfSlotFree - rebind: %v", ErrBuildQuery, err)
	}

	active := domain.ActiveStatusStrings()
	start, end := a.Interval.Start.Unix(), a.Interval.End.Unix()
	args := []interface{}{
		a.BusinessID, a.ClientID, a.ServiceID, a.ServiceName, a.ClientName, a.ClientPhone,
		start, end, string(a.Status), a.CreatedAt.Unix(), a.UpdatedAt.Unix(),
		a.BusinessID, active[0], active[1], end, start,
		a.BusinessID, end, start,
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotTaken
	}
	if isConflict(err) {
		return nil, fmt.Errorf("%w: %w", ErrSlotTaken, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: CreateIfSlotFree - execute insert: %v", ErrExecQuery, err)
	}

	return a, nil
}

// MoveIfSlotFree переносит активную запись на новый интервал, если он свободен.
// Состояние напоминаний не меняется.
func (r *Repository) MoveIfSlotFree(ctx context.Context, id int64, interval domain.TimeInterval, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, err := r.qb.Rebind(moveIfFreeQuery)
	if err != nil {
		return fmt.Errorf("%w: MoveIfSlotFree - rebind: %v", ErrBuildQuery, err)
	}

	active := domain.ActiveStatusStrings()
	start, end := interval.Start.Unix(), interval.End.Unix()
	args := []interface{}{
		start, end, now.Unix(),
		id, active[0], active[1],
		active[0], active[1], end, start,
		end, start,
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if isConflict(err) {
		return fmt.Errorf("%w: %w", ErrSlotTaken, err)
	}
	if err != nil {
		return fmt.Errorf("%w: MoveIfSlotFree - execute update: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MoveIfSlotFree - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrSlotTaken
	}

	return nil
}

// GetByID получает запись по ID. Внутри транзакции строка блокируется (postgres).
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.qb.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = r.qb.ForUpdate(selectBuilder)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// ListActiveOverlapping возвращает активные записи бизнеса, пересекающие интервал
func (r *Repository) ListActiveOverlapping(ctx context.Context, businessID int64, interval domain.TimeInterval) ([]*domain.Appointment, error) {
	query, args, err := r.qb.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{
			"business_id": businessID,
			"status":      domain.ActiveStatusStrings(),
		}).
		Where(squirrel.Lt{"start_at": interval.End.Unix()}).
		Where(squirrel.Gt{"end_at": interval.Start.Unix()}).
		OrderBy("start_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "ListActiveOverlapping", query, args)
}

// List возвращает записи по фильтру, упорядоченные по времени начала.
// Без IncludeCancelled и Status возвращаются только активные записи.
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	selectBuilder := r.qb.Select(appointmentColumns...).
		From("appointments").
		OrderBy("start_at", "id")

	if filter.BusinessID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"business_id": *filter.BusinessID})
	}
	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_at": filter.From.Unix()})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_at": filter.To.Unix()})
	}

	switch {
	case filter.Status != nil:
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	case !filter.IncludeCancelled:
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": domain.ActiveStatusStrings()})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "List", query, args)
}

// Cancel переводит активную запись в статус cancelled
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Update("appointments").
		Set("status", string(domain.StatusCancelled)).
		Set("cancellation_reason", nullString(reason)).
		Set("cancelled_at", now.Unix()).
		Set("updated_at", now.Unix()).
		Where(squirrel.Eq{
			"id":     id,
			"status": domain.ActiveStatusStrings(),
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrCannotCancel
	}

	return nil
}

func (r *Repository) query(ctx context.Context, op string, query string, args []interface{}) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute select: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan appointment: %v", ErrScanRow, op, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %v", ErrExecQuery, op, err)
	}

	return appointments, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		a                                  domain.Appointment
		startAt, endAt, createdAt, updated int64
		status                             string
		reason                             sql.NullString
		cancelledAt, dayBefore, hourBefore sql.NullInt64
	)

	err := row.Scan(
		&a.ID,
		&a.BusinessID,
		&a.ClientID,
		&a.ServiceID,
		&a.ServiceName,
		&a.ClientName,
		&a.ClientPhone,
		&startAt,
		&endAt,
		&status,
		&reason,
		&cancelledAt,
		&dayBefore,
		&hourBefore,
		&createdAt,
		&updated,
	)
	if err != nil {
		return nil, err
	}

	a.Interval = domain.TimeInterval{Start: fromUnix(startAt), End: fromUnix(endAt)}
	a.Status = domain.AppointmentStatus(status)
	if reason.Valid {
		a.CancellationReason = &reason.String
	}
	a.CancelledAt = nullTime(cancelledAt)
	a.Reminders.DayBefore.SentAt = nullTime(dayBefore)
	a.Reminders.HourBefore.SentAt = nullTime(hourBefore)
	a.CreatedAt = fromUnix(createdAt)
	a.UpdatedAt = fromUnix(updated)

	return &a, nil
}

// isConflict распознает ошибки postgres, означающие проигранную гонку за интервал
func isConflict(err error) bool {
	if err == nil {
		return false
	}
	if txmanager.IsSerializationFailure(err) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgExclusionViolation
}

func fromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromUnix(v.Int64)
	return &t
}
