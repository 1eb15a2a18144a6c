package blocked

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
)

var blockedRangeColumns = []string{"id", "business_id", "start_at", "end_at", "reason", "created_at"}

// Repository репозиторий блокировок времени
type Repository struct {
	db DBExecutor
	qb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor, qb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, qb: qb}
}

// Create сохраняет блокировку
func (r *Repository) Create(ctx context.Context, br *domain.BlockedRange) (*domain.BlockedRange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var reason sql.NullString
	if br.Reason != nil {
		reason = sql.NullString{String: *br.Reason, Valid: true}
	}

	query, args, err := r.qb.Insert("blocked_ranges").
		Columns("business_id", "start_at", "end_at", "reason", "created_at").
		Values(br.BusinessID, br.Interval.Start.Unix(), br.Interval.End.Unix(), reason, br.CreatedAt.Unix()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&br.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return br, nil
}

// GetByID получает блокировку по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.BlockedRange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select(blockedRangeColumns...).
		From("blocked_ranges").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	br, err := scanBlockedRange(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlockedRangeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan blocked range: %v", ErrScanRow, err)
	}

	return br, nil
}

// Delete удаляет блокировку бизнеса
func (r *Repository) Delete(ctx context.Context, businessID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Delete("blocked_ranges").
		Where(squirrel.Eq{
			"id":          id,
			"business_id": businessID,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrBlockedRangeNotFound
	}

	return nil
}

// ListOverlapping возвращает блокировки бизнеса, пересекающие интервал
func (r *Repository) ListOverlapping(ctx context.Context, businessID int64, interval domain.TimeInterval) ([]*domain.BlockedRange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select(blockedRangeColumns...).
		From("blocked_ranges").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Lt{"start_at": interval.End.Unix()}).
		Where(squirrel.Gt{"end_at": interval.Start.Unix()}).
		OrderBy("start_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ranges := make([]*domain.BlockedRange, 0)
	for rows.Next() {
		br, err := scanBlockedRange(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListOverlapping - scan blocked range: %v", ErrScanRow, err)
		}
		ranges = append(ranges, br)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - rows iteration: %v", ErrExecQuery, err)
	}

	return ranges, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBlockedRange(row rowScanner) (*domain.BlockedRange, error) {
	var (
		br                        domain.BlockedRange
		startAt, endAt, createdAt int64
		reason                    sql.NullString
	)

	if err := row.Scan(&br.ID, &br.BusinessID, &startAt, &endAt, &reason, &createdAt); err != nil {
		return nil, err
	}

	br.Interval = domain.TimeInterval{
		Start: time.Unix(startAt, 0).UTC(),
		End:   time.Unix(endAt, 0).UTC(),
	}
	if reason.Valid {
		br.Reason = &reason.String
	}
	br.CreatedAt = time.Unix(createdAt, 0).UTC()

	return &br, nil
}
