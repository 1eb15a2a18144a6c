package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

type reminderColumns struct {
	sentAt    string
	claim     string
	claimedAt string
}

func columnsFor(kind domain.ReminderKind) (reminderColumns, error) {
	switch kind {
	case domain.ReminderDayBefore:
		return reminderColumns{"day_before_sent_at", "day_before_claim", "day_before_claimed_at"}, nil
	case domain.ReminderHourBefore:
		return reminderColumns{"hour_before_sent_at", "hour_before_claim", "hour_before_claimed_at"}, nil
	default:
		return reminderColumns{}, fmt.Errorf("%w: %q", ErrUnknownReminderKind, kind)
	}
}

// ListDueReminders возвращает активные записи, начинающиеся в окне, по которым напоминание kind еще не отправлено
func (r *Repository) ListDueReminders(ctx context.Context, kind domain.ReminderKind, window domain.TimeInterval) ([]*domain.Appointment, error) {
	cols, err := columnsFor(kind)
	if err != nil {
		return nil, err
	}

	query, args, err := r.qb.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{
			"status":    domain.ActiveStatusStrings(),
			cols.sentAt: nil,
		}).
		Where(squirrel.GtOrEq{"start_at": window.Start.Unix()}).
		Where(squirrel.Lt{"start_at": window.End.Unix()}).
		OrderBy("start_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDueReminders - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "ListDueReminders", query, args)
}

// ClaimReminder атомарно захватывает отправку напоминания для запуска runID.
// Захват удается, только если напоминание не отправлено, запись активна и
// нет чужого захвата моложе lease. claimedAt берется с часов процесса, а не из окна прохода.
// Возвращает false, если захват не удался.
func (r *Repository) ClaimReminder(
	ctx context.Context,
	id int64,
	kind domain.ReminderKind,
	runID string,
	claimedAt time.Time,
	lease time.Duration,
) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	cols, err := columnsFor(kind)
	if err != nil {
		return false, err
	}

	query, args, err := r.qb.Update("appointments").
		Set(cols.claim, runID).
		Set(cols.claimedAt, claimedAt.Unix()).
		Where(squirrel.Eq{
			"id":        id,
			"status":    domain.ActiveStatusStrings(),
			cols.sentAt: nil,
		}).
		Where(squirrel.Or{
			squirrel.Eq{cols.claim: nil},
			squirrel.Lt{cols.claimedAt: claimedAt.Add(-lease).Unix()},
		}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ClaimReminder - build update query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: ClaimReminder - execute update: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: ClaimReminder - rows affected: %v", ErrExecQuery, err)
	}

	return affected == 1, nil
}

// MarkReminderSent записывает время отправки. Требует захвата от того же runID.
func (r *Repository) MarkReminderSent(ctx context.Context, id int64, kind domain.ReminderKind, runID string, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	cols, err := columnsFor(kind)
	if err != nil {
		return err
	}

	query, args, err := r.qb.Update("appointments").
		Set(cols.sentAt, now.Unix()).
		Set(cols.claim, nil).
		Set(cols.claimedAt, nil).
		Set("updated_at", now.Unix()).
		Where(squirrel.Eq{
			"id":        id,
			cols.claim:  runID,
			cols.sentAt: nil,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - build update query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - execute update: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrClaimLost
	}

	return nil
}

// ReleaseReminder снимает захват после неудачной отправки, чтобы следующий запуск повторил ее
func (r *Repository) ReleaseReminder(ctx context.Context, id int64, kind domain.ReminderKind, runID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	cols, err := columnsFor(kind)
	if err != nil {
		return err
	}

	query, args, err := r.qb.Update("appointments").
		Set(cols.claim, nil).
		Set(cols.claimedAt, nil).
		Where(squirrel.Eq{
			"id":       id,
			cols.claim: runID,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReleaseReminder - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReleaseReminder - execute update: %v", ErrExecQuery, err)
	}

	return nil
}
