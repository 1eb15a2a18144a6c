package reschedule_appointment

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	blockedRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/blocked"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-AppointmentService/internal/notification"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

const (
	ownerID    int64 = 1
	clientID   int64 = 5
	neighborID int64 = 6
	strangerID int64 = 9
)

type recordingNotifier struct {
	mu    sync.Mutex
	sent  []notification.Recipient
	err   error
	block chan struct{} // если задан, отправка ждет его закрытия
}

func (n *recordingNotifier) Send(_ context.Context, to notification.Recipient, _ string) error {
	if n.block != nil {
		<-n.block
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, to)
	return n.err
}

func (n *recordingNotifier) recipients() []notification.Recipient {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification.Recipient(nil), n.sent...)
}

type fixture struct {
	uc           *UseCase
	db           *dbmetrics.DB
	appointments *appointmentRepo.Repository
	notifier     *recordingNotifier
	monday       time.Time
	mine         *domain.Appointment
	neighbor     *domain.Appointment
}

// nextMonday возвращает ближайший понедельник не раньше чем через неделю
func nextMonday() time.Time {
	d := time.Now().UTC().AddDate(0, 0, 7)
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, qb := storagetest.NewSQLite(t)
	ctx := context.Background()
	log := logger.NewNop()

	businessID, serviceID := storagetest.SeedBusiness(t, db, ownerID, 30)
	businesses := businessRepo.NewRepository(db, qb)
	require.NoError(t, businesses.ReplaceWeeklyHours(ctx, businessID, domain.WeeklyHours{
		time.Monday: {DayOfWeek: time.Monday, Open: "09:00", Close: "18:00", Available: true},
	}))

	appointments := appointmentRepo.NewRepository(db, qb)
	availability := get_available_slots.NewUseCase(
		businesses,
		blockedRepo.NewRepository(db, qb),
		appointments,
		get_available_slots.Settings{Location: time.UTC, Step: 30 * time.Minute},
		log,
	)

	monday := nextMonday()
	create := func(clientID int64, start time.Time) *domain.Appointment {
		created, err := appointments.CreateIfSlotFree(ctx, &domain.Appointment{
			BusinessID:  businessID,
			ClientID:    clientID,
			ServiceID:   serviceID,
			ServiceName: "Haircut",
			ClientPhone: "+79990000000",
			Interval:    domain.TimeInterval{Start: start, End: start.Add(30 * time.Minute)},
			Status:      domain.StatusConfirmed,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		})
		require.NoError(t, err)
		return created
	}

	notifier := &recordingNotifier{}
	uc := NewUseCase(
		availability,
		appointments,
		businesses,
		notifier,
		txmanager.NewTransactionManager(db, txmanager.WithSerializableLevel(sql.LevelDefault)),
		Settings{Location: time.UTC},
		log,
	)

	return &fixture{
		uc:           uc,
		db:           db,
		appointments: appointments,
		notifier:     notifier,
		monday:       monday,
		mine:         create(clientID, monday.Add(10*time.Hour)),
		neighbor:     create(neighborID, monday.Add(11*time.Hour)),
	}
}

func TestExecute_MovesAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ok, err := f.appointments.ClaimReminder(ctx, f.mine.ID, domain.ReminderDayBefore, "run-1", time.Now(), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, f.appointments.MarkReminderSent(ctx, f.mine.ID, domain.ReminderDayBefore, "run-1", time.Now()))

	newStart := f.monday.Add(14 * time.Hour)
	resp, err := f.uc.Execute(ctx, &Request{AppointmentID: f.mine.ID, UserID: clientID, NewStart: newStart})
	require.NoError(t, err)
	assert.True(t, resp.StartTime.Equal(newStart))
	assert.True(t, resp.EndTime.Equal(newStart.Add(30*time.Minute)))

	stored, err := f.appointments.GetByID(ctx, f.mine.ID)
	require.NoError(t, err)
	assert.True(t, stored.Interval.Start.Equal(newStart))
	assert.True(t, stored.Reminders.IsSent(domain.ReminderDayBefore))

	f.uc.Wait()
	sent := f.notifier.recipients()
	require.Len(t, sent, 1)
	assert.Equal(t, notification.Recipient{UserID: clientID, Phone: "+79990000000"}, sent[0])

	// старый интервал освобожден
	_, err = f.uc.Execute(ctx, &Request{AppointmentID: f.neighbor.ID, UserID: neighborID, NewStart: f.monday.Add(10 * time.Hour)})
	require.NoError(t, err)
}

func TestExecute_OwnSlotAndOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, &Request{AppointmentID: f.mine.ID, UserID: clientID, NewStart: f.mine.Interval.Start})
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, &Request{AppointmentID: f.mine.ID, UserID: ownerID, NewStart: f.monday.Add(9 * time.Hour)})
	require.NoError(t, err)
}

func TestExecute_NotificationFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("gateway down")

	_, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: f.mine.ID, UserID: clientID, NewStart: f.monday.Add(15 * time.Hour),
	})
	require.NoError(t, err)
	f.uc.Wait()
	assert.Len(t, f.notifier.recipients(), 1)
}

func TestExecute_NotificationDoesNotBlockResponse(t *testing.T) {
	f := newFixture(t)
	f.notifier.block = make(chan struct{})

	resp, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: f.mine.ID, UserID: clientID, NewStart: f.monday.Add(15 * time.Hour),
	})
	require.NoError(t, err)
	assert.True(t, resp.StartTime.Equal(f.monday.Add(15*time.Hour)))
	assert.Empty(t, f.notifier.recipients())

	close(f.notifier.block)
	f.uc.Wait()
	assert.Len(t, f.notifier.recipients(), 1)
}

func TestExecute_DeactivatedServiceCanBeRescheduled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.db.ExecContext(ctx, `UPDATE services SET active = ? WHERE id = ?`, false, f.mine.ServiceID)
	require.NoError(t, err)

	newStart := f.monday.Add(14 * time.Hour)
	resp, err := f.uc.Execute(ctx, &Request{AppointmentID: f.mine.ID, UserID: clientID, NewStart: newStart})
	require.NoError(t, err)
	assert.True(t, resp.EndTime.Equal(newStart.Add(30*time.Minute)))

	stored, err := f.appointments.GetByID(ctx, f.mine.ID)
	require.NoError(t, err)
	assert.True(t, stored.Interval.Start.Equal(newStart))
	f.uc.Wait()
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cancelled, err := f.appointments.CreateIfSlotFree(ctx, &domain.Appointment{
		BusinessID: f.mine.BusinessID,
		ClientID:   clientID,
		ServiceID:  f.mine.ServiceID,
		Interval:   domain.TimeInterval{Start: f.monday.Add(16 * time.Hour), End: f.monday.Add(16*time.Hour + 30*time.Minute)},
		Status:     domain.StatusConfirmed,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, f.appointments.Cancel(ctx, cancelled.ID, nil, time.Now()))

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "slot taken by neighbor",
			req:     &Request{AppointmentID: f.mine.ID, UserID: clientID, NewStart: f.neighbor.Interval.Start},
			wantErr: ErrSlotNoLongerAvailable,
		},
		{
			name:    "off grid",
			req:     &Request{AppointmentID: f.mine.ID, UserID: clientID, NewStart: f.monday.Add(10*time.Hour + 15*time.Minute)},
			wantErr: ErrInvalidSlot,
		},
		{
			name:    "closed day",
			req:     &Request{AppointmentID: f.mine.ID, UserID: clientID, NewStart: f.monday.AddDate(0, 0, 1).Add(10 * time.Hour)},
			wantErr: ErrInvalidSlot,
		},
		{
			name:    "stranger",
			req:     &Request{AppointmentID: f.mine.ID, UserID: strangerID, NewStart: f.monday.Add(14 * time.Hour)},
			wantErr: ErrAccessDenied,
		},
		{
			name:    "cancelled appointment",
			req:     &Request{AppointmentID: cancelled.ID, UserID: clientID, NewStart: f.monday.Add(14 * time.Hour)},
			wantErr: ErrCannotReschedule,
		},
		{
			name:    "not found",
			req:     &Request{AppointmentID: 999, UserID: clientID, NewStart: f.monday.Add(14 * time.Hour)},
			wantErr: ErrAppointmentNotFound,
		},
		{
			name:    "missing start",
			req:     &Request{AppointmentID: f.mine.ID, UserID: clientID},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	stored, err := f.appointments.GetByID(ctx, f.mine.ID)
	require.NoError(t, err)
	assert.True(t, stored.Interval.Start.Equal(f.mine.Interval.Start))
}
