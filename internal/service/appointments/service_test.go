package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

const (
	ownerID    int64 = 100
	clientID   int64 = 200
	strangerID int64 = 300
	businessID int64 = 1
)

var msk = time.FixedZone("MSK", 3*60*60)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeAppointments struct {
	items      map[int64]*domain.Appointment
	lastFilter domain.AppointmentsFilter
	listErr    error
	cancelErr  error
	cancelled  []int64
}

func (f *fakeAppointments) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return a, nil
}

func (f *fakeAppointments) List(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := make([]*domain.Appointment, 0, len(f.items))
	for id := int64(1); id <= int64(len(f.items)); id++ {
		if a, ok := f.items[id]; ok {
			if filter.Status != nil && a.Status != *filter.Status {
				continue
			}
			if filter.Status == nil && !filter.IncludeCancelled && !a.IsActive() {
				continue
			}
			result = append(result, a)
		}
	}
	return result, nil
}

func (f *fakeAppointments) Cancel(_ context.Context, id int64, reason *string, now time.Time) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	a := f.items[id]
	a.Status = domain.StatusCancelled
	a.CancellationReason = reason
	a.CancelledAt = &now
	f.cancelled = append(f.cancelled, id)
	return nil
}

type fakeBusinesses struct{ err error }

func (f *fakeBusinesses) GetByID(_ context.Context, id int64) (*domain.Business, error) {
	if f.err != nil {
		return nil, f.err
	}
	if id != businessID {
		return nil, businessRepo.ErrBusinessNotFound
	}
	return &domain.Business{ID: businessID, Name: "Барбершоп", OwnerID: ownerID}, nil
}

func appointmentAt(id int64, start time.Time, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:         id,
		BusinessID: businessID,
		ClientID:   clientID,
		ServiceID:  1,
		Interval:   domain.TimeInterval{Start: start, End: start.Add(time.Hour)},
		Status:     status,
	}
}

type testEnv struct {
	svc          *Service
	appointments *fakeAppointments
	businesses   *fakeBusinesses
	now          time.Time
}

func newTestEnv() *testEnv {
	now := time.Date(2025, time.March, 3, 12, 0, 0, 0, msk)
	appointments := &fakeAppointments{items: map[int64]*domain.Appointment{
		1: appointmentAt(1, now.Add(24*time.Hour), domain.StatusConfirmed),
		2: appointmentAt(2, now.Add(-3*time.Hour), domain.StatusConfirmed),
		3: appointmentAt(3, now.Add(48*time.Hour), domain.StatusCancelled),
		4: appointmentAt(4, now.Add(72*time.Hour), domain.StatusPending),
	}}
	businesses := &fakeBusinesses{}

	svc := NewService(appointments, businesses, msk, logger.NewNop())
	svc.timeProvider = fixedTime{now: now}

	return &testEnv{svc: svc, appointments: appointments, businesses: businesses, now: now}
}

func TestGetByID_Access(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	resp, err := env.svc.GetByID(ctx, 1, clientID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, msk, resp.StartTime.Location())

	_, err = env.svc.GetByID(ctx, 1, ownerID)
	require.NoError(t, err)

	_, err = env.svc.GetByID(ctx, 1, strangerID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = env.svc.GetByID(ctx, 42, clientID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetByID_DerivesCompleted(t *testing.T) {
	env := newTestEnv()

	resp, err := env.svc.GetByID(context.Background(), 2, clientID)
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
}

func TestGetByID_OwnerLookupFailure(t *testing.T) {
	env := newTestEnv()
	env.businesses.err = errors.New("connection reset")

	_, err := env.svc.GetByID(context.Background(), 1, strangerID)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestGetClientAppointments(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	resp, err := env.svc.GetClientAppointments(ctx, &models.GetClientAppointmentsRequest{UserID: clientID, ClientID: clientID})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 3)
	require.NotNil(t, env.appointments.lastFilter.ClientID)
	assert.Equal(t, clientID, *env.appointments.lastFilter.ClientID)

	resp, err = env.svc.GetClientAppointments(ctx, &models.GetClientAppointmentsRequest{
		UserID: clientID, ClientID: clientID, IncludeCancelled: true,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 4)

	_, err = env.svc.GetClientAppointments(ctx, &models.GetClientAppointmentsRequest{UserID: strangerID, ClientID: clientID})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetClientAppointments_StatusFilter(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	tests := []struct {
		status string
		ids    []int64
	}{
		{status: "completed", ids: []int64{2}},
		{status: "confirmed", ids: []int64{1}},
		{status: "pending", ids: []int64{4}},
		{status: "cancelled", ids: []int64{3}},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			resp, err := env.svc.GetClientAppointments(ctx, &models.GetClientAppointmentsRequest{
				UserID: clientID, ClientID: clientID, Status: ptr.Ptr(tt.status),
			})
			require.NoError(t, err)

			ids := make([]int64, 0, len(resp.Appointments))
			for _, a := range resp.Appointments {
				ids = append(ids, a.ID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}

	_, err := env.svc.GetClientAppointments(ctx, &models.GetClientAppointmentsRequest{
		UserID: clientID, ClientID: clientID, Status: ptr.Ptr("archived"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetBusinessAppointments(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	start := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)

	resp, err := env.svc.GetBusinessAppointments(ctx, &models.GetBusinessAppointmentsRequest{
		UserID: ownerID, BusinessID: businessID, StartDate: &start, EndDate: &end,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 3)

	filter := env.appointments.lastFilter
	require.NotNil(t, filter.From)
	require.NotNil(t, filter.To)
	assert.True(t, filter.From.Equal(time.Date(2025, time.March, 3, 0, 0, 0, 0, msk)))
	assert.True(t, filter.To.Equal(time.Date(2025, time.March, 10, 0, 0, 0, 0, msk)))

	_, err = env.svc.GetBusinessAppointments(ctx, &models.GetBusinessAppointmentsRequest{
		UserID: clientID, BusinessID: businessID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = env.svc.GetBusinessAppointments(ctx, &models.GetBusinessAppointmentsRequest{
		UserID: ownerID, BusinessID: 7,
	})
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestGetBusinessAppointments_InvalidPeriod(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	start := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	before := time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)
	tooFar := start.AddDate(0, 0, domain.MaxListRangeDays)

	tests := []struct {
		name  string
		start *time.Time
		end   *time.Time
	}{
		{name: "end before start", start: &start, end: &before},
		{name: "range too long", start: &start, end: &tooFar},
		{name: "missing end", start: &start},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.GetBusinessAppointments(ctx, &models.GetBusinessAppointmentsRequest{
				UserID: ownerID, BusinessID: businessID, StartDate: tt.start, EndDate: tt.end,
			})
			assert.ErrorIs(t, err, ErrInvalidTimeRange)
		})
	}
}

func TestCancel(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	err := env.svc.Cancel(ctx, 1, &models.CancelAppointmentRequest{UserID: clientID, CancellationReason: ptr.Ptr("заболел")})
	require.NoError(t, err)

	cancelled := env.appointments.items[1]
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.Equal(t, "заболел", ptr.Value(cancelled.CancellationReason))
	require.NotNil(t, cancelled.CancelledAt)
	assert.True(t, cancelled.CancelledAt.Equal(env.now))

	err = env.svc.Cancel(ctx, 4, &models.CancelAppointmentRequest{UserID: ownerID})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4}, env.appointments.cancelled)
}

func TestCancel_Errors(t *testing.T) {
	tooLong := string(make([]rune, domain.MaxCancellationReasonLength+1))

	tests := []struct {
		name    string
		id      int64
		req     *models.CancelAppointmentRequest
		repoErr error
		wantErr error
	}{
		{name: "stranger", id: 1, req: &models.CancelAppointmentRequest{UserID: strangerID}, wantErr: ErrAccessDenied},
		{name: "already cancelled", id: 3, req: &models.CancelAppointmentRequest{UserID: clientID}, wantErr: ErrCannotCancel},
		{name: "already over", id: 2, req: &models.CancelAppointmentRequest{UserID: clientID}, wantErr: ErrCannotCancel},
		{name: "not found", id: 42, req: &models.CancelAppointmentRequest{UserID: clientID}, wantErr: ErrAppointmentNotFound},
		{name: "reason too long", id: 1, req: &models.CancelAppointmentRequest{UserID: clientID, CancellationReason: &tooLong}, wantErr: ErrInvalidInput},
		{name: "concurrent cancel", id: 1, req: &models.CancelAppointmentRequest{UserID: clientID}, repoErr: appointmentRepo.ErrCannotCancel, wantErr: ErrCannotCancel},
		{name: "store failure", id: 1, req: &models.CancelAppointmentRequest{UserID: clientID}, repoErr: errors.New("disk full"), wantErr: ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			env.appointments.cancelErr = tt.repoErr

			err := env.svc.Cancel(context.Background(), tt.id, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
