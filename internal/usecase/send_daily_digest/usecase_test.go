package send_daily_digest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/notification"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
)

var msk = time.FixedZone("MSK", 3*60*60)

type fakeAppointments struct {
	items  []*domain.Appointment
	err    error
	filter domain.AppointmentsFilter
}

func (f *fakeAppointments) List(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	f.filter = filter
	return f.items, f.err
}

type fakeBusinesses struct {
	businesses map[int64]*domain.Business
}

func (f *fakeBusinesses) GetByID(_ context.Context, id int64) (*domain.Business, error) {
	b, ok := f.businesses[id]
	if !ok {
		return nil, fmt.Errorf("business %d: connection refused", id)
	}
	return b, nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	sent  map[int64]string
	fails map[int64]error
}

func (n *recordingNotifier) Send(_ context.Context, to notification.Recipient, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err, ok := n.fails[to.UserID]; ok {
		return err
	}
	n.sent[to.UserID] = body
	return nil
}

type fakeMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *fakeMetrics) ObserveDigest(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[outcome]++
}

func appointmentAt(id, businessID int64, start time.Time, client string) *domain.Appointment {
	return &domain.Appointment{
		ID:          id,
		BusinessID:  businessID,
		ClientID:    id * 10,
		ClientName:  client,
		ServiceName: "Стрижка",
		Interval:    domain.TimeInterval{Start: start, End: start.Add(30 * time.Minute)},
		Status:      domain.StatusConfirmed,
	}
}

type fixture struct {
	uc           *UseCase
	appointments *fakeAppointments
	notifier     *recordingNotifier
	metrics      *fakeMetrics
}

func newFixture() *fixture {
	tomorrow := time.Date(2025, time.March, 4, 0, 0, 0, 0, msk)

	f := &fixture{
		appointments: &fakeAppointments{items: []*domain.Appointment{
			appointmentAt(1, 1, tomorrow.Add(9*time.Hour), "Анна"),
			appointmentAt(2, 2, tomorrow.Add(10*time.Hour), "Борис"),
			appointmentAt(3, 1, tomorrow.Add(11*time.Hour), ""),
			appointmentAt(4, 3, tomorrow.Add(12*time.Hour), "Вера"),
		}},
		notifier: &recordingNotifier{sent: map[int64]string{}, fails: map[int64]error{}},
		metrics:  &fakeMetrics{outcomes: map[string]int{}},
	}

	businesses := &fakeBusinesses{businesses: map[int64]*domain.Business{
		1: {ID: 1, Name: "Барбершоп", OwnerID: 100, OwnerPhone: "+79990000001"},
		2: {ID: 2, Name: "Маникюр", OwnerID: 200, OwnerPhone: "+79990000002"},
		3: {ID: 3, Name: "Массаж", OwnerID: 300},
	}}

	f.uc = NewUseCase(f.appointments, businesses, f.notifier, f.metrics, Settings{Location: msk}, logger.NewNop())
	return f
}

func TestExecute_OneDigestPerOwner(t *testing.T) {
	f := newFixture()
	now := time.Date(2025, time.March, 3, 20, 0, 0, 0, msk)

	result := f.uc.Execute(context.Background(), now)

	assert.Equal(t, 3, result.Businesses)
	assert.Equal(t, 3, result.Sent)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, f.notifier.sent, 3)

	body := f.notifier.sent[100]
	assert.True(t, strings.HasPrefix(body, "Барбершоп: записи на 04.03.2025 (2)"), body)
	assert.Contains(t, body, "09:00-09:30 Стрижка, Анна")
	assert.Contains(t, body, "11:00-11:30 Стрижка, клиент #30")
	assert.Contains(t, f.notifier.sent[200], "Борис")
	assert.Equal(t, 3, f.metrics.outcomes[metrics.OutcomeSuccess])
}

func TestExecute_NextCalendarDayInLocation(t *testing.T) {
	f := newFixture()
	// 22:30 UTC 3 марта это уже 4 марта в Москве
	now := time.Date(2025, time.March, 3, 22, 30, 0, 0, time.UTC)

	result := f.uc.Execute(context.Background(), now)

	wantFrom := time.Date(2025, time.March, 5, 0, 0, 0, 0, msk)
	assert.True(t, result.Day.Equal(wantFrom))
	require.NotNil(t, f.appointments.filter.From)
	require.NotNil(t, f.appointments.filter.To)
	assert.True(t, f.appointments.filter.From.Equal(wantFrom))
	assert.True(t, f.appointments.filter.To.Equal(wantFrom.AddDate(0, 0, 1)))
	assert.False(t, f.appointments.filter.IncludeCancelled)
}

func TestExecute_FailuresDoNotStopOthers(t *testing.T) {
	f := newFixture()
	f.notifier.fails[100] = errors.New("gateway timeout")
	f.notifier.fails[300] = notification.ErrNoDestination
	f.appointments.items = append(f.appointments.items,
		appointmentAt(5, 99, time.Date(2025, time.March, 4, 15, 0, 0, 0, msk), "Глеб"))

	result := f.uc.Execute(context.Background(), time.Date(2025, time.March, 3, 20, 0, 0, 0, msk))

	assert.Equal(t, 4, result.Businesses)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 2, result.Failed)
	assert.Contains(t, f.notifier.sent, int64(200))

	assert.Equal(t, 1, f.metrics.outcomes[metrics.OutcomeSuccess])
	assert.Equal(t, 1, f.metrics.outcomes[metrics.OutcomeSendFailure])
	assert.Equal(t, 1, f.metrics.outcomes[metrics.OutcomeSkipped])
	assert.Equal(t, 1, f.metrics.outcomes[metrics.OutcomeError])
}

func TestExecute_ListFailure(t *testing.T) {
	f := newFixture()
	f.appointments.err = errors.New("timeout")

	result := f.uc.Execute(context.Background(), time.Date(2025, time.March, 3, 20, 0, 0, 0, msk))

	assert.Equal(t, 0, result.Businesses)
	assert.Empty(t, f.notifier.sent)
	assert.Equal(t, 1, f.metrics.outcomes[metrics.OutcomeError])
}

func TestExecute_NothingScheduled(t *testing.T) {
	f := newFixture()
	f.appointments.items = nil

	result := f.uc.Execute(context.Background(), time.Date(2025, time.March, 3, 20, 0, 0, 0, msk))

	assert.Equal(t, 0, result.Businesses)
	assert.Empty(t, f.notifier.sent)
}
