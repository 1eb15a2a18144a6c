package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fakeRepo struct {
	business *domain.Business
	service  *domain.Service
	err      error
	calls    int
}

func (f *fakeRepo) GetByID(_ context.Context, _ int64) (*domain.Business, error) {
	f.calls++
	return f.business, f.err
}

func (f *fakeRepo) GetService(_ context.Context, _ int64) (*domain.Service, error) {
	f.calls++
	return f.service, f.err
}

// Порт 1 закрыт, поэтому каждая операция Redis завершается ошибкой соединения
func unreachableRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCatalog_FallsBackToRepositoryWhenRedisDown(t *testing.T) {
	repo := &fakeRepo{
		business: &domain.Business{ID: 1, Name: "Salon"},
		service:  &domain.Service{ID: 2, BusinessID: 1, DurationMinutes: 30, Active: true},
	}
	c := New(unreachableRedis(t), repo, time.Minute, logger.NewNop())
	ctx := context.Background()

	b, err := c.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Salon", b.Name)

	s, err := c.GetService(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 30, s.DurationMinutes)
	assert.Equal(t, 2, repo.calls)

	assert.Error(t, c.InvalidateBusiness(ctx, 1))
}

func TestCatalog_PropagatesRepositoryErrors(t *testing.T) {
	repoErr := errors.New("not found")
	c := New(unreachableRedis(t), &fakeRepo{err: repoErr}, time.Minute, logger.NewNop())

	_, err := c.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, repoErr)
}

func TestCatalog_BusinessEncodingKeepsWeeklyHours(t *testing.T) {
	original := domain.Business{
		ID:      1,
		OwnerID: 9,
		WeeklyHours: domain.WeeklyHours{
			time.Monday: {DayOfWeek: time.Monday, Open: "09:00", Close: "18:00", Available: true},
		},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded domain.Business
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "appointments:catalog:business:5", businessKey(5))
	assert.Equal(t, "appointments:catalog:service:6", serviceKey(6))
}
