package business

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func weekdayHours(open, close string) domain.WeeklyHours {
	hours := make(domain.WeeklyHours)
	for day := time.Monday; day <= time.Friday; day++ {
		hours[day] = domain.DayHours{
			DayOfWeek: day,
			Open:      types.TimeString(open),
			Close:     types.TimeString(close),
			Available: true,
		}
	}
	return hours
}

func TestRepository_CreateAndGet(t *testing.T) {
	db, qb := storagetest.NewSQLite(t)
	repo := NewRepository(db, qb)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Business{
		Name:        "Salon",
		OwnerID:     7,
		OwnerPhone:  "+15550007",
		WeeklyHours: weekdayHours("09:00", "18:00"),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Salon", got.Name)
	assert.Equal(t, int64(7), got.OwnerID)
	assert.Equal(t, "+15550007", got.OwnerPhone)
	require.Len(t, got.WeeklyHours, 5)

	monday := got.WeeklyHours[time.Monday]
	assert.Equal(t, types.TimeString("09:00"), monday.Open)
	assert.Equal(t, types.TimeString("18:00"), monday.Close)
	assert.True(t, monday.Available)

	_, ok := got.WeeklyHours[time.Sunday]
	assert.False(t, ok)
}

func TestRepository_ReplaceWeeklyHours(t *testing.T) {
	db, qb := storagetest.NewSQLite(t)
	repo := NewRepository(db, qb)
	ctx := context.Background()
	businessID, _ := storagetest.SeedBusiness(t, db, 1, 30)

	require.NoError(t, repo.ReplaceWeeklyHours(ctx, businessID, weekdayHours("09:00", "18:00")))

	replacement := domain.WeeklyHours{
		time.Saturday: {DayOfWeek: time.Saturday, Open: "10:00", Close: "14:00", Available: true},
		time.Sunday:   {DayOfWeek: time.Sunday, Open: "10:00", Close: "12:00", Available: false},
	}
	require.NoError(t, repo.ReplaceWeeklyHours(ctx, businessID, replacement))

	hours, err := repo.GetWeeklyHours(ctx, businessID)
	require.NoError(t, err)
	assert.Equal(t, replacement, hours)

	require.NoError(t, repo.ReplaceWeeklyHours(ctx, businessID, nil))
	hours, err = repo.GetWeeklyHours(ctx, businessID)
	require.NoError(t, err)
	assert.Empty(t, hours)
}

func TestRepository_Services(t *testing.T) {
	db, qb := storagetest.NewSQLite(t)
	repo := NewRepository(db, qb)
	ctx := context.Background()
	businessID, seededID := storagetest.SeedBusiness(t, db, 1, 45)

	seeded, err := repo.GetService(ctx, seededID)
	require.NoError(t, err)
	assert.Equal(t, businessID, seeded.BusinessID)
	assert.Equal(t, 45, seeded.DurationMinutes)
	assert.True(t, seeded.Active)

	created, err := repo.CreateService(ctx, &domain.Service{
		BusinessID:      businessID,
		Name:            "Shave",
		DurationMinutes: 20,
		Active:          false,
	})
	require.NoError(t, err)

	got, err := repo.GetService(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shave", got.Name)
	assert.False(t, got.Active)
}

func TestRepository_NotFound(t *testing.T) {
	db, qb := storagetest.NewSQLite(t)
	repo := NewRepository(db, qb)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 404)
	assert.ErrorIs(t, err, ErrBusinessNotFound)

	_, err = repo.GetService(ctx, 404)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}
