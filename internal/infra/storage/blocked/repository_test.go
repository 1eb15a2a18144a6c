package blocked

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

var day = time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

func span(fromHour, toHour int) domain.TimeInterval {
	return domain.TimeInterval{
		Start: day.Add(time.Duration(fromHour) * time.Hour),
		End:   day.Add(time.Duration(toHour) * time.Hour),
	}
}

func TestRepository_CreateListDelete(t *testing.T) {
	db, qb := storagetest.NewSQLite(t)
	repo := NewRepository(db, qb)
	ctx := context.Background()
	businessID, _ := storagetest.SeedBusiness(t, db, 1, 30)
	otherBusinessID, _ := storagetest.SeedBusiness(t, db, 2, 30)

	lunch, err := repo.Create(ctx, &domain.BlockedRange{
		BusinessID: businessID,
		Interval:   span(12, 13),
		Reason:     ptr.Ptr("обед"),
		CreatedAt:  day,
	})
	require.NoError(t, err)
	require.NotZero(t, lunch.ID)

	_, err = repo.Create(ctx, &domain.BlockedRange{BusinessID: businessID, Interval: span(20, 22), CreatedAt: day})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.BlockedRange{BusinessID: otherBusinessID, Interval: span(12, 13), CreatedAt: day})
	require.NoError(t, err)

	got, err := repo.ListOverlapping(ctx, businessID, span(9, 18))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, lunch.ID, got[0].ID)
	assert.True(t, got[0].Interval.Equal(span(12, 13)))
	require.NotNil(t, got[0].Reason)
	assert.Equal(t, "обед", *got[0].Reason)

	// Касание границы не считается пересечением
	got, err = repo.ListOverlapping(ctx, businessID, span(13, 20))
	require.NoError(t, err)
	assert.Empty(t, got)

	// Чужой бизнес не может удалить блокировку
	assert.ErrorIs(t, repo.Delete(ctx, otherBusinessID, lunch.ID), ErrBlockedRangeNotFound)
	require.NoError(t, repo.Delete(ctx, businessID, lunch.ID))
	assert.ErrorIs(t, repo.Delete(ctx, businessID, lunch.ID), ErrBlockedRangeNotFound)

	_, err = repo.GetByID(ctx, lunch.ID)
	assert.ErrorIs(t, err, ErrBlockedRangeNotFound)
}
