package blocked_ranges

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blockedRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/blocked"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-AppointmentService/internal/service/blocked_ranges/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

const ownerID int64 = 3

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var now = time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, int64) {
	t.Helper()

	db, qb := storagetest.NewSQLite(t)
	businessID, _ := storagetest.SeedBusiness(t, db, ownerID, 30)

	svc := NewService(blockedRepo.NewRepository(db, qb), businessRepo.NewRepository(db, qb), time.UTC, logger.NewNop())
	svc.timeProvider = fixedTime{now: now}

	return svc, businessID
}

func TestCreateListDelete(t *testing.T) {
	svc, businessID := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.CreateBlockedRangeRequest{
		UserID:     ownerID,
		BusinessID: businessID,
		Start:      now.Add(4 * time.Hour),
		End:        now.Add(5 * time.Hour),
		Reason:     ptr.Ptr("обучение"),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "обучение", ptr.Value(created.Reason))
	assert.True(t, created.CreatedAt.Equal(now))

	list, err := svc.List(ctx, &models.ListBlockedRangesRequest{UserID: ownerID, BusinessID: businessID})
	require.NoError(t, err)
	require.Len(t, list.BlockedRanges, 1)
	assert.Equal(t, created.ID, list.BlockedRanges[0].ID)

	// период до блокировки
	list, err = svc.List(ctx, &models.ListBlockedRangesRequest{
		UserID: ownerID, BusinessID: businessID, From: ptr.Ptr(now), To: ptr.Ptr(now.Add(4 * time.Hour)),
	})
	require.NoError(t, err)
	assert.Empty(t, list.BlockedRanges)

	require.NoError(t, svc.Delete(ctx, businessID, created.ID, ownerID))
	assert.ErrorIs(t, svc.Delete(ctx, businessID, created.ID, ownerID), ErrBlockedRangeNotFound)
}

func TestCreate_Errors(t *testing.T) {
	svc, businessID := newTestService(t)
	ctx := context.Background()
	longReason := strings.Repeat("я", 501)

	tests := []struct {
		name    string
		req     *models.CreateBlockedRangeRequest
		wantErr error
	}{
		{
			name:    "end before start",
			req:     &models.CreateBlockedRangeRequest{UserID: ownerID, BusinessID: businessID, Start: now.Add(time.Hour), End: now},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing start",
			req:     &models.CreateBlockedRangeRequest{UserID: ownerID, BusinessID: businessID, End: now},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "reason too long",
			req:     &models.CreateBlockedRangeRequest{UserID: ownerID, BusinessID: businessID, Start: now, End: now.Add(time.Hour), Reason: &longReason},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "not owner",
			req:     &models.CreateBlockedRangeRequest{UserID: 99, BusinessID: businessID, Start: now, End: now.Add(time.Hour)},
			wantErr: ErrAccessDenied,
		},
		{
			name:    "unknown business",
			req:     &models.CreateBlockedRangeRequest{UserID: ownerID, BusinessID: 404, Start: now, End: now.Add(time.Hour)},
			wantErr: ErrBusinessNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDelete_OtherBusiness(t *testing.T) {
	svc, businessID := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.CreateBlockedRangeRequest{
		UserID: ownerID, BusinessID: businessID, Start: now, End: now.Add(time.Hour),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, businessID, created.ID, 99), ErrAccessDenied)
	assert.ErrorIs(t, svc.Delete(ctx, 404, created.ID, ownerID), ErrBusinessNotFound)
}
