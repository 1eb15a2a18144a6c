package book_slot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	bookSlot "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_slot"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fakeUseCase struct {
	gotReq *bookSlot.Request
	resp   *bookSlot.Response
	err    error
}

func (f *fakeUseCase) Execute(_ context.Context, req *bookSlot.Request) (*bookSlot.Response, error) {
	f.gotReq = req
	return f.resp, f.err
}

func post(uc *fakeUseCase, userID string, body string) *httptest.ResponseRecorder {
	h := middleware.Auth(http.HandlerFunc(NewHandler(uc, time.UTC, logger.NewNop()).Handle))

	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
	if userID != "" {
		req.Header.Set(middleware.HeaderUserID, userID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const validBody = `{"businessId":7,"serviceId":3,"start":"2025-03-03T10:00:00+03:00"}`

func TestHandle_Created(t *testing.T) {
	start := time.Date(2025, 3, 3, 7, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &bookSlot.Response{
		ID:          11,
		BusinessID:  7,
		ClientID:    42,
		ServiceID:   3,
		ServiceName: "Стрижка",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		Status:      "confirmed",
		CreatedAt:   start.Add(-time.Hour),
	}}

	rec := post(uc, "42", validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(42), uc.gotReq.ClientID)
	assert.True(t, uc.gotReq.Start.Equal(start))

	var body AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(11), body.ID)
	assert.Equal(t, "2025-03-03T07:00:00Z", body.StartTime)
	assert.Equal(t, "confirmed", body.Status)
}

func TestHandle_RequiresUser(t *testing.T) {
	uc := &fakeUseCase{}
	rec := post(uc, "", validBody)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, uc.gotReq)
}

func TestHandle_BadBody(t *testing.T) {
	for _, body := range []string{
		``,
		`{"businessId":7`,
		`{"businessId":7,"serviceId":3,"start":"2025-03-03 10:00"}`,
		`{"businessId":7,"serviceId":3,"start":"2025-03-03T10:00:00Z","carId":1}`,
	} {
		uc := &fakeUseCase{}
		rec := post(uc, "42", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Nil(t, uc.gotReq, body)
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "invalid input", err: fmt.Errorf("%w: client id", bookSlot.ErrInvalidInput), status: http.StatusBadRequest},
		{name: "business not found", err: bookSlot.ErrBusinessNotFound, status: http.StatusNotFound},
		{name: "invalid service", err: bookSlot.ErrInvalidService, status: http.StatusBadRequest},
		{name: "invalid slot", err: bookSlot.ErrInvalidSlot, status: http.StatusBadRequest},
		{name: "slot taken", err: bookSlot.ErrSlotNoLongerAvailable, status: http.StatusConflict},
		{name: "store", err: bookSlot.ErrStoreUnavailable, status: http.StatusServiceUnavailable},
		{name: "unexpected", err: fmt.Errorf("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(&fakeUseCase{err: tt.err}, "42", validBody)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
