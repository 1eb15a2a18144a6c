package reschedule_appointment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	rescheduleAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fakeUseCase struct {
	gotReq *rescheduleAppointment.Request
	err    error
}

func (f *fakeUseCase) Execute(_ context.Context, req *rescheduleAppointment.Request) (*rescheduleAppointment.Response, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &rescheduleAppointment.Response{
		ID:        req.AppointmentID,
		StartTime: req.NewStart,
		EndTime:   req.NewStart.Add(time.Hour),
		Status:    "confirmed",
	}, nil
}

func patch(uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/appointments/{appointmentId}/reschedule", NewHandler(uc, time.UTC, logger.NewNop()).Handle)

	req := httptest.NewRequest(http.MethodPatch, "/appointments/5/reschedule", strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	uc := &fakeUseCase{}
	rec := patch(uc, `{"start":"2025-03-03T12:00:00+03:00"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), uc.gotReq.AppointmentID)
	assert.Equal(t, int64(42), uc.gotReq.UserID)
	assert.Contains(t, rec.Body.String(), `"startTime":"2025-03-03T09:00:00Z"`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "no body", body: "", status: http.StatusBadRequest},
		{name: "bad start", body: `{"start":"tomorrow"}`, status: http.StatusBadRequest},
		{name: "not found", err: rescheduleAppointment.ErrAppointmentNotFound, status: http.StatusNotFound},
		{name: "stranger", err: rescheduleAppointment.ErrAccessDenied, status: http.StatusForbidden},
		{name: "cancelled", err: rescheduleAppointment.ErrCannotReschedule, status: http.StatusConflict},
		{name: "off grid", err: rescheduleAppointment.ErrInvalidSlot, status: http.StatusBadRequest},
		{name: "taken", err: rescheduleAppointment.ErrSlotNoLongerAvailable, status: http.StatusConflict},
		{name: "store", err: rescheduleAppointment.ErrStoreUnavailable, status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := tt.body
			if body == "" && tt.err != nil {
				body = `{"start":"2025-03-03T12:00:00+03:00"}`
			}
			rec := patch(&fakeUseCase{err: tt.err}, body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
