package get_appointment

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fakeService struct {
	gotID     int64
	gotUserID int64
	err       error
}

func (f *fakeService) GetByID(_ context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	f.gotID, f.gotUserID = id, userID
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{ID: id, Status: "confirmed"}, nil
}

func get(svc *fakeService, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/appointments/{appointmentId}", NewHandler(svc, logger.NewNop()).Handle)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set(middleware.HeaderUserID, "42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	rec := get(svc, "/appointments/5")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), svc.gotID)
	assert.Equal(t, int64(42), svc.gotUserID)
	assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		status int
	}{
		{name: "bad id", target: "/appointments/0", status: http.StatusBadRequest},
		{name: "not found", target: "/appointments/5", err: appointments.ErrAppointmentNotFound, status: http.StatusNotFound},
		{name: "stranger", target: "/appointments/5", err: appointments.ErrAccessDenied, status: http.StatusForbidden},
		{name: "internal", target: "/appointments/5", err: fmt.Errorf("%w: db", appointments.ErrInternal), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(&fakeService{err: tt.err}, tt.target)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
