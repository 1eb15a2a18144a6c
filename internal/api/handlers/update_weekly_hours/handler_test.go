package update_weekly_hours

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fakeService struct {
	gotReq *models.UpdateWeeklyHoursRequest
	err    error
}

func (f *fakeService) UpdateWeeklyHours(_ context.Context, req *models.UpdateWeeklyHoursRequest) (*models.WeeklyHoursResponse, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.WeeklyHoursResponse{BusinessID: req.BusinessID, Days: req.Days}, nil
}

func put(svc *fakeService, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/businesses/{businessId}/weekly-hours", NewHandler(svc, logger.NewNop()).Handle)

	req := httptest.NewRequest(http.MethodPut, "/businesses/7/weekly-hours", strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const mondayBody = `{"days":[{"dayOfWeek":1,"open":"09:00","close":"18:00","available":true}]}`

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	rec := put(svc, mondayBody)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), svc.gotReq.BusinessID)
	assert.Equal(t, int64(1), svc.gotReq.UserID)
	require.Len(t, svc.gotReq.Days, 1)
	assert.Equal(t, "09:00", svc.gotReq.Days[0].Open)
}

func TestHandle_IgnoresIdentityFromBody(t *testing.T) {
	svc := &fakeService{}
	rec := put(svc, `{"userId":99,"days":[]}`)

	// userId в теле запрещен: неизвестные поля отклоняются
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.gotReq)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, put(&fakeService{err: schedule.ErrInvalidInput}, mondayBody).Code)
	assert.Equal(t, http.StatusForbidden, put(&fakeService{err: schedule.ErrAccessDenied}, mondayBody).Code)
	assert.Equal(t, http.StatusNotFound, put(&fakeService{err: schedule.ErrBusinessNotFound}, mondayBody).Code)
	assert.Equal(t, http.StatusInternalServerError, put(&fakeService{err: schedule.ErrInternal}, mondayBody).Code)
}
