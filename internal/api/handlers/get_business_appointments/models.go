package get_business_appointments

import (
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(r *http.Request, businessID, userID int64, loc *time.Location) (*models.GetBusinessAppointmentsRequest, error) {
	startDate, err := handlers.QueryDate(r, "startDate", loc)
	if err != nil {
		return nil, err
	}

	endDate, err := handlers.QueryDate(r, "endDate", loc)
	if err != nil {
		return nil, err
	}

	req := &models.GetBusinessAppointmentsRequest{
		UserID:     userID,
		BusinessID: businessID,
		StartDate:  startDate,
		EndDate:    endDate,
		Status:     handlers.QueryString(r, "status"),
	}

	if raw := r.URL.Query().Get("includeCancelled"); raw != "" {
		req.IncludeCancelled, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
	}

	return req, nil
}
