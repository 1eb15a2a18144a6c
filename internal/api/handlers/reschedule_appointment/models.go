package reschedule_appointment

import (
	"time"

	rescheduleAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_appointment"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	Start string `json:"start"` // RFC3339
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID          int64  `json:"id"`
	BusinessID  int64  `json:"businessId"`
	ClientID    int64  `json:"clientId"`
	ServiceID   int64  `json:"serviceId"`
	ServiceName string `json:"serviceName"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Status      string `json:"status"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleRequest) ToUseCaseRequest(appointmentID, userID int64) (*rescheduleAppointment.Request, error) {
	start, err := time.Parse(time.RFC3339, r.Start)
	if err != nil {
		return nil, err
	}

	return &rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		UserID:        userID,
		NewStart:      start,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleAppointment.Response, loc *time.Location) *AppointmentResponse {
	return &AppointmentResponse{
		ID:          resp.ID,
		BusinessID:  resp.BusinessID,
		ClientID:    resp.ClientID,
		ServiceID:   resp.ServiceID,
		ServiceName: resp.ServiceName,
		StartTime:   resp.StartTime.In(loc).Format(time.RFC3339),
		EndTime:     resp.EndTime.In(loc).Format(time.RFC3339),
		Status:      resp.Status,
	}
}
