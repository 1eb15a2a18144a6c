package book_slot

import (
	"time"

	bookSlot "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_slot"
)

// BookSlotRequest HTTP request model. Клиент берется из X-User-ID.
type BookSlotRequest struct {
	BusinessID  int64  `json:"businessId"`
	ServiceID   int64  `json:"serviceId"`
	Start       string `json:"start"` // RFC3339, например "2025-03-03T10:00:00+03:00"
	ClientName  string `json:"clientName,omitempty"`
	ClientPhone string `json:"clientPhone,omitempty"`
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
	CreatedAt   string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookSlotRequest) ToUseCaseRequest(clientID int64) (*bookSlot.Request, error) {
	start, err := time.Parse(time.RFC3339, r.Start)
	if err != nil {
		return nil, err
	}

	return &bookSlot.Request{
		BusinessID:  r.BusinessID,
		ClientID:    clientID,
		ServiceID:   r.ServiceID,
		Start:       start,
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookSlot.Response, loc *time.Location) *AppointmentResponse {
	return &AppointmentResponse{
		ID:          resp.ID,
		BusinessID:  resp.BusinessID,
		ClientID:    resp.ClientID,
		ServiceID:   resp.ServiceID,
		ServiceName: resp.ServiceName,
		StartTime:   resp.StartTime.In(loc).Format(time.RFC3339),
		EndTime:     resp.EndTime.In(loc).Format(time.RFC3339),
		Status:      resp.Status,
		CreatedAt:   resp.CreatedAt.In(loc).Format(time.RFC3339),
	}
}
