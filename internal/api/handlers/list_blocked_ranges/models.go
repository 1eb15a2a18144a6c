package list_blocked_ranges

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/service/blocked_ranges/models"
)

// ToServiceRequest формирует запрос к сервису, from и to в RFC3339 опциональны
func ToServiceRequest(r *http.Request, businessID, userID int64) (*models.ListBlockedRangesRequest, error) {
	req := &models.ListBlockedRangesRequest{
		UserID:     userID,
		BusinessID: businessID,
	}

	for name, dst := range map[string]**time.Time{"from": &req.From, "to": &req.To} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, err
		}
		*dst = &t
	}

	return req, nil
}
