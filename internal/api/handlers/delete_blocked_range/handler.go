package delete_blocked_range

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	blockedRanges "github.com/m04kA/SMC-AppointmentService/internal/service/blocked_ranges"
)

const (
	msgInvalidBusinessID     = "некорректный ID бизнеса"
	msgInvalidBlockedRangeID = "некорректный ID блокировки"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgNotFound              = "блокировка не найдена"
	msgBusinessNotFound      = "бизнес не найден"
	msgForbidden             = "доступ запрещен"
)

type Handler struct {
	service BlockedRangeService
	logger  Logger
}

func NewHandler(service BlockedRangeService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/businesses/{businessId}/blocked-ranges/{blockedRangeId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathID(r, "businessId")
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/blocked-ranges/{id} - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	blockedRangeID, err := handlers.PathID(r, "blockedRangeId")
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/blocked-ranges/{id} - Invalid blocked range ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlockedRangeID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /businesses/{id}/blocked-ranges/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Delete(r.Context(), businessID, blockedRangeID, userID); err != nil {
		switch {
		case errors.Is(err, blockedRanges.ErrBlockedRangeNotFound):
			h.logger.Warn("DELETE /businesses/{id}/blocked-ranges/{id} - Blocked range not found: id=%d", blockedRangeID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, blockedRanges.ErrBusinessNotFound):
			h.logger.Warn("DELETE /businesses/{id}/blocked-ranges/{id} - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, blockedRanges.ErrAccessDenied):
			h.logger.Warn("DELETE /businesses/{id}/blocked-ranges/{id} - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /businesses/{id}/blocked-ranges/{id} - Failed to delete blocked range: id=%d, error=%v",
				blockedRangeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /businesses/{id}/blocked-ranges/{id} - Blocked range deleted successfully: id=%d", blockedRangeID)
	handlers.RespondNoContent(w)
}
