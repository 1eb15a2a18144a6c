package book_slot

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	bookSlot "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_slot"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgInvalidStart          = "некорректное время начала, ожидается RFC3339"
	msgInvalidInput          = "некорректные данные для записи"
	msgBusinessNotFound      = "бизнес не найден"
	msgInvalidService        = "услуга недоступна для записи"
	msgInvalidSlot           = "выбранное время не является слотом расписания"
	msgSlotNoLongerAvailable = "слот уже занят, выберите другое время"
)

type Handler struct {
	useCase  BookSlotUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase BookSlotUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем ID клиента из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req BookSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /appointments - Invalid start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, bookSlot.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, bookSlot.ErrBusinessNotFound):
			h.logger.Warn("POST /appointments - Business not found: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, bookSlot.ErrInvalidService):
			h.logger.Warn("POST /appointments - Invalid service: business_id=%d, service_id=%d", req.BusinessID, req.ServiceID)
			handlers.RespondBadRequest(w, msgInvalidService)

		case errors.Is(err, bookSlot.ErrInvalidSlot):
			h.logger.Warn("POST /appointments - Invalid slot: business_id=%d, start=%s", req.BusinessID, req.Start)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, bookSlot.ErrSlotNoLongerAvailable):
			h.logger.Warn("POST /appointments - Slot no longer available: business_id=%d, start=%s", req.BusinessID, req.Start)
			handlers.RespondConflict(w, msgSlotNoLongerAvailable)

		case errors.Is(err, bookSlot.ErrStoreUnavailable):
			h.logger.Error("POST /appointments - Store unavailable: %v", err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /appointments - Failed to book slot: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: id=%d, business_id=%d, client_id=%d",
		result.ID, result.BusinessID, result.ClientID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result, h.location))
}
