package reschedule_appointment

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	rescheduleAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_appointment"
)

const (
	msgInvalidAppointmentID  = "некорректный ID записи"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgInvalidStart          = "некорректное время начала, ожидается RFC3339"
	msgInvalidInput          = "некорректные данные для переноса"
	msgNotFound              = "запись не найдена"
	msgForbidden             = "доступ запрещен"
	msgCannotReschedule      = "запись не может быть перенесена"
	msgInvalidService        = "услуга недоступна для записи"
	msgInvalidSlot           = "выбранное время не является слотом расписания"
	msgSlotNoLongerAvailable = "слот уже занят, выберите другое время"
)

type Handler struct {
	useCase  RescheduleUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase RescheduleUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(appointmentID, userID)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleAppointment.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, rescheduleAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Appointment not found: id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleAppointment.ErrAccessDenied):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Access denied: id=%d, user_id=%d", appointmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, rescheduleAppointment.ErrCannotReschedule):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Cannot reschedule: id=%d", appointmentID)
			handlers.RespondConflict(w, msgCannotReschedule)

		case errors.Is(err, rescheduleAppointment.ErrInvalidService):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid service: id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgInvalidService)

		case errors.Is(err, rescheduleAppointment.ErrInvalidSlot):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid slot: id=%d, start=%s", appointmentID, req.Start)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, rescheduleAppointment.ErrSlotNoLongerAvailable):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Slot no longer available: id=%d, start=%s", appointmentID, req.Start)
			handlers.RespondConflict(w, msgSlotNoLongerAvailable)

		case errors.Is(err, rescheduleAppointment.ErrStoreUnavailable):
			h.logger.Error("PATCH /appointments/{id}/reschedule - Store unavailable: %v", err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("PATCH /appointments/{id}/reschedule - Failed to reschedule: id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/reschedule - Appointment rescheduled successfully: id=%d, start=%s",
		appointmentID, result.StartTime.Format(time.RFC3339))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result, h.location))
}
