package cancel_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
)

const (
	msgUnauthorized       = "пользователь не авторизован"
	msgInvalidProviderID  = "некорректный ID врача"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgForbidden          = "отменить запись может только пациент"
	msgProviderNotFound   = "врач не найден"
	msgSlotNotFound       = "слот не найден"
	msgNotFound           = "запись не найдена"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/providers/{providerId}/bookings/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	providerID, err := strconv.ParseInt(mux.Vars(r)["providerId"], 10, 64)
	if err != nil || providerID <= 0 {
		h.logger.Warn("PATCH /providers/{id}/bookings/cancel - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /providers/{id}/bookings/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(principal, providerID)
	if err != nil {
		h.logger.Warn("PATCH /providers/{id}/bookings/cancel - Invalid date or time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInput)
		return
	}

	err = h.service.Cancel(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /providers/{id}/bookings/cancel - Access denied: user_id=%d, role=%s",
				principal.UserID, principal.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /providers/{id}/bookings/cancel - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, bookings.ErrProviderNotFound):
			h.logger.Warn("PATCH /providers/{id}/bookings/cancel - Provider not found: provider_id=%d", providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, bookings.ErrSlotNotFound):
			h.logger.Warn("PATCH /providers/{id}/bookings/cancel - Slot not found: provider_id=%d, date=%s, time=%s",
				providerID, req.Date, req.Time)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, bookings.ErrClaimNotFound):
			h.logger.Warn("PATCH /providers/{id}/bookings/cancel - Booking not found: user_id=%d, provider_id=%d",
				principal.UserID, providerID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("PATCH /providers/{id}/bookings/cancel - Failed to cancel booking: user_id=%d, provider_id=%d, error=%v",
				principal.UserID, providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /providers/{id}/bookings/cancel - Booking cancelled successfully: user_id=%d, provider_id=%d",
		principal.UserID, providerID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
