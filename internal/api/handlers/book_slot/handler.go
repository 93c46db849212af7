package book_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	bookSlot "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_slot"
)

const (
	msgUnauthorized       = "пользователь не авторизован"
	msgInvalidProviderID  = "некорректный ID врача"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgForbidden          = "записаться может только пациент"
	msgProviderNotFound   = "врач не найден"
	msgSlotNotFound       = "слот не найден"
	msgSlotNotAvailable   = "выбранный слот недоступен"
	msgAlreadyBooked      = "вы уже записаны в этот слот"
	msgInvalidDate        = "нельзя записаться на прошедшую дату"
	msgTooLateToBook      = "слот уже начался"
)

type Handler struct {
	useCase BookSlotUseCase
	logger  Logger
}

func NewHandler(useCase BookSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/providers/{providerId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	providerID, err := strconv.ParseInt(mux.Vars(r)["providerId"], 10, 64)
	if err != nil || providerID <= 0 {
		h.logger.Warn("POST /providers/{id}/bookings - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	var req BookSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /providers/{id}/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(principal, providerID))
	if err != nil {
		switch {
		case errors.Is(err, bookSlot.ErrAccessDenied):
			h.logger.Warn("POST /providers/{id}/bookings - Access denied: user_id=%d, role=%s",
				principal.UserID, principal.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookSlot.ErrInvalidInput):
			h.logger.Warn("POST /providers/{id}/bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, bookSlot.ErrInvalidDate):
			h.logger.Warn("POST /providers/{id}/bookings - Date in the past: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, bookSlot.ErrTooLateToBook):
			h.logger.Warn("POST /providers/{id}/bookings - Slot already started: date=%s, time=%s", req.Date, req.Time)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, bookSlot.ErrProviderNotFound):
			h.logger.Warn("POST /providers/{id}/bookings - Provider not found: provider_id=%d", providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, bookSlot.ErrSlotNotFound):
			h.logger.Warn("POST /providers/{id}/bookings - Slot not found: provider_id=%d, date=%s, time=%s",
				providerID, req.Date, req.Time)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, bookSlot.ErrSlotNotAvailable):
			h.logger.Warn("POST /providers/{id}/bookings - Slot full: provider_id=%d, date=%s, time=%s",
				providerID, req.Date, req.Time)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, bookSlot.ErrAlreadyBooked):
			h.logger.Warn("POST /providers/{id}/bookings - Already booked: user_id=%d, provider_id=%d",
				principal.UserID, providerID)
			handlers.RespondConflict(w, msgAlreadyBooked)

		default:
			h.logger.Error("POST /providers/{id}/bookings - Failed to book slot: user_id=%d, provider_id=%d, error=%v",
				principal.UserID, providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /providers/{id}/bookings - Slot booked successfully: booking_id=%s, user_id=%d, provider_id=%d",
		result.BookingID, principal.UserID, providerID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
