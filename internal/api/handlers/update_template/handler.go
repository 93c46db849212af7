package update_template

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	updateTemplate "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_template"
)

const (
	msgUnauthorized         = "пользователь не авторизован"
	msgInvalidProviderID    = "некорректный ID врача"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidData          = "некорректные данные расписания"
	msgForbidden            = "доступ запрещен"
	msgProviderNotFound     = "врач не найден"
	msgConfirmationRequired = "изменение расписания отменит записи пациентов, требуется подтверждение"
)

type Handler struct {
	useCase UpdateTemplateUseCase
	logger  Logger
}

func NewHandler(useCase UpdateTemplateUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/providers/{providerId}/template
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	providerID, err := strconv.ParseInt(mux.Vars(r)["providerId"], 10, 64)
	if err != nil || providerID <= 0 {
		h.logger.Warn("PUT /providers/{id}/template - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	var req UpdateTemplateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /providers/{id}/template - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(principal, providerID))
	if err != nil {
		var confirmErr *updateTemplate.ConfirmationRequiredError
		var validationErr *schedule.ValidationError

		switch {
		case errors.Is(err, updateTemplate.ErrAccessDenied):
			h.logger.Warn("PUT /providers/{id}/template - Access denied: user_id=%d, role=%s",
				principal.UserID, principal.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.As(err, &validationErr):
			h.logger.Warn("PUT /providers/{id}/template - Invalid template: provider_id=%d, error=%v", providerID, err)
			handlers.RespondErrorWithDetails(w, http.StatusBadRequest, msgInvalidData, validationErr.Fields)

		case errors.Is(err, updateTemplate.ErrInvalidInput):
			h.logger.Warn("PUT /providers/{id}/template - Invalid data: provider_id=%d, error=%v", providerID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, updateTemplate.ErrProviderNotFound):
			h.logger.Warn("PUT /providers/{id}/template - Provider not found: provider_id=%d", providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.As(err, &confirmErr):
			h.logger.Warn("PUT /providers/{id}/template - Confirmation required: provider_id=%d, discarded=%d",
				providerID, confirmErr.DiscardedClaims)
			handlers.RespondErrorWithDetails(w, http.StatusConflict, msgConfirmationRequired,
				ConfirmationDetails{DiscardedClaims: confirmErr.DiscardedClaims})

		default:
			h.logger.Error("PUT /providers/{id}/template - Failed to update template: provider_id=%d, error=%v",
				providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /providers/{id}/template - Template updated successfully: provider_id=%d, generation=%d, slots=%d",
		providerID, result.Generation, len(result.RegeneratedSlots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
