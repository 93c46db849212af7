package list_providers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	listProviders "github.com/m04kA/SMC-AppointmentService/internal/usecase/list_providers"
)

const (
	msgUnauthorized = "пользователь не авторизован"
	msgForbidden    = "доступ запрещен"
)

type Handler struct {
	useCase ListProvidersUseCase
	logger  Logger
}

func NewHandler(useCase ListProvidersUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &listProviders.Request{
		UserID: principal.UserID,
		Role:   principal.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, listProviders.ErrAccessDenied):
			h.logger.Warn("GET /providers - Access denied: user_id=%d, role=%s", principal.UserID, principal.Role)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /providers - Failed to list providers: user_id=%d, error=%v", principal.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers - Providers retrieved successfully: user_id=%d, count=%d",
		principal.UserID, len(result.Providers))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
