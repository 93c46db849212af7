package update_template

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	updateTemplate "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_template"
)

// UpdateTemplateRequest HTTP request model
type UpdateTemplateRequest struct {
	Entries        []schedule.TemplateEntryInput `json:"entries"`
	ClinicLocation *string                       `json:"clinicLocation,omitempty"`
	ConfirmDiscard bool                          `json:"confirmDiscard"`
}

// TemplateResponse HTTP response model
type TemplateResponse struct {
	ProviderID       int64                          `json:"providerId"`
	ClinicLocation   *string                        `json:"clinicLocation,omitempty"`
	Generation       int64                          `json:"generation"`
	Template         []updateTemplate.TemplateEntry `json:"template"`
	RegeneratedSlots []updateTemplate.Slot          `json:"regeneratedSlots"`
	CarriedClaims    int                            `json:"carriedClaims"`
	DiscardedClaims  int                            `json:"discardedClaims"`
}

// ConfirmationDetails детали ответа 409 при потере записей
type ConfirmationDetails struct {
	DiscardedClaims int `json:"discardedClaims"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateTemplateRequest) ToUseCaseRequest(principal domain.Principal, providerID int64) *updateTemplate.Request {
	entries := r.Entries
	if entries == nil {
		entries = []schedule.TemplateEntryInput{}
	}

	return &updateTemplate.Request{
		CallerID:       principal.UserID,
		CallerRole:     principal.Role,
		ProviderID:     providerID,
		Entries:        entries,
		ClinicLocation: r.ClinicLocation,
		ConfirmDiscard: r.ConfirmDiscard,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateTemplate.Response) *TemplateResponse {
	return &TemplateResponse{
		ProviderID:       resp.ProviderID,
		ClinicLocation:   resp.ClinicLocation,
		Generation:       resp.Generation,
		Template:         resp.Template,
		RegeneratedSlots: resp.RegeneratedSlots,
		CarriedClaims:    resp.CarriedClaims,
		DiscardedClaims:  resp.DiscardedClaims,
	}
}
