package list_providers

import (
	listProviders "github.com/m04kA/SMC-AppointmentService/internal/usecase/list_providers"
)

// ProvidersResponse HTTP response model
type ProvidersResponse struct {
	Providers []ProviderResponse `json:"providers"`
	Total     int                `json:"total"`
}

// ProviderResponse врач с шаблоном и свободными слотами
type ProviderResponse struct {
	ProviderID      int64                         `json:"providerId"`
	Username        string                        `json:"username,omitempty"`
	Avatar          *string                       `json:"avatar,omitempty"`
	ClinicLocation  *string                       `json:"clinicLocation,omitempty"`
	Template        []listProviders.TemplateEntry `json:"template"`
	Slots           []listProviders.Slot          `json:"slots"`
	ProfileDegraded bool                          `json:"profileDegraded,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *listProviders.Response) *ProvidersResponse {
	providers := make([]ProviderResponse, len(resp.Providers))
	for i, p := range resp.Providers {
		providers[i] = ProviderResponse{
			ProviderID:      p.ProviderID,
			Username:        p.Username,
			Avatar:          p.Avatar,
			ClinicLocation:  p.ClinicLocation,
			Template:        p.Template,
			Slots:           p.Slots,
			ProfileDegraded: p.ProfileDegraded,
		}
	}

	return &ProvidersResponse{
		Providers: providers,
		Total:     len(providers),
	}
}
