package book_slot

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookSlot "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_slot"
)

// BookSlotRequest HTTP request model
type BookSlotRequest struct {
	Date string `json:"date"` // "2025-03-10"
	Time string `json:"time"` // "09:00"
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID           string       `json:"id"`
	PatientID    int64        `json:"patientId"`
	ProviderID   int64        `json:"providerId"`
	Date         string       `json:"date"`
	StartTime    string       `json:"startTime"`
	EndTime      string       `json:"endTime"`
	ClaimOrder   int          `json:"claimOrder"`
	PatientOrder int          `json:"patientOrder"`
	Capacity     int          `json:"capacity"`
	Generation   int64        `json:"generation"`
	CreatedAt    string       `json:"createdAt"`
	Provider     ProviderInfo `json:"provider"`
}

// ProviderInfo данные врача в ответе на запись
type ProviderInfo struct {
	Username        string  `json:"username,omitempty"`
	Avatar          *string `json:"avatar,omitempty"`
	ClinicLocation  *string `json:"clinicLocation,omitempty"`
	ProfileDegraded bool    `json:"profileDegraded,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookSlotRequest) ToUseCaseRequest(principal domain.Principal, providerID int64) *bookSlot.Request {
	return &bookSlot.Request{
		PatientID:  principal.UserID,
		Role:       principal.Role,
		ProviderID: providerID,
		Date:       r.Date,
		Time:       r.Time,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookSlot.Response) *BookingResponse {
	return &BookingResponse{
		ID:           resp.BookingID,
		PatientID:    resp.PatientID,
		ProviderID:   resp.ProviderID,
		Date:         resp.Date.Format(domain.DateFormat),
		StartTime:    resp.StartTime.String(),
		EndTime:      resp.EndTime.String(),
		ClaimOrder:   resp.ClaimOrder,
		PatientOrder: resp.PatientOrder,
		Capacity:     resp.Capacity,
		Generation:   resp.Generation,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
		Provider: ProviderInfo{
			Username:        resp.Provider.Username,
			Avatar:          resp.Provider.Avatar,
			ClinicLocation:  resp.Provider.ClinicLocation,
			ProfileDegraded: resp.Provider.ProfileDegraded,
		},
	}
}
