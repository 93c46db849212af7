package get_available_slots

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ProviderID int64           `json:"providerId"`
	AsOf       string          `json:"asOf"`
	Slots      []AvailableSlot `json:"slots"`
	Total      int             `json:"total"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	SlotIndex       int    `json:"slotIndex"`
	DurationMinutes int    `json:"durationMinutes"`
	AvailableSpots  int    `json:"availableSpots"`
	TotalSpots      int    `json:"totalSpots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			Date:            slot.Date.Format(domain.DateFormat),
			StartTime:       slot.StartTime.String(),
			EndTime:         slot.EndTime.String(),
			SlotIndex:       slot.SlotIndex,
			DurationMinutes: slot.DurationMinutes,
			AvailableSpots:  slot.AvailableSpots,
			TotalSpots:      slot.TotalSpots,
		}
	}

	return &AvailableSlotsResponse{
		ProviderID: resp.ProviderID,
		AsOf:       resp.AsOf.Format(domain.DateFormat),
		Slots:      slots,
		Total:      len(slots),
	}
}

// ToUseCaseRequest создает запрос use case из пути и query параметров
func ToUseCaseRequest(principal domain.Principal, providerID int64, asOf string) *getAvailableSlots.Request {
	return &getAvailableSlots.Request{
		UserID:     principal.UserID,
		Role:       principal.Role,
		ProviderID: providerID,
		AsOf:       asOf,
	}
}
