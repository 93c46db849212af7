package list_providers

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// Request модель запроса списка врачей
type Request struct {
	UserID int64
	Role   domain.Role
}

// Response модель ответа со списком врачей
type Response struct {
	Providers []Provider
}

// Provider врач с профилем и свободными слотами.
// Username и Avatar пустые, если профиль недоступен.
type Provider struct {
	ProviderID     int64
	Username       string
	Avatar         *string
	ClinicLocation *string
	Template       []TemplateEntry
	Slots          []Slot
	// ProfileDegraded профиль не получен из UserService
	ProfileDegraded bool
}

// TemplateEntry запись недельного шаблона
type TemplateEntry struct {
	Day             string `json:"day"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	CapacityPerSlot int    `json:"capacityPerSlot"`
}

// Slot свободный слот врача
type Slot struct {
	Date           string `json:"date"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	SlotIndex      int    `json:"slotIndex"`
	Capacity       int    `json:"capacity"`
	AvailableSpots int    `json:"availableSpots"`
}
