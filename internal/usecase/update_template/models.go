package update_template

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
)

// Request модель запроса на замену недельного шаблона врача
type Request struct {
	CallerID       int64
	CallerRole     domain.Role
	ProviderID     int64
	Entries        []schedule.TemplateEntryInput
	ClinicLocation *string // nil - не менять
	ConfirmDiscard bool
}

// Response модель ответа с обновленным врачом и новыми слотами
type Response struct {
	ProviderID       int64
	ClinicLocation   *string
	Generation       int64
	Template         []TemplateEntry
	RegeneratedSlots []Slot
	CarriedClaims    int
	DiscardedClaims  int
}

// TemplateEntry запись недельного шаблона
type TemplateEntry struct {
	Day             string `json:"day"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	CapacityPerSlot int    `json:"capacityPerSlot"`
}

// Slot сгенерированный слот
type Slot struct {
	Date           string `json:"date"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	SlotIndex      int    `json:"slotIndex"`
	Capacity       int    `json:"capacity"`
	AvailableSpots int    `json:"availableSpots"`
}
