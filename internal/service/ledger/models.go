package ledger

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ClaimResult результат успешного занятия слота
type ClaimResult struct {
	Provider *domain.Provider
	Booking  *domain.BookingRecord
	Slot     *domain.SlotRecord
	EndTime  types.TimeString
}

// ReplaceRequest запрос на замену шаблона врача
type ReplaceRequest struct {
	ProviderID     int64
	Entries        []domain.WeeklyTemplateEntry
	ClinicLocation *string // nil - не менять
	ConfirmDiscard bool
	RangeStart     time.Time
	RangeEnd       time.Time
}

// ReplaceResult результат замены шаблона
type ReplaceResult struct {
	Provider *domain.Provider
	Slots    []*domain.SlotRecord
	// CarriedClaims записи, перенесенные в новое поколение с сохранением очереди
	CarriedClaims int
	// DiscardedClaims записи, потерянные при перегенерации (помечены stale)
	DiscardedClaims int
}

// claimRef место пациента в слоте
type claimRef struct {
	PatientID int64
	Date      time.Time
	Time      types.TimeString
	// Capacity вместимость слота нового поколения (для перенесенных записей)
	Capacity int
}
