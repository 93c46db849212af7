package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// BookingRecord a patient's view of one successful claim
type BookingRecord struct {
	ID         uuid.UUID
	PatientID  int64
	ProviderID int64
	Generation int64
	Date       time.Time
	Time       types.TimeString
	// ClaimOrder 1-based position among the slot's claimants
	ClaimOrder int
	// PatientOrder 1-based order among all claims on the provider's date at claim time
	PatientOrder int
	Capacity     int
	CreatedAt    time.Time

	// Stale is set when a template regeneration discarded the claimed slot.
	// A stale record no longer has a matching claimant in the provider's slots.
	Stale bool
}

// IsActive returns true if the claim behind the record still holds
func (b *BookingRecord) IsActive() bool {
	return !b.Stale
}

// IsUpcoming returns true if the booking date is not before today
func (b *BookingRecord) IsUpcoming(today time.Time) bool {
	return !b.Date.Before(today)
}
