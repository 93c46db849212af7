package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// SlotRecord a dated, capacity-limited appointment slot of a provider.
// Claimants keeps patient IDs in claim order.
type SlotRecord struct {
	ProviderID int64
	Generation int64
	Date       time.Time // calendar date, UTC midnight
	Time       types.TimeString
	SlotIndex  int // 1-based position within the date, ordered by time
	Capacity   int
	Claimants  []int64
}

// IsFull returns true if the slot has no free places
func (s *SlotRecord) IsFull() bool {
	return len(s.Claimants) >= s.Capacity
}

// AvailableSpots returns the number of free places
func (s *SlotRecord) AvailableSpots() int {
	if free := s.Capacity - len(s.Claimants); free > 0 {
		return free
	}
	return 0
}

// HasClaimant returns true if the patient already holds a place in the slot
func (s *SlotRecord) HasClaimant(patientID int64) bool {
	return s.ClaimantPosition(patientID) > 0
}

// ClaimantPosition returns the 1-based position of the patient, or 0 if absent
func (s *SlotRecord) ClaimantPosition(patientID int64) int {
	for i, id := range s.Claimants {
		if id == patientID {
			return i + 1
		}
	}
	return 0
}

// SameSlot reports whether both records address the same date and time
func (s *SlotRecord) SameSlot(date time.Time, t types.TimeString) bool {
	return s.Date.Equal(date) && s.Time == t
}
