package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	d, err := ParseWeekday("Wednesday")
	require.NoError(t, err)
	assert.Equal(t, Wednesday, d)

	for _, bad := range []string{"", "monday", "Mon", "Funday"} {
		_, err := ParseWeekday(bad)
		assert.Error(t, err, bad)
	}
}

func TestWeekdayOf(t *testing.T) {
	assert.Equal(t, Monday, WeekdayOf(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Sunday, WeekdayOf(time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)))
}

func TestSlotRecord(t *testing.T) {
	s := &SlotRecord{Capacity: 2, Claimants: []int64{7}}
	assert.False(t, s.IsFull())
	assert.Equal(t, 1, s.AvailableSpots())
	assert.Equal(t, 1, s.ClaimantPosition(7))
	assert.Equal(t, 0, s.ClaimantPosition(8))

	s.Claimants = append(s.Claimants, 8)
	assert.True(t, s.IsFull())
	assert.Equal(t, 0, s.AvailableSpots())
	assert.True(t, s.HasClaimant(8))
}

func TestBookingRecord_IsUpcoming(t *testing.T) {
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	b := &BookingRecord{Date: today}
	assert.True(t, b.IsUpcoming(today))
	assert.True(t, b.IsActive())

	b.Date = today.AddDate(0, 0, -1)
	b.Stale = true
	assert.False(t, b.IsUpcoming(today))
	assert.False(t, b.IsActive())
}

func TestRole(t *testing.T) {
	assert.True(t, RoleAdmin.IsViewer())
	assert.True(t, RolePatient.IsValid())
	assert.False(t, Role("guest").IsValid())
	assert.False(t, Role("guest").IsViewer())
}

func TestProvider_EntryFor(t *testing.T) {
	p := &Provider{Template: []WeeklyTemplateEntry{{Day: Friday, StartTime: "09:00", EndTime: "12:00", CapacityPerSlot: 1}}}
	e, ok := p.EntryFor(Friday)
	assert.True(t, ok)
	assert.Equal(t, 1, e.CapacityPerSlot)

	_, ok = p.EntryFor(Monday)
	assert.False(t, ok)
	assert.True(t, p.HasTemplate())
}
