package domain

// Default schedule values
const (
	DefaultSlotDurationMinutes = 50
	DefaultHorizonDays         = 35
	DefaultUTCOffsetMinutes    = 180 // UTC+3
)

// Business validation constants
const (
	MinCapacityPerSlot        = 1
	MaxCapacityPerSlot        = 100
	MaxClinicLocationLength   = 255
	MaxTemplateEntriesPerWeek = 7
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
