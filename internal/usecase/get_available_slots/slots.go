package get_available_slots

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// toSlots конвертирует слоты журнала в модели ответа
func toSlots(records []*domain.SlotRecord, slotDuration int) []Slot {
	result := make([]Slot, 0, len(records))

	for _, r := range records {
		endTime, err := r.Time.AddMinutes(slotDuration)
		if err != nil {
			// слот за пределами суток
			continue
		}

		result = append(result, Slot{
			Date:            r.Date,
			StartTime:       r.Time,
			EndTime:         endTime,
			SlotIndex:       r.SlotIndex,
			DurationMinutes: slotDuration,
			AvailableSpots:  r.AvailableSpots(),
			TotalSpots:      r.Capacity,
		})
	}

	return result
}
