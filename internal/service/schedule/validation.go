package schedule

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// TemplateEntryInput необработанная запись шаблона в том виде, как она пришла от клиента.
// Указатели позволяют отличить отсутствующее поле от пустого значения.
type TemplateEntryInput struct {
	Day             *string `json:"day"`
	StartTime       *string `json:"startTime"`
	EndTime         *string `json:"endTime"`
	CapacityPerSlot *int    `json:"capacityPerSlot"`
}

// Validate проверяет записи шаблона и возвращает их в доменном виде.
// Пустой шаблон допустим: у врача нет рабочих дней.
func Validate(inputs []TemplateEntryInput) ([]domain.WeeklyTemplateEntry, error) {
	verr := &ValidationError{}
	entries := make([]domain.WeeklyTemplateEntry, 0, len(inputs))
	seen := make(map[domain.Weekday]int, len(inputs))

	for i, in := range inputs {
		entry, ok := validateEntry(i, in, verr)
		if !ok {
			continue
		}
		if first, dup := seen[entry.Day]; dup {
			verr.add(i, "day", fmt.Sprintf("duplicate weekday %s (already defined at index %d)", entry.Day, first))
			continue
		}
		seen[entry.Day] = i
		entries = append(entries, entry)
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return entries, nil
}

func validateEntry(i int, in TemplateEntryInput, verr *ValidationError) (domain.WeeklyTemplateEntry, bool) {
	before := len(verr.Fields)
	var entry domain.WeeklyTemplateEntry

	if in.Day == nil || strings.TrimSpace(*in.Day) == "" {
		verr.add(i, "day", "is required")
	} else if day, err := domain.ParseWeekday(*in.Day); err != nil {
		verr.add(i, "day", err.Error())
	} else {
		entry.Day = day
	}

	entry.StartTime = parseTime(i, "startTime", in.StartTime, verr)
	entry.EndTime = parseTime(i, "endTime", in.EndTime, verr)

	if in.CapacityPerSlot == nil {
		verr.add(i, "capacityPerSlot", "is required")
	} else if *in.CapacityPerSlot < domain.MinCapacityPerSlot || *in.CapacityPerSlot > domain.MaxCapacityPerSlot {
		verr.add(i, "capacityPerSlot", fmt.Sprintf("must be between %d and %d",
			domain.MinCapacityPerSlot, domain.MaxCapacityPerSlot))
	} else {
		entry.CapacityPerSlot = *in.CapacityPerSlot
	}

	if !entry.StartTime.IsZero() && !entry.EndTime.IsZero() && !entry.EndTime.IsAfter(entry.StartTime) {
		verr.add(i, "endTime", "must be after startTime")
	}

	return entry, len(verr.Fields) == before
}

func parseTime(i int, field string, value *string, verr *ValidationError) types.TimeString {
	if value == nil || *value == "" {
		verr.add(i, field, "is required")
		return ""
	}
	ts, err := types.NewTimeStringFromString(*value)
	if err != nil {
		verr.add(i, field, "must be in HH:MM format")
		return ""
	}
	return ts
}
