package schedule

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Expander разворачивает недельный шаблон в слоты фиксированной длительности
type Expander struct {
	slotDuration int
}

// NewExpander создает Expander с длительностью слота в минутах
func NewExpander(slotDurationMinutes int) *Expander {
	return &Expander{slotDuration: slotDurationMinutes}
}

// SlotDuration длительность слота в минутах
func (e *Expander) SlotDuration() int {
	return e.slotDuration
}

// Expand разворачивает шаблон на даты [rangeStart, rangeEnd]
func (e *Expander) Expand(entries []domain.WeeklyTemplateEntry, rangeStart, rangeEnd time.Time) []*domain.SlotRecord {
	return Expand(entries, rangeStart, rangeEnd, e.slotDuration)
}

// Expand генерирует слоты для каждой даты диапазона [rangeStart, rangeEnd] по возрастанию.
// Для даты берется запись шаблона её дня недели, слоты идут с шагом slotDuration от начала записи,
// пока слот целиком помещается до конца записи. Неполный последний слот не создается.
// Результат не содержит claimants и не зависит от текущего времени.
func Expand(entries []domain.WeeklyTemplateEntry, rangeStart, rangeEnd time.Time, slotDuration int) []*domain.SlotRecord {
	slots := make([]*domain.SlotRecord, 0)
	if slotDuration <= 0 || len(entries) == 0 {
		return slots
	}

	byDay := make(map[domain.Weekday]domain.WeeklyTemplateEntry, len(entries))
	for _, e := range entries {
		byDay[e.Day] = e
	}

	last := types.DateOf(rangeEnd)
	for date := types.DateOf(rangeStart); !date.After(last); date = types.AddDays(date, 1) {
		entry, ok := byDay[domain.WeekdayOf(date)]
		if !ok {
			continue
		}
		for i, start := range dayTimes(entry, slotDuration) {
			slots = append(slots, &domain.SlotRecord{
				Date:      date,
				Time:      start,
				SlotIndex: i + 1,
				Capacity:  entry.CapacityPerSlot,
				Claimants: []int64{},
			})
		}
	}

	return slots
}

// dayTimes времена начала слотов одной записи шаблона
func dayTimes(entry domain.WeeklyTemplateEntry, slotDuration int) []types.TimeString {
	times := make([]types.TimeString, 0)
	current := entry.StartTime

	for current.IsBefore(entry.EndTime) {
		slotEnd, err := current.AddMinutes(slotDuration)
		// Конец слота за пределами суток заведомо позже конца записи
		if err != nil || slotEnd.IsAfter(entry.EndTime) {
			break
		}
		times = append(times, current)
		current = slotEnd
	}

	return times
}

// EndTime время окончания слота, начинающегося в start
func EndTime(start types.TimeString, slotDuration int) (types.TimeString, error) {
	return start.AddMinutes(slotDuration)
}

// Horizon диапазон дат генерации: от сегодняшней даты в часовом поясе loc
// до неё же плюс days дней включительно
func Horizon(now time.Time, loc *time.Location, days int) (time.Time, time.Time) {
	start := Today(now, loc)
	return start, types.AddDays(start, days)
}

// Today календарная дата now в часовом поясе loc
func Today(now time.Time, loc *time.Location) time.Time {
	return types.DateOf(now.In(loc))
}
