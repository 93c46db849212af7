package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	UserID     int64       // ID пользователя (для логирования, не влияет на результат)
	Role       domain.Role // Роль пользователя
	ProviderID int64       // ID врача
	AsOf       string      // Дата, начиная с которой нужны слоты (опционально, "2025-03-10")
}

// Response модель ответа со списком доступных слотов
type Response struct {
	ProviderID int64     // ID врача
	AsOf       time.Time // Дата, начиная с которой возвращены слоты
	Slots      []Slot    // Список доступных слотов
}

// Slot модель временного слота
type Slot struct {
	Date            time.Time        // Дата слота
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	EndTime         types.TimeString // Время окончания слота
	SlotIndex       int              // Номер слота за день
	DurationMinutes int              // Длительность слота в минутах
	AvailableSpots  int              // Количество свободных мест
	TotalSpots      int              // Общее количество мест
}
