package book_slot

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на запись к врачу
type Request struct {
	PatientID  int64
	Role       domain.Role
	ProviderID int64
	Date       string // "2025-03-10"
	Time       string // "09:00"
}

// Response модель ответа с созданной записью
type Response struct {
	BookingID    string
	PatientID    int64
	ProviderID   int64
	Date         time.Time
	StartTime    types.TimeString
	EndTime      types.TimeString
	ClaimOrder   int // Позиция среди записанных в слот
	PatientOrder int // Порядковый номер пациента за день у врача
	Capacity     int
	Generation   int64
	CreatedAt    time.Time
	Provider     ProviderInfo
}

// ProviderInfo данные врача для подтверждения записи
type ProviderInfo struct {
	Username       string
	Avatar         *string
	ClinicLocation *string
	// ProfileDegraded профиль из UserService недоступен
	ProfileDegraded bool
}
