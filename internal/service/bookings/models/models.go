package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модели

// CancelBookingRequest запрос на освобождение места в слоте
type CancelBookingRequest struct {
	UserID     int64
	Role       domain.Role
	ProviderID int64
	Date       time.Time
	Time       types.TimeString
}

// GetUserBookingsRequest запрос на получение записей пользователя
type GetUserBookingsRequest struct {
	CallerID   int64
	CallerRole domain.Role
	UserID     int64
	ActiveOnly bool
}

// GetProviderBookingsRequest запрос на получение записей к врачу
type GetProviderBookingsRequest struct {
	CallerID   int64
	CallerRole domain.Role
	ProviderID int64
	Date       *time.Time // nil - все даты
	ActiveOnly bool
}

// Response модели

// BookingResponse ответ с данными записи
type BookingResponse struct {
	ID           string `json:"id"`
	PatientID    int64  `json:"patientId"`
	ProviderID   int64  `json:"providerId"`
	Date         string `json:"date"`      // "2025-03-10"
	StartTime    string `json:"startTime"` // "09:00"
	EndTime      string `json:"endTime"`   // "09:50"
	ClaimOrder   int    `json:"claimOrder"`
	PatientOrder int    `json:"patientOrder"`
	Capacity     int    `json:"capacity"`
	Generation   int64  `json:"generation"`
	// Stale запись потеряна при перегенерации расписания
	Stale     bool      `json:"stale"`
	CreatedAt time.Time `json:"createdAt"`
}

// BookingListResponse ответ со списком записей
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// FromDomainBooking конвертирует domain.BookingRecord в BookingResponse
func FromDomainBooking(b *domain.BookingRecord, slotDuration int) BookingResponse {
	endTime, err := b.Time.AddMinutes(slotDuration)
	if err != nil {
		endTime = b.Time
	}

	return BookingResponse{
		ID:           b.ID.String(),
		PatientID:    b.PatientID,
		ProviderID:   b.ProviderID,
		Date:         types.FormatDate(b.Date),
		StartTime:    b.Time.String(),
		EndTime:      endTime.String(),
		ClaimOrder:   b.ClaimOrder,
		PatientOrder: b.PatientOrder,
		Capacity:     b.Capacity,
		Generation:   b.Generation,
		Stale:        b.Stale,
		CreatedAt:    b.CreatedAt,
	}
}

// FromDomainBookingList конвертирует список записей
func FromDomainBookingList(bookings []*domain.BookingRecord, slotDuration int) *BookingListResponse {
	result := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, FromDomainBooking(b, slotDuration))
	}
	return &BookingListResponse{
		Bookings: result,
		Total:    len(result),
	}
}
