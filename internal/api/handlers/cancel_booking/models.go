package cancel_booking

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Date string `json:"date"` // "2025-03-10"
	Time string `json:"time"` // "09:00"
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(principal domain.Principal, providerID int64) (*models.CancelBookingRequest, error) {
	date, err := types.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.Time)
	if err != nil {
		return nil, err
	}

	return &models.CancelBookingRequest{
		UserID:     principal.UserID,
		Role:       principal.Role,
		ProviderID: providerID,
		Date:       date,
		Time:       startTime,
	}, nil
}
