package get_provider_bookings

import (
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	principal domain.Principal,
	providerID int64,
	dateStr string,
	activeOnlyStr string,
) (*models.GetProviderBookingsRequest, error) {
	req := &models.GetProviderBookingsRequest{
		CallerID:   principal.UserID,
		CallerRole: principal.Role,
		ProviderID: providerID,
		ActiveOnly: true, // По умолчанию только активные
	}

	// Парсим date если указана
	if dateStr != "" {
		date, err := types.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date value: %w", err)
		}
		req.Date = &date
	}

	// Парсим activeOnly если указан
	if activeOnlyStr != "" {
		activeOnly, err := strconv.ParseBool(activeOnlyStr)
		if err != nil {
			return nil, fmt.Errorf("invalid activeOnly value: %w", err)
		}
		req.ActiveOnly = activeOnly
	}

	return req, nil
}
