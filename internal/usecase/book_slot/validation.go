package book_slot

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса и разбирает дату и время
func validateRequest(req *Request) (time.Time, types.TimeString, error) {
	if req.PatientID <= 0 {
		return time.Time{}, "", fmt.Errorf("%w: patientId must be positive", ErrInvalidInput)
	}

	if req.ProviderID <= 0 {
		return time.Time{}, "", fmt.Errorf("%w: providerId must be positive", ErrInvalidInput)
	}

	if req.Date == "" {
		return time.Time{}, "", fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	date, err := types.ParseDate(req.Date)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidInput)
	}

	if req.Time == "" {
		return time.Time{}, "", fmt.Errorf("%w: time is required", ErrInvalidInput)
	}
	startTime, err := types.NewTimeStringFromString(req.Time)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: time must be in HH:MM format", ErrInvalidInput)
	}

	return date, startTime, nil
}

// validateBookingTime проверяет, что слот еще не начался.
// today и nowTime заданы в часовом поясе расписания.
func validateBookingTime(date time.Time, startTime types.TimeString, today time.Time, nowTime types.TimeString) error {
	if date.Before(today) {
		return ErrInvalidDate
	}

	if date.Equal(today) && startTime.IsBefore(nowTime) {
		return ErrTooLateToBook
	}

	return nil
}
