package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса.
// Дата asOf в прошлом заменяется на сегодняшнюю: прошедшие слоты недоступны.
func validateRequest(req *Request, today time.Time) (time.Time, error) {
	if req.ProviderID <= 0 {
		return time.Time{}, fmt.Errorf("%w: providerId must be positive", ErrInvalidInput)
	}

	if req.AsOf == "" {
		return today, nil
	}

	asOf, err := types.ParseDate(req.AsOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: asOf must be in YYYY-MM-DD format", ErrInvalidInput)
	}

	if asOf.Before(today) {
		return today, nil
	}
	return asOf, nil
}
