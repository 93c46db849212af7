package update_template

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
)

// validateRequest валидирует входные данные запроса и возвращает записи шаблона.
// Ошибка полей шаблона сохраняет *schedule.ValidationError в цепочке
func validateRequest(req *Request) ([]domain.WeeklyTemplateEntry, *string, error) {
	if req.ProviderID <= 0 {
		return nil, nil, fmt.Errorf("%w: providerId must be positive", ErrInvalidInput)
	}

	if len(req.Entries) > domain.MaxTemplateEntriesPerWeek {
		return nil, nil, fmt.Errorf("%w: at most %d entries allowed", ErrInvalidInput, domain.MaxTemplateEntriesPerWeek)
	}

	location, err := normalizeLocation(req.ClinicLocation)
	if err != nil {
		return nil, nil, err
	}

	entries, err := schedule.Validate(req.Entries)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return entries, location, nil
}

// normalizeLocation обрезает пробелы; указанное место приема не может быть пустым
func normalizeLocation(location *string) (*string, error) {
	if location == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*location)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: clinicLocation must not be empty", ErrInvalidInput)
	}
	if len(trimmed) > domain.MaxClinicLocationLength {
		return nil, fmt.Errorf("%w: clinicLocation exceeds %d characters", ErrInvalidInput, domain.MaxClinicLocationLength)
	}
	return &trimmed, nil
}
