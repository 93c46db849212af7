package update_template

import (
	"errors"
	"fmt"
)

var (
	// ErrAccessDenied возвращается, когда шаблон меняет не администратор
	ErrAccessDenied = errors.New("update_template: access denied")

	// ErrProviderNotFound возвращается, когда пользователь не найден или не является врачом
	ErrProviderNotFound = errors.New("update_template: provider not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_template: invalid input data")

	// ErrConfirmationRequired возвращается, когда перегенерация удалит записи пациентов
	ErrConfirmationRequired = errors.New("update_template: confirmation required to discard booked claims")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_template: internal error")
)

// ConfirmationRequiredError сколько записей будет потеряно при перегенерации
type ConfirmationRequiredError struct {
	DiscardedClaims int
}

func (e *ConfirmationRequiredError) Error() string {
	return fmt.Sprintf("%s: %d claim(s)", ErrConfirmationRequired, e.DiscardedClaims)
}

// Is позволяет проверять ошибку через errors.Is(err, ErrConfirmationRequired)
func (e *ConfirmationRequiredError) Is(target error) bool {
	return target == ErrConfirmationRequired
}
