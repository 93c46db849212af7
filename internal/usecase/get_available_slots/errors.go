package get_available_slots

import "errors"

var (
	// ErrAccessDenied возвращается, когда роль не позволяет просматривать расписание
	ErrAccessDenied = errors.New("access denied")

	// ErrProviderNotFound возвращается, когда врач не найден
	ErrProviderNotFound = errors.New("provider not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
