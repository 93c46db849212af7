package list_providers

import "errors"

var (
	// ErrAccessDenied возвращается, когда роль не позволяет просматривать врачей
	ErrAccessDenied = errors.New("list_providers: access denied")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("list_providers: internal error")
)
