package book_slot

import "errors"

var (
	// ErrAccessDenied возвращается, когда записаться пытается не пациент
	ErrAccessDenied = errors.New("book_slot: access denied")

	// ErrProviderNotFound возвращается, когда врач не найден
	ErrProviderNotFound = errors.New("book_slot: provider not found")

	// ErrSlotNotFound возвращается, когда у врача нет слота на указанные дату и время
	ErrSlotNotFound = errors.New("book_slot: slot not found")

	// ErrSlotNotAvailable возвращается, когда выбранный слот недоступен (все места заняты)
	ErrSlotNotAvailable = errors.New("book_slot: slot is not available")

	// ErrAlreadyBooked возвращается, когда пациент уже записан в этот слот
	ErrAlreadyBooked = errors.New("book_slot: patient already booked this slot")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("book_slot: invalid booking date")

	// ErrTooLateToBook возвращается, когда слот сегодня уже начался
	ErrTooLateToBook = errors.New("book_slot: too late to book this slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_slot: internal error")
)
