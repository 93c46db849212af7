package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderNotFound возвращается, когда врач не найден
	ErrProviderNotFound = errors.New("provider not found")

	// ErrSlotNotFound возвращается, когда у врача нет слота на указанные дату и время
	ErrSlotNotFound = errors.New("slot not found")

	// ErrSlotFull возвращается, когда в слоте не осталось мест
	ErrSlotFull = errors.New("slot is full")

	// ErrDuplicateClaim возвращается, когда пациент уже записан в этот слот
	ErrDuplicateClaim = errors.New("patient already holds this slot")

	// ErrClaimNotFound возвращается, когда пациент не записан в слот
	ErrClaimNotFound = errors.New("patient holds no claim on this slot")

	// ErrDiscardNotConfirmed возвращается, когда перегенерация удалит записи без подтверждения
	ErrDiscardNotConfirmed = errors.New("regeneration discards existing claims")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("ledger: internal error")
)

// DiscardError перегенерация требует подтверждения потери записей
type DiscardError struct {
	DiscardedClaims int
}

func (e *DiscardError) Error() string {
	return fmt.Sprintf("%s: %d claim(s) would be discarded", ErrDiscardNotConfirmed, e.DiscardedClaims)
}

// Is позволяет проверять ошибку через errors.Is(err, ErrDiscardNotConfirmed)
func (e *DiscardError) Is(target error) bool {
	return target == ErrDiscardNotConfirmed
}
