package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTemplate возвращается, когда недельный шаблон не прошел валидацию
var ErrInvalidTemplate = errors.New("invalid weekly template")

// FieldError ошибка конкретного поля записи шаблона
type FieldError struct {
	Index  int    `json:"index"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError набор ошибок полей шаблона
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("entries[%d].%s: %s", f.Index, f.Field, f.Reason))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidTemplate, strings.Join(parts, "; "))
}

// Is позволяет проверять ошибку через errors.Is(err, ErrInvalidTemplate)
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidTemplate
}

func (e *ValidationError) add(index int, field, reason string) {
	e.Fields = append(e.Fields, FieldError{Index: index, Field: field, Reason: reason})
}
