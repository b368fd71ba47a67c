package domain

import (
	"fmt"
	"strings"
)

// FieldError ошибка валидации одного поля
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError ошибка валидации входных данных.
// Собирает все некорректные поля сразу, а не падает на первом.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add добавляет ошибку поля
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors returns true if any field failed validation
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// ForbiddenFieldsError попытка роли записать поля, недоступные ей.
// Называет каждое запрещённое поле, а не отбрасывает их молча.
type ForbiddenFieldsError struct {
	Role   Role
	Fields []string
}

func (e *ForbiddenFieldsError) Error() string {
	return fmt.Sprintf("role %q is not allowed to write fields: %s", e.Role, strings.Join(e.Fields, ", "))
}

// InvalidTransitionError нарушение таблицы переходов статусов
type InvalidTransitionError struct {
	From AppointmentStatus
	To   AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}
