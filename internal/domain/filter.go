package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidFilter возвращается при синтаксически некорректной спецификации фильтра
var ErrInvalidFilter = errors.New("invalid appointment filter")

// AppointmentFilter спецификация фильтра для выборки записей
// Все поля опциональны: nil означает отсутствие ограничения по измерению.
// Все указанные условия комбинируются через логическое AND.
//
// Примеры использования:
//
// 1. Все записи филиала:
//    filter := domain.AppointmentFilter{BranchID: ptr.Ptr(int64(7))}
//
// 2. Записи клиента в статусе pending:
//    status := domain.StatusPending
//    filter := domain.AppointmentFilter{ClientID: ptr.Ptr(int64(42)), Status: &status}
//
// 3. Записи сотрудника за период:
//    filter := domain.AppointmentFilter{AssigneeID: ptr.Ptr(int64(9)), DateTimeFrom: &from, DateTimeTo: &to}
type AppointmentFilter struct {
	Status       *AppointmentStatus // Фильтр по статусу (опционально)
	BranchID     *int64             // Фильтр по филиалу (опционально)
	ClientID     *int64             // Фильтр по клиенту (опционально)
	AssigneeID   *int64             // Фильтр по назначенному сотруднику (опционально)
	DateTimeFrom *time.Time         // Нижняя граница appointment_datetime, включительно
	DateTimeTo   *time.Time         // Верхняя граница appointment_datetime, включительно

	// IncludeDeleted включает soft-deleted записи (только внутренний/audit путь)
	IncludeDeleted bool
}

// Validate проверяет синтаксическую корректность фильтра.
// Некорректный фильтр никогда не должен доходить до хранилища.
func (f AppointmentFilter) Validate() error {
	if f.Status != nil && !f.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, *f.Status)
	}
	if f.DateTimeFrom != nil && f.DateTimeTo != nil && f.DateTimeFrom.After(*f.DateTimeTo) {
		return fmt.Errorf("%w: dateTimeFrom is after dateTimeTo", ErrInvalidFilter)
	}
	return nil
}
