package domain

import "time"

// AppointmentUpdate частичное обновление записи.
// nil-поле означает "не менять". Применяются только присутствующие поля;
// store работает по принципу last-write-wins на уровне полей.
//
// ClientUserID отсутствует намеренно: клиент записи неизменяем после создания.
type AppointmentUpdate struct {
	LocationBranchID    *int64
	AppointmentDateTime *time.Time
	Party               *string
	Reason              *string
	Status              *AppointmentStatus
	NotesByClient       *string
	NotesByStaff        *string

	// NewAssigneeIDs полное новое множество назначенных сотрудников.
	// nil означает "не менять назначения"; пустой слайс - снять всех.
	NewAssigneeIDs []int64
}

// IsEmpty returns true if the update carries no changes at all
func (u AppointmentUpdate) IsEmpty() bool {
	return u.LocationBranchID == nil &&
		u.AppointmentDateTime == nil &&
		u.Party == nil &&
		u.Reason == nil &&
		u.Status == nil &&
		u.NotesByClient == nil &&
		u.NotesByStaff == nil &&
		u.NewAssigneeIDs == nil
}
