package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// statusTransitions таблица допустимых переходов статусов
// pending -> confirmed | cancelled
// confirmed -> completed | cancelled
// completed, cancelled - терминальные статусы
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// IsValid returns true if the status belongs to the canonical set
func (s AppointmentStatus) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// IsTerminal returns true if no further status transition is accepted
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo returns true if the transition from s to target is allowed.
// A transition to the current status is always allowed (идемпотентный no-op).
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	if s == target {
		return true
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Appointment represents a scheduled appointment between a client and a branch
type Appointment struct {
	ID                  int64
	ClientUserID        int64 // Immutable after creation
	LocationBranchID    int64
	AppointmentDateTime time.Time
	Party               *string
	Reason              string
	Status              AppointmentStatus

	// Notes have independent write permissions: the client writes
	// NotesByClient, staff write NotesByStaff.
	NotesByClient *string
	NotesByStaff  *string

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// IsDeleted returns true if the appointment has been soft-deleted
func (a *Appointment) IsDeleted() bool {
	return a.DeletedAt != nil
}

// IsActive returns true if the appointment is live and not in a terminal state
func (a *Appointment) IsActive() bool {
	return !a.IsDeleted() && !a.Status.IsTerminal()
}

// CanBeUpdated returns true if non-status fields may still be edited.
// Терминальные статусы не запрещают редактирование заметок - история
// должна оставаться дополняемой.
func (a *Appointment) CanBeUpdated() bool {
	return !a.IsDeleted()
}
