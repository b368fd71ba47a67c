package update_appointment

import (
	"time"

	"github.com/m04kA/LGS-AppointmentService/internal/domain"
	apptModels "github.com/m04kA/LGS-AppointmentService/internal/service/appointments/models"
)

// Request частичное обновление записи. nil-поле означает "не менять".
// Поля clientUserId нет намеренно: клиент записи неизменяем.
type Request struct {
	CallerID int64
	Role     domain.Role

	LocationBranchID    *int64
	AppointmentDateTime *time.Time
	Party               *string
	Reason              *string
	Status              *string
	NotesByClient       *string
	NotesByStaff        *string

	// NewAssigneeIDs полное новое множество назначений.
	// nil - не менять; пустой слайс - снять всех.
	NewAssigneeIDs []int64

	// AssigneesSet отличает "поле не прислано" от "прислан пустой список"
	AssigneesSet bool
}

// IsEmpty returns true if the request carries no changes
func (r *Request) IsEmpty() bool {
	return r.LocationBranchID == nil &&
		r.AppointmentDateTime == nil &&
		r.Party == nil &&
		r.Reason == nil &&
		r.Status == nil &&
		r.NotesByClient == nil &&
		r.NotesByStaff == nil &&
		!r.AssigneesSet
}

// Response ответ use case - денормализованная запись
type Response = apptModels.AppointmentResponse
