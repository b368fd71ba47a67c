package update_appointment

import (
	"time"

	"github.com/m04kA/LGS-AppointmentService/internal/domain"
	updateAppointment "github.com/m04kA/LGS-AppointmentService/internal/usecase/update_appointment"
)

// UpdateAppointmentRequest HTTP request model частичного обновления.
// Отсутствующее поле означает "не менять". Для newAssigneeIds
// различается отсутствие поля и явный пустой список (снять всех),
// поэтому поле принимается указателем на слайс.
type UpdateAppointmentRequest struct {
	LocationBranchID    *int64   `json:"locationBranchId,omitempty"`
	AppointmentDateTime *string  `json:"appointmentDateTime,omitempty"` // RFC3339
	Party               *string  `json:"party,omitempty"`
	Reason              *string  `json:"reason,omitempty"`
	Status              *string  `json:"status,omitempty"`
	NotesByClient       *string  `json:"notesByClient,omitempty"`
	NotesByStaff        *string  `json:"notesByStaff,omitempty"`
	NewAssigneeIDs      *[]int64 `json:"newAssigneeIds,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateAppointmentRequest) ToUseCaseRequest(callerID int64, role domain.Role) (*updateAppointment.Request, error) {
	req := &updateAppointment.Request{
		CallerID:         callerID,
		Role:             role,
		LocationBranchID: r.LocationBranchID,
		Party:            r.Party,
		Reason:           r.Reason,
		Status:           r.Status,
		NotesByClient:    r.NotesByClient,
		NotesByStaff:     r.NotesByStaff,
	}

	if r.AppointmentDateTime != nil {
		parsed, err := time.Parse(time.RFC3339, *r.AppointmentDateTime)
		if err != nil {
			return nil, err
		}
		req.AppointmentDateTime = &parsed
	}

	if r.NewAssigneeIDs != nil {
		req.AssigneesSet = true
		req.NewAssigneeIDs = *r.NewAssigneeIDs
	}

	return req, nil
}
