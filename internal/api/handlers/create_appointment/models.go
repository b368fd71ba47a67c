package create_appointment

import (
	"time"

	"github.com/m04kA/LGS-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/LGS-AppointmentService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ClientUserID        int64   `json:"clientUserId"`
	LocationBranchID    int64   `json:"locationBranchId"`
	AppointmentDateTime string  `json:"appointmentDateTime"` // RFC3339
	Party               *string `json:"party,omitempty"`
	Reason              string  `json:"reason"`
	NotesByClient       *string `json:"notesByClient,omitempty"`
	NotesByStaff        *string `json:"notesByStaff,omitempty"`
	AssigneeIDs         []int64 `json:"assigneeIds,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// (с парсингом даты и времени записи)
func (r *CreateAppointmentRequest) ToUseCaseRequest(callerID int64, role domain.Role) (*createAppointment.Request, error) {
	appointmentDateTime, err := time.Parse(time.RFC3339, r.AppointmentDateTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		CallerID:            callerID,
		Role:                role,
		ClientUserID:        r.ClientUserID,
		LocationBranchID:    r.LocationBranchID,
		AppointmentDateTime: appointmentDateTime,
		Party:               r.Party,
		Reason:              r.Reason,
		NotesByClient:       r.NotesByClient,
		NotesByStaff:        r.NotesByStaff,
		AssigneeIDs:         r.AssigneeIDs,
	}, nil
}
