package create_appointment

import (
	"time"

	"github.com/m04kA/LGS-AppointmentService/internal/domain"
	apptModels "github.com/m04kA/LGS-AppointmentService/internal/service/appointments/models"
)

// Request запрос на создание записи.
// Статус не принимается: каждая новая запись начинает жизнь в pending.
type Request struct {
	CallerID int64
	Role     domain.Role

	ClientUserID        int64
	LocationBranchID    int64
	AppointmentDateTime time.Time
	Party               *string
	Reason              string
	NotesByClient       *string
	NotesByStaff        *string
	AssigneeIDs         []int64
}

// Response ответ use case - денормализованная запись
type Response = apptModels.AppointmentResponse
