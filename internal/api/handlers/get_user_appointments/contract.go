package get_user_appointments

import (
	"context"

	"github.com/m04kA/LGS-AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	ListForClient(ctx context.Context, clientID int64, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error)
	ListForAssignee(ctx context.Context, assigneeID int64, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
