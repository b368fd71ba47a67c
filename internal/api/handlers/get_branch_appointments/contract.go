package get_branch_appointments

import (
	"context"

	"github.com/m04kA/LGS-AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	ListForBranch(ctx context.Context, branchID int64, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
