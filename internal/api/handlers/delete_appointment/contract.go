package delete_appointment

import (
	"context"

	"github.com/m04kA/LGS-AppointmentService/internal/domain"
)

type AppointmentService interface {
	Delete(ctx context.Context, id int64, callerID int64, role domain.Role) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
