package appointments

import (
	"context"

	"github.com/m04kA/LGS-AppointmentService/internal/domain"
	"github.com/m04kA/LGS-AppointmentService/internal/integrations/branchservice"
	"github.com/m04kA/LGS-AppointmentService/internal/integrations/userservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByIDAny(ctx context.Context, id int64) (*domain.Appointment, error)
	ListWithFilter(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	GetAssignees(ctx context.Context, appointmentID int64) ([]int64, error)
	GetAssigneesForAppointments(ctx context.Context, appointmentIDs []int64) (map[int64][]int64, error)
	SoftDelete(ctx context.Context, id int64) error
}

// BranchServiceClient интерфейс клиента реестра филиалов
type BranchServiceClient interface {
	GetBranchWithGracefulDegradation(ctx context.Context, branchID int64) (*branchservice.Branch, error)
}

// UserServiceClient интерфейс клиента справочника пользователей
type UserServiceClient interface {
	GetUserWithGracefulDegradation(ctx context.Context, userID int64) (*userservice.User, error)
}

// ListCache кэш результатов выборок с тег-инвалидацией
type ListCache interface {
	GetList(ctx context.Context, key string) ([]byte, bool)
	SetList(ctx context.Context, key string, payload []byte, tags []domain.Tag)
	Invalidate(ctx context.Context, tags ...domain.Tag) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
