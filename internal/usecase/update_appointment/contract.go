package update_appointment

import (
	"context"

	"github.com/m04kA/LGS-AppointmentService/internal/domain"
	"github.com/m04kA/LGS-AppointmentService/internal/integrations/branchservice"
	"github.com/m04kA/LGS-AppointmentService/internal/integrations/userservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetAssignees(ctx context.Context, appointmentID int64) ([]int64, error)
	Update(ctx context.Context, id int64, upd domain.AppointmentUpdate) error
	AddAssignees(ctx context.Context, appointmentID int64, userIDs []int64) error
	RemoveAssignees(ctx context.Context, appointmentID int64, userIDs []int64) error
}

// BranchServiceClient интерфейс клиента реестра филиалов
type BranchServiceClient interface {
	GetBranch(ctx context.Context, branchID int64) (*branchservice.Branch, error)
	GetBranchWithGracefulDegradation(ctx context.Context, branchID int64) (*branchservice.Branch, error)
}

// UserServiceClient интерфейс клиента справочника пользователей
type UserServiceClient interface {
	GetUser(ctx context.Context, userID int64) (*userservice.User, error)
	GetUserWithGracefulDegradation(ctx context.Context, userID int64) (*userservice.User, error)
}

// CacheInvalidator инвалидация кэшированных выборок по тегам
type CacheInvalidator interface {
	Invalidate(ctx context.Context, tags ...domain.Tag) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
