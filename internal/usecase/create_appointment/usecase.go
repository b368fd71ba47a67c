package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/LGS-AppointmentService/internal/domain"
	branchClient "github.com/m04kA/LGS-AppointmentService/internal/integrations/branchservice"
	userClient "github.com/m04kA/LGS-AppointmentService/internal/integrations/userservice"
	apptModels "github.com/m04kA/LGS-AppointmentService/internal/service/appointments/models"
)

// UseCase use case для создания записи на приём
type UseCase struct {
	apptRepo     AppointmentRepository
	branchClient BranchServiceClient
	userClient   UserServiceClient
	invalidator  CacheInvalidator
	txManager    TransactionManager
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	apptRepo AppointmentRepository,
	branchClient BranchServiceClient,
	userClient UserServiceClient,
	invalidator CacheInvalidator,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:     apptRepo,
		branchClient: branchClient,
		userClient:   userClient,
		invalidator:  invalidator,
		txManager:    txManager,
		logger:       logger,
	}
}

// Execute выполняет создание записи.
// Каждая новая запись начинает жизнь в статусе pending; назначения
// сохраняются вместе с записью в одной транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: caller=%d role=%s client=%d branch=%d datetime=%s",
		req.CallerID, req.Role, req.ClientUserID, req.LocationBranchID,
		req.AppointmentDateTime.Format(domain.DateTimeFormat))

	// 1. Полевые права роли - до какой-либо валидации значений
	if err := checkFieldPermissions(req); err != nil {
		uc.logger.Warn("CreateAppointment: permission check failed: %v", err)
		return nil, err
	}

	// 2. Валидация входных данных (все поля сразу)
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем существование филиала
	branch, err := uc.branchClient.GetBranch(ctx, req.LocationBranchID)
	if err != nil {
		if errors.Is(err, branchClient.ErrBranchNotFound) {
			uc.logger.Warn("CreateAppointment: branch id=%d not found", req.LocationBranchID)
			return nil, ErrBranchNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get branch id=%d: %v", req.LocationBranchID, err)
		return nil, fmt.Errorf("%w: failed to get branch: %v", ErrInternal, err)
	}

	// 4. Проверяем клиента: должен существовать и иметь роль client
	client, err := uc.userClient.GetUser(ctx, req.ClientUserID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("CreateAppointment: client user id=%d not found", req.ClientUserID)
			return nil, ErrClientNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get client user id=%d: %v", req.ClientUserID, err)
		return nil, fmt.Errorf("%w: failed to get client user: %v", ErrInternal, err)
	}
	if client.Role != string(domain.RoleClient) {
		uc.logger.Warn("CreateAppointment: user id=%d has role=%s, expected client", req.ClientUserID, client.Role)
		return nil, ErrNotAClient
	}

	// 5. Проверяем назначаемых сотрудников
	assigneeIDs := uniqueAssignees(req.AssigneeIDs)
	assigneeNames := make(map[int64]string, len(assigneeIDs))
	for _, userID := range assigneeIDs {
		user, err := uc.userClient.GetUser(ctx, userID)
		if err != nil {
			if errors.Is(err, userClient.ErrUserNotFound) {
				uc.logger.Warn("CreateAppointment: assignee user id=%d not found", userID)
				return nil, ErrAssigneeNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get assignee user id=%d: %v", userID, err)
			return nil, fmt.Errorf("%w: failed to get assignee user: %v", ErrInternal, err)
		}
		if user.Role != string(domain.RoleStaff) && user.Role != string(domain.RoleAdmin) {
			uc.logger.Warn("CreateAppointment: assignee id=%d has role=%s, expected staff", userID, user.Role)
			return nil, ErrNotStaff
		}
		assigneeNames[userID] = user.FullName
	}

	appt := &domain.Appointment{
		ClientUserID:        req.ClientUserID,
		LocationBranchID:    req.LocationBranchID,
		AppointmentDateTime: req.AppointmentDateTime,
		Party:               req.Party,
		Reason:              req.Reason,
		Status:              domain.StatusPending,
		NotesByClient:       req.NotesByClient,
		NotesByStaff:        req.NotesByStaff,
	}

	// 6. Сохраняем запись вместе с назначениями атомарно
	var created *domain.Appointment
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		created, err = uc.apptRepo.Create(txCtx, appt, assigneeIDs)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 7. Инвалидируем кэшированные выборки, которые могли бы содержать
	// новую запись. Ошибка инвалидации не откатывает мутацию; контекст
	// без отмены - запись уже закоммичена, и брошенный запрос не должен
	// оставить устаревшие списки до TTL.
	tags := domain.AffectedTags(nil, created, nil, assigneeIDs)
	if err := uc.invalidator.Invalidate(context.WithoutCancel(ctx), tags...); err != nil {
		uc.logger.Error("CreateAppointment: cache invalidation failed for appointment id=%d: %v", created.ID, err)
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", created.ID)

	assignees := make([]apptModels.AssigneeResponse, 0, len(assigneeIDs))
	for _, userID := range assigneeIDs {
		assignees = append(assignees, apptModels.AssigneeResponse{
			UserID:   userID,
			FullName: assigneeNames[userID],
		})
	}

	return apptModels.FromDomainAppointment(created, branch.Name, client.FullName, assignees), nil
}
