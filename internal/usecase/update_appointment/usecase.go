package update_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/LGS-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/LGS-AppointmentService/internal/infra/storage/appointment"
	branchClient "github.com/m04kA/LGS-AppointmentService/internal/integrations/branchservice"
	userClient "github.com/m04kA/LGS-AppointmentService/internal/integrations/userservice"
	apptModels "github.com/m04kA/LGS-AppointmentService/internal/service/appointments/models"
)

// UseCase use case частичного обновления записи - шлюз мутаций.
// Порядок проверок фиксирован: полевые права роли, валидация значений,
// существование ссылок, и только затем транзакция с повторной валидацией
// перехода статуса против состояния, актуального на момент записи.
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

// Execute применяет частичное обновление записи.
//
// Конкурентные обновления одной записи не упорядочиваются шлюзом:
// хранилище применяет last-write-wins по полям, а переход статуса
// валидируется против текущего состояния строки (FOR UPDATE в
// сериализуемой транзакции). Проигравшая сторона получает
// InvalidTransitionError и должна перечитать запись.
func (uc *UseCase) Execute(ctx context.Context, id int64, req *Request) (*Response, error) {
	uc.logger.Info("UpdateAppointment: id=%d caller=%d role=%s", id, req.CallerID, req.Role)

	// 1. Полевые права роли
	if err := checkFieldPermissions(req); err != nil {
		uc.logger.Warn("UpdateAppointment: permission check failed for id=%d: %v", id, err)
		return nil, err
	}

	// 2. Валидация значений (все поля сразу)
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateAppointment: validation failed for id=%d: %v", id, err)
		return nil, err
	}

	// 3. Новый филиал должен существовать в реестре
	if req.LocationBranchID != nil {
		if _, err := uc.branchClient.GetBranch(ctx, *req.LocationBranchID); err != nil {
			if errors.Is(err, branchClient.ErrBranchNotFound) {
				uc.logger.Warn("UpdateAppointment: branch id=%d not found", *req.LocationBranchID)
				return nil, ErrBranchNotFound
			}
			uc.logger.Error("UpdateAppointment: failed to get branch id=%d: %v", *req.LocationBranchID, err)
			return nil, fmt.Errorf("%w: failed to get branch: %v", ErrInternal, err)
		}
	}

	// 4. Новые назначения: сотрудники должны существовать и быть staff
	var requestedAssignees []int64
	if req.AssigneesSet {
		requestedAssignees = uniqueIDs(req.NewAssigneeIDs)
		for _, userID := range requestedAssignees {
			user, err := uc.userClient.GetUser(ctx, userID)
			if err != nil {
				if errors.Is(err, userClient.ErrUserNotFound) {
					uc.logger.Warn("UpdateAppointment: assignee user id=%d not found", userID)
					return nil, ErrAssigneeNotFound
				}
				uc.logger.Error("UpdateAppointment: failed to get assignee user id=%d: %v", userID, err)
				return nil, fmt.Errorf("%w: failed to get assignee user: %v", ErrInternal, err)
			}
			if user.Role != string(domain.RoleStaff) && user.Role != string(domain.RoleAdmin) {
				uc.logger.Warn("UpdateAppointment: assignee id=%d has role=%s, expected staff", userID, user.Role)
				return nil, ErrNotStaff
			}
		}
	}

	var (
		before          *domain.Appointment
		after           *domain.Appointment
		beforeAssignees []int64
		afterAssignees  []int64
	)

	// 5. Мутация целиком в сериализуемой транзакции: либо применяется
	// всё (поля + диф назначений), либо ничего
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error

		before, err = uc.apptRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("UpdateAppointment: appointment id=%d not found", id)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("UpdateAppointment: repository error for id=%d: %v", id, err)
			return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
		}

		beforeAssignees, err = uc.apptRepo.GetAssignees(txCtx, id)
		if err != nil {
			uc.logger.Error("UpdateAppointment: failed to get assignees for id=%d: %v", id, err)
			return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
		}

		upd := domain.AppointmentUpdate{
			LocationBranchID:    req.LocationBranchID,
			AppointmentDateTime: req.AppointmentDateTime,
			Party:               req.Party,
			Reason:              req.Reason,
			NotesByClient:       req.NotesByClient,
			NotesByStaff:        req.NotesByStaff,
		}

		// Переход статуса валидируется против состояния, актуального
		// на момент записи, а не прочитанного вызывающей стороной
		if req.Status != nil {
			newStatus := domain.AppointmentStatus(*req.Status)
			if newStatus != before.Status {
				if !before.Status.CanTransitionTo(newStatus) {
					uc.logger.Warn("UpdateAppointment: invalid transition %s -> %s for id=%d",
						before.Status, newStatus, id)
					return &domain.InvalidTransitionError{From: before.Status, To: newStatus}
				}
				upd.Status = &newStatus
			}
			// Установка текущего статуса - идемпотентный no-op
		}

		hasFieldChanges := upd.LocationBranchID != nil ||
			upd.AppointmentDateTime != nil ||
			upd.Party != nil ||
			upd.Reason != nil ||
			upd.Status != nil ||
			upd.NotesByClient != nil ||
			upd.NotesByStaff != nil

		if hasFieldChanges {
			if err := uc.apptRepo.Update(txCtx, id, upd); err != nil {
				if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
					return ErrAppointmentNotFound
				}
				uc.logger.Error("UpdateAppointment: failed to update id=%d: %v", id, err)
				return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
			}
		}

		// Диф назначений: toAdd = requested - current, toRemove = current - requested
		afterAssignees = beforeAssignees
		if req.AssigneesSet {
			toAdd, toRemove := diffAssignees(beforeAssignees, requestedAssignees)
			if len(toAdd) > 0 {
				if err := uc.apptRepo.AddAssignees(txCtx, id, toAdd); err != nil {
					uc.logger.Error("UpdateAppointment: failed to add assignees for id=%d: %v", id, err)
					return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
				}
			}
			if len(toRemove) > 0 {
				if err := uc.apptRepo.RemoveAssignees(txCtx, id, toRemove); err != nil {
					uc.logger.Error("UpdateAppointment: failed to remove assignees for id=%d: %v", id, err)
					return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
				}
			}
			afterAssignees = requestedAssignees
		}

		// Перечитываем строку в той же транзакции - снимок после мутации
		after, err = uc.apptRepo.GetByID(txCtx, id)
		if err != nil {
			uc.logger.Error("UpdateAppointment: failed to re-read id=%d: %v", id, err)
			return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// 6. Инвалидация: тег записи, старый и новый филиал, клиент,
	// добавленные и снятые сотрудники, общий тег.
	// Мутация уже закоммичена: инвалидация идёт на контексте, переживающем
	// отмену запроса, иначе брошенный запрос оставит устаревшие списки до TTL
	tags := domain.AffectedTags(before, after, beforeAssignees, afterAssignees)
	if err := uc.invalidator.Invalidate(context.WithoutCancel(ctx), tags...); err != nil {
		uc.logger.Error("UpdateAppointment: cache invalidation failed for id=%d: %v", id, err)
	}

	uc.logger.Info("UpdateAppointment: successfully updated appointment id=%d", id)

	return uc.denormalize(ctx, after, afterAssignees), nil
}

func (uc *UseCase) denormalize(ctx context.Context, a *domain.Appointment, assigneeIDs []int64) *Response {
	branchName := apptModels.NameUnavailable
	if branch, err := uc.branchClient.GetBranchWithGracefulDegradation(ctx, a.LocationBranchID); err == nil {
		branchName = branch.Name
	}

	clientName := apptModels.NameUnavailable
	if user, err := uc.userClient.GetUserWithGracefulDegradation(ctx, a.ClientUserID); err == nil {
		clientName = user.FullName
	}

	assignees := make([]apptModels.AssigneeResponse, 0, len(assigneeIDs))
	for _, userID := range assigneeIDs {
		name := apptModels.NameUnavailable
		if user, err := uc.userClient.GetUserWithGracefulDegradation(ctx, userID); err == nil {
			name = user.FullName
		}
		assignees = append(assignees, apptModels.AssigneeResponse{UserID: userID, FullName: name})
	}

	return apptModels.FromDomainAppointment(a, branchName, clientName, assignees)
}

// uniqueIDs приводит список к множеству, сохраняя порядок первого вхождения
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
