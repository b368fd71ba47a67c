package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/LGS-AppointmentService/internal/domain"
	"github.com/m04kA/LGS-AppointmentService/internal/infra/cache"
	apptRepo "github.com/m04kA/LGS-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/LGS-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/LGS-AppointmentService/pkg/ptr"
)

// Service сервис чтения записей и мягкого удаления.
// Все скоупированные выборки (по клиенту, по сотруднику, по филиалу)
// являются тонкими обёртками над общим List - семантика фильтрации
// не может разойтись между представлениями.
type Service struct {
	apptRepo     AppointmentRepository
	branchClient BranchServiceClient
	userClient   UserServiceClient
	listCache    ListCache
	logger       Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	apptRepo AppointmentRepository,
	branchClient BranchServiceClient,
	userClient UserServiceClient,
	listCache ListCache,
	logger Logger,
) *Service {
	return &Service{
		apptRepo:     apptRepo,
		branchClient: branchClient,
		userClient:   userClient,
		listCache:    listCache,
		logger:       logger,
	}
}

// GetByID получает запись по ID с денормализованными именами
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	assigneeIDs, err := s.apptRepo.GetAssignees(ctx, id)
	if err != nil {
		s.logger.Error("GetByID: failed to get assignees for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return s.denormalize(ctx, appt, assigneeIDs, newNameMemo()), nil
}

// GetAnyByID получает запись по ID, включая мягко удалённые.
// Внутренний audit-путь: публичное API сюда не маршрутизируется.
func (s *Service) GetAnyByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	appt, err := s.apptRepo.GetByIDAny(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("%w: GetAnyByID - repository error: %v", ErrInternal, err)
	}

	assigneeIDs, err := s.apptRepo.GetAssignees(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAnyByID - repository error: %v", ErrInternal, err)
	}

	return s.denormalize(ctx, appt, assigneeIDs, newNameMemo()), nil
}

// List получает записи по спецификации фильтра.
// Некорректный фильтр отклоняется до обращения к хранилищу. Результат
// кэшируется под тегами своих измерений; пустая выборка - успех, не ошибка.
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}

	cacheKey := cache.ListKey(filter, req.Search)
	if payload, ok := s.listCache.GetList(ctx, cacheKey); ok {
		var cached models.AppointmentListResponse
		if err := json.Unmarshal(payload, &cached); err == nil {
			s.logger.Info("List: cache hit for key=%s, count=%d", cacheKey, len(cached.Appointments))
			return &cached, nil
		}
		s.logger.Warn("List: failed to decode cached payload for key=%s, falling back to store", cacheKey)
	}

	appts, err := s.apptRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	ids := make([]int64, len(appts))
	for i, a := range appts {
		ids[i] = a.ID
	}

	assignees, err := s.apptRepo.GetAssigneesForAppointments(ctx, ids)
	if err != nil {
		s.logger.Error("List: failed to get assignees: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	memo := newNameMemo()
	responses := make([]models.AppointmentResponse, 0, len(appts))
	matched := make([]*domain.Appointment, 0, len(appts))

	for _, a := range appts {
		resp := s.denormalize(ctx, a, assignees[a.ID], memo)

		// Подстрочный поиск применяется поверх уже отфильтрованной выборки,
		// в SQL он не транслируется
		if req.Search != "" && !matchesSearch(resp, req.Search) {
			continue
		}

		responses = append(responses, *resp)
		matched = append(matched, a)
	}

	result := &models.AppointmentListResponse{Appointments: responses}

	if payload, err := json.Marshal(result); err == nil {
		tags := domain.TagsForList(filter, matched, assignees)
		s.listCache.SetList(ctx, cacheKey, payload, tags)
	}

	s.logger.Info("List: fetched %d appointments (key=%s)", len(responses), cacheKey)
	return result, nil
}

// ListForClient выборка записей клиента: общий List с пред-связанным
// измерением клиента
func (s *Service) ListForClient(ctx context.Context, clientID int64, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	scoped := *req
	scoped.ClientID = ptr.Ptr(clientID)
	return s.List(ctx, &scoped)
}

// ListForAssignee выборка записей назначенного сотрудника
func (s *Service) ListForAssignee(ctx context.Context, assigneeID int64, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	scoped := *req
	scoped.AssigneeID = ptr.Ptr(assigneeID)
	return s.List(ctx, &scoped)
}

// ListForBranch выборка записей филиала
func (s *Service) ListForBranch(ctx context.Context, branchID int64, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	scoped := *req
	scoped.BranchID = ptr.Ptr(branchID)
	return s.List(ctx, &scoped)
}

// Delete мягко удаляет запись.
// Клиент может удалить только свою запись; staff и admin - любую.
// Запись остаётся в хранилище с deleted_at, но исчезает из всех выборок.
func (s *Service) Delete(ctx context.Context, id int64, callerID int64, role domain.Role) error {
	s.logger.Info("Delete: deleting appointment id=%d by user=%d role=%s", id, callerID, role)

	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Delete: appointment id=%d not found", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Delete: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	if !role.IsStaffLevel() && appt.ClientUserID != callerID {
		s.logger.Warn("Delete: access denied for user=%d to appointment id=%d", callerID, id)
		return ErrAccessDenied
	}

	assigneeIDs, err := s.apptRepo.GetAssignees(ctx, id)
	if err != nil {
		s.logger.Error("Delete: failed to get assignees for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	if err := s.apptRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("Delete: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	// Инвалидация кэша не фатальна: деградация происходит внутри кэша.
	// Удаление уже применено - инвалидация не должна умереть вместе
	// с отменённым контекстом запроса
	tags := domain.AffectedTags(appt, nil, assigneeIDs, nil)
	if err := s.listCache.Invalidate(context.WithoutCancel(ctx), tags...); err != nil {
		s.logger.Error("Delete: cache invalidation failed for appointment id=%d: %v", id, err)
	}

	s.logger.Info("Delete: successfully deleted appointment id=%d", id)
	return nil
}

// nameMemo кэш имён в рамках одного запроса (филиалы и пользователи
// повторяются между записями списка)
type nameMemo struct {
	branches map[int64]string
	users    map[int64]string
}

func newNameMemo() *nameMemo {
	return &nameMemo{
		branches: make(map[int64]string),
		users:    make(map[int64]string),
	}
}

// denormalize собирает DTO с именами филиала, клиента и сотрудников.
// Филиал или пользователь могли быть переименованы или удалены владеющим
// сервисом: вместо падения всего запроса подставляется заглушка.
func (s *Service) denormalize(ctx context.Context, a *domain.Appointment, assigneeIDs []int64, memo *nameMemo) *models.AppointmentResponse {
	branchName := s.branchName(ctx, memo, a.LocationBranchID)
	clientName := s.userName(ctx, memo, a.ClientUserID)

	assignees := make([]models.AssigneeResponse, 0, len(assigneeIDs))
	for _, userID := range assigneeIDs {
		assignees = append(assignees, models.AssigneeResponse{
			UserID:   userID,
			FullName: s.userName(ctx, memo, userID),
		})
	}

	return models.FromDomainAppointment(a, branchName, clientName, assignees)
}

func (s *Service) branchName(ctx context.Context, memo *nameMemo, branchID int64) string {
	if name, ok := memo.branches[branchID]; ok {
		return name
	}

	name := models.NameUnavailable
	if branch, err := s.branchClient.GetBranchWithGracefulDegradation(ctx, branchID); err == nil {
		name = branch.Name
	}

	memo.branches[branchID] = name
	return name
}

func (s *Service) userName(ctx context.Context, memo *nameMemo, userID int64) string {
	if name, ok := memo.users[userID]; ok {
		return name
	}

	name := models.NameUnavailable
	if user, err := s.userClient.GetUserWithGracefulDegradation(ctx, userID); err == nil {
		name = user.FullName
	}

	memo.users[userID] = name
	return name
}

// matchesSearch проверяет вхождение подстроки в имя клиента, party или reason
// без учёта регистра
func matchesSearch(resp *models.AppointmentResponse, search string) bool {
	needle := strings.ToLower(search)

	if strings.Contains(strings.ToLower(resp.ClientName), needle) {
		return true
	}
	if resp.Party != nil && strings.Contains(strings.ToLower(*resp.Party), needle) {
		return true
	}
	return strings.Contains(strings.ToLower(resp.Reason), needle)
}
