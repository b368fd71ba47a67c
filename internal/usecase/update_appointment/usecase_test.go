package update_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LGS-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/LGS-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/LGS-AppointmentService/internal/integrations/branchservice"
	"github.com/m04kA/LGS-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/LGS-AppointmentService/pkg/ptr"
)

// fakeRepo репозиторий в памяти для одной записи
type fakeRepo struct {
	appt      *domain.Appointment
	assignees []int64

	updateCalls int
	added       []int64
	removed     []int64
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if f.appt == nil || f.appt.ID != id {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	copied := *f.appt
	return &copied, nil
}

func (f *fakeRepo) GetAssignees(context.Context, int64) ([]int64, error) {
	return append([]int64(nil), f.assignees...), nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, upd domain.AppointmentUpdate) error {
	if f.appt == nil || f.appt.ID != id {
		return apptRepo.ErrAppointmentNotFound
	}
	f.updateCalls++
	if upd.LocationBranchID != nil {
		f.appt.LocationBranchID = *upd.LocationBranchID
	}
	if upd.AppointmentDateTime != nil {
		f.appt.AppointmentDateTime = *upd.AppointmentDateTime
	}
	if upd.Party != nil {
		f.appt.Party = upd.Party
	}
	if upd.Reason != nil {
		f.appt.Reason = *upd.Reason
	}
	if upd.Status != nil {
		f.appt.Status = *upd.Status
	}
	if upd.NotesByClient != nil {
		f.appt.NotesByClient = upd.NotesByClient
	}
	if upd.NotesByStaff != nil {
		f.appt.NotesByStaff = upd.NotesByStaff
	}
	return nil
}

func (f *fakeRepo) AddAssignees(_ context.Context, _ int64, userIDs []int64) error {
	f.added = append(f.added, userIDs...)
	f.assignees = append(f.assignees, userIDs...)
	return nil
}

func (f *fakeRepo) RemoveAssignees(_ context.Context, _ int64, userIDs []int64) error {
	f.removed = append(f.removed, userIDs...)
	remaining := f.assignees[:0]
	for _, id := range f.assignees {
		keep := true
		for _, removed := range userIDs {
			if id == removed {
				keep = false
			}
		}
		if keep {
			remaining = append(remaining, id)
		}
	}
	f.assignees = remaining
	return nil
}

type fakeBranchClient struct {
	known map[int64]string
}

func (f *fakeBranchClient) GetBranch(_ context.Context, branchID int64) (*branchservice.Branch, error) {
	name, ok := f.known[branchID]
	if !ok {
		return nil, branchservice.ErrBranchNotFound
	}
	return &branchservice.Branch{ID: branchID, Name: name}, nil
}

func (f *fakeBranchClient) GetBranchWithGracefulDegradation(ctx context.Context, branchID int64) (*branchservice.Branch, error) {
	return f.GetBranch(ctx, branchID)
}

type fakeUserClient struct {
	users map[int64]*userservice.User
}

func (f *fakeUserClient) GetUser(_ context.Context, userID int64) (*userservice.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, userservice.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserClient) GetUserWithGracefulDegradation(ctx context.Context, userID int64) (*userservice.User, error) {
	return f.GetUser(ctx, userID)
}

type fakeInvalidator struct {
	ctx  context.Context
	tags []domain.Tag
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, tags ...domain.Tag) error {
	f.ctx = ctx
	f.tags = append(f.tags, tags...)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func fixture() (*UseCase, *fakeRepo, *fakeInvalidator) {
	repo := &fakeRepo{
		appt: &domain.Appointment{
			ID:                  1,
			ClientUserID:        42,
			LocationBranchID:    7,
			AppointmentDateTime: time.Date(2026, 4, 2, 11, 0, 0, 0, time.UTC),
			Reason:              "консультация по договору",
			Status:              domain.StatusConfirmed,
		},
		assignees: []int64{5, 7},
	}
	branches := &fakeBranchClient{known: map[int64]string{7: "Центральный офис", 9: "Северный офис"}}
	users := &fakeUserClient{users: map[int64]*userservice.User{
		42: {ID: 42, FullName: "Иван Петров", Role: "client"},
		5:  {ID: 5, FullName: "Анна Сидорова", Role: "staff"},
		6:  {ID: 6, FullName: "Олег Кузнецов", Role: "staff"},
		7:  {ID: 7, FullName: "Мария Волкова", Role: "staff"},
		99: {ID: 99, FullName: "Пётр Клиентов", Role: "client"},
	}}
	invalidator := &fakeInvalidator{}

	uc := NewUseCase(repo, branches, users, invalidator, fakeTxManager{}, noopLogger{})
	return uc, repo, invalidator
}

func tagKeys(tags []domain.Tag) []string {
	keys := make([]string, len(tags))
	for i, t := range tags {
		keys[i] = t.Key()
	}
	return keys
}

func TestExecute_ClientForbiddenFields(t *testing.T) {
	uc, repo, _ := fixture()

	req := &Request{
		CallerID:       42,
		Role:           domain.RoleClient,
		Status:         ptr.Ptr("cancelled"),
		NotesByStaff:   ptr.Ptr("комментарий"),
		NewAssigneeIDs: []int64{5},
		AssigneesSet:   true,
	}

	_, err := uc.Execute(context.Background(), 1, req)

	var forbiddenErr *domain.ForbiddenFieldsError
	require.ErrorAs(t, err, &forbiddenErr)
	assert.Equal(t, domain.RoleClient, forbiddenErr.Role)
	assert.ElementsMatch(t, []string{"status", "notesByStaff", "newAssigneeIds"}, forbiddenErr.Fields)
	assert.Zero(t, repo.updateCalls, "repository must not be touched")
}

func TestExecute_ClientAllowedFields(t *testing.T) {
	uc, repo, _ := fixture()

	newDateTime := time.Date(2026, 4, 9, 15, 0, 0, 0, time.UTC)
	req := &Request{
		CallerID:            42,
		Role:                domain.RoleClient,
		AppointmentDateTime: &newDateTime,
		NotesByClient:       ptr.Ptr("прошу перенести на вторую половину дня"),
	}

	resp, err := uc.Execute(context.Background(), 1, req)

	require.NoError(t, err)
	assert.Equal(t, 1, repo.updateCalls)
	assert.Equal(t, newDateTime.Format(time.RFC3339), resp.AppointmentDateTime)
	require.NotNil(t, resp.NotesByClient)
	assert.Equal(t, "прошу перенести на вторую половину дня", *resp.NotesByClient)
}

func TestExecute_ValidationCollectsAllFields(t *testing.T) {
	uc, _, _ := fixture()

	req := &Request{
		CallerID:         50,
		Role:             domain.RoleStaff,
		LocationBranchID: ptr.Ptr(int64(-1)),
		Reason:           ptr.Ptr(""),
		Status:           ptr.Ptr("archived"),
	}

	_, err := uc.Execute(context.Background(), 1, req)

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)

	fields := make([]string, len(validationErr.Fields))
	for i, f := range validationErr.Fields {
		fields[i] = f.Field
	}
	assert.ElementsMatch(t, []string{"locationBranchId", "reason", "status"}, fields)
}

func TestExecute_EmptyUpdateRejected(t *testing.T) {
	uc, _, _ := fixture()

	_, err := uc.Execute(context.Background(), 1, &Request{CallerID: 50, Role: domain.RoleStaff})

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestExecute_InvalidTransition(t *testing.T) {
	uc, repo, _ := fixture()
	repo.appt.Status = domain.StatusCompleted

	req := &Request{
		CallerID: 50,
		Role:     domain.RoleStaff,
		Status:   ptr.Ptr("cancelled"),
	}

	_, err := uc.Execute(context.Background(), 1, req)

	var transitionErr *domain.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, domain.StatusCompleted, transitionErr.From)
	assert.Equal(t, domain.StatusCancelled, transitionErr.To)
	assert.Zero(t, repo.updateCalls)
	assert.Equal(t, domain.StatusCompleted, repo.appt.Status, "state must stay unchanged")
}

func TestExecute_SameStatusIsIdempotent(t *testing.T) {
	uc, repo, _ := fixture()

	req := &Request{
		CallerID: 50,
		Role:     domain.RoleStaff,
		Status:   ptr.Ptr("confirmed"),
	}

	resp, err := uc.Execute(context.Background(), 1, req)

	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Zero(t, repo.updateCalls, "no-op must not issue a write")
}

func TestExecute_ValidTransition(t *testing.T) {
	uc, repo, _ := fixture()

	req := &Request{
		CallerID: 50,
		Role:     domain.RoleStaff,
		Status:   ptr.Ptr("completed"),
	}

	resp, err := uc.Execute(context.Background(), 1, req)

	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, domain.StatusCompleted, repo.appt.Status)
}

func TestExecute_AssigneeDiff(t *testing.T) {
	uc, repo, invalidator := fixture()

	// Текущие [5,7], запрошенные [5,6]: добавить 6, снять 7
	req := &Request{
		CallerID:       50,
		Role:           domain.RoleStaff,
		NewAssigneeIDs: []int64{5, 6},
		AssigneesSet:   true,
	}

	resp, err := uc.Execute(context.Background(), 1, req)

	require.NoError(t, err)
	assert.Equal(t, []int64{6}, repo.added)
	assert.Equal(t, []int64{7}, repo.removed)
	assert.Len(t, resp.Assignees, 2)

	keys := tagKeys(invalidator.tags)
	assert.Contains(t, keys, "assignee:6")
	assert.Contains(t, keys, "assignee:7")
	assert.NotContains(t, keys, "assignee:5", "unchanged assignee must not be invalidated")
}

func TestExecute_ClearAssignees(t *testing.T) {
	uc, repo, _ := fixture()

	req := &Request{
		CallerID:       50,
		Role:           domain.RoleStaff,
		NewAssigneeIDs: []int64{},
		AssigneesSet:   true,
	}

	resp, err := uc.Execute(context.Background(), 1, req)

	require.NoError(t, err)
	assert.Empty(t, repo.assignees)
	assert.ElementsMatch(t, []int64{5, 7}, repo.removed)
	assert.Empty(t, resp.Assignees)
}

func TestExecute_AssigneeMustBeStaff(t *testing.T) {
	uc, repo, _ := fixture()

	req := &Request{
		CallerID:       50,
		Role:           domain.RoleStaff,
		NewAssigneeIDs: []int64{99},
		AssigneesSet:   true,
	}

	_, err := uc.Execute(context.Background(), 1, req)

	require.ErrorIs(t, err, ErrNotStaff)
	assert.Empty(t, repo.added)
}

func TestExecute_UnknownBranch(t *testing.T) {
	uc, _, _ := fixture()

	req := &Request{
		CallerID:         50,
		Role:             domain.RoleStaff,
		LocationBranchID: ptr.Ptr(int64(777)),
	}

	_, err := uc.Execute(context.Background(), 1, req)

	require.ErrorIs(t, err, ErrBranchNotFound)
}

func TestExecute_BranchChangeInvalidatesBothBranches(t *testing.T) {
	uc, _, invalidator := fixture()

	req := &Request{
		CallerID:         50,
		Role:             domain.RoleStaff,
		LocationBranchID: ptr.Ptr(int64(9)),
	}

	_, err := uc.Execute(context.Background(), 1, req)

	require.NoError(t, err)
	keys := tagKeys(invalidator.tags)
	assert.Contains(t, keys, "branch:7")
	assert.Contains(t, keys, "branch:9")
}

func TestExecute_AppointmentNotFound(t *testing.T) {
	uc, _, _ := fixture()

	req := &Request{
		CallerID: 50,
		Role:     domain.RoleStaff,
		Reason:   ptr.Ptr("новая причина"),
	}

	_, err := uc.Execute(context.Background(), 404, req)

	require.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_InvalidationSurvivesRequestCancel(t *testing.T) {
	uc, repo, invalidator := fixture()

	// Отмена запроса после коммита не должна отменить очистку кэша
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := &Request{
		CallerID: 50,
		Role:     domain.RoleStaff,
		Status:   ptr.Ptr("completed"),
	}

	_, err := uc.Execute(ctx, 1, req)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, repo.appt.Status)
	require.NotNil(t, invalidator.ctx)
	assert.NoError(t, invalidator.ctx.Err(), "invalidation must run on a context that outlives the request")
}

func TestExecute_UnknownRoleRejected(t *testing.T) {
	uc, _, _ := fixture()

	req := &Request{
		CallerID: 50,
		Role:     domain.Role("manager"),
		Reason:   ptr.Ptr("новая причина"),
	}

	_, err := uc.Execute(context.Background(), 1, req)

	require.ErrorIs(t, err, domain.ErrUnknownRole)
}
