package create_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LGS-AppointmentService/internal/domain"
	"github.com/m04kA/LGS-AppointmentService/internal/integrations/branchservice"
	"github.com/m04kA/LGS-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/LGS-AppointmentService/pkg/ptr"
)

// fakeRepo репозиторий в памяти, присваивает ID при создании
type fakeRepo struct {
	created   *domain.Appointment
	assignees []int64
}

func (f *fakeRepo) Create(_ context.Context, appt *domain.Appointment, assigneeIDs []int64) (*domain.Appointment, error) {
	copied := *appt
	copied.ID = 101
	copied.CreatedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	copied.UpdatedAt = copied.CreatedAt
	f.created = &copied
	f.assignees = append([]int64(nil), assigneeIDs...)
	return &copied, nil
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
	repo := &fakeRepo{}
	branches := &fakeBranchClient{known: map[int64]string{7: "Центральный офис"}}
	users := &fakeUserClient{users: map[int64]*userservice.User{
		42: {ID: 42, FullName: "Иван Петров", Role: "client"},
		5:  {ID: 5, FullName: "Анна Сидорова", Role: "staff"},
		6:  {ID: 6, FullName: "Олег Кузнецов", Role: "admin"},
		99: {ID: 99, FullName: "Пётр Клиентов", Role: "client"},
	}}
	invalidator := &fakeInvalidator{}

	uc := NewUseCase(repo, branches, users, invalidator, fakeTxManager{}, noopLogger{})
	return uc, repo, invalidator
}

func validStaffRequest() *Request {
	return &Request{
		CallerID:            5,
		Role:                domain.RoleStaff,
		ClientUserID:        42,
		LocationBranchID:    7,
		AppointmentDateTime: time.Date(2026, 4, 2, 11, 0, 0, 0, time.UTC),
		Reason:              "консультация по договору аренды",
		AssigneeIDs:         []int64{5, 6},
	}
}

func TestExecute_Success(t *testing.T) {
	uc, repo, invalidator := fixture()

	resp, err := uc.Execute(context.Background(), validStaffRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, "pending", resp.Status, "every new appointment starts in pending")
	assert.Equal(t, "Центральный офис", resp.BranchName)
	assert.Equal(t, "Иван Петров", resp.ClientName)
	require.Len(t, resp.Assignees, 2)
	assert.Equal(t, "Анна Сидорова", resp.Assignees[0].FullName)

	assert.Equal(t, []int64{5, 6}, repo.assignees)
	assert.NotEmpty(t, invalidator.tags)
}

func TestExecute_StatusAlwaysPending(t *testing.T) {
	uc, repo, _ := fixture()

	// Request не имеет поля статуса - проверяем, что доменная модель
	// создаётся в pending
	_, err := uc.Execute(context.Background(), validStaffRequest())

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, repo.created.Status)
}

func TestExecute_ClientBooksSelf(t *testing.T) {
	uc, _, _ := fixture()

	req := &Request{
		CallerID:            42,
		Role:                domain.RoleClient,
		ClientUserID:        42,
		LocationBranchID:    7,
		AppointmentDateTime: time.Date(2026, 4, 2, 11, 0, 0, 0, time.UTC),
		Reason:              "консультация по наследству",
		NotesByClient:       ptr.Ptr("предпочитаю утро"),
	}

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ClientUserID)
}

func TestExecute_ClientCannotBookOthers(t *testing.T) {
	uc, repo, _ := fixture()

	req := &Request{
		CallerID:            42,
		Role:                domain.RoleClient,
		ClientUserID:        99,
		LocationBranchID:    7,
		AppointmentDateTime: time.Date(2026, 4, 2, 11, 0, 0, 0, time.UTC),
		Reason:              "консультация",
	}

	_, err := uc.Execute(context.Background(), req)

	var forbiddenErr *domain.ForbiddenFieldsError
	require.ErrorAs(t, err, &forbiddenErr)
	assert.Contains(t, forbiddenErr.Fields, "clientUserId")
	assert.Nil(t, repo.created)
}

func TestExecute_ClientForbiddenFields(t *testing.T) {
	uc, _, _ := fixture()

	req := &Request{
		CallerID:            42,
		Role:                domain.RoleClient,
		ClientUserID:        42,
		LocationBranchID:    7,
		AppointmentDateTime: time.Date(2026, 4, 2, 11, 0, 0, 0, time.UTC),
		Reason:              "консультация",
		Party:               ptr.Ptr("ООО Ромашка"),
		NotesByStaff:        ptr.Ptr("заметка"),
		AssigneeIDs:         []int64{5},
	}

	_, err := uc.Execute(context.Background(), req)

	var forbiddenErr *domain.ForbiddenFieldsError
	require.ErrorAs(t, err, &forbiddenErr)
	assert.ElementsMatch(t, []string{"party", "notesByStaff", "assigneeIds"}, forbiddenErr.Fields)
}

func TestExecute_ValidationCollectsAllFields(t *testing.T) {
	uc, _, _ := fixture()

	req := &Request{
		CallerID: 5,
		Role:     domain.RoleStaff,
		// clientUserId, locationBranchId, appointmentDateTime, reason отсутствуют
	}

	_, err := uc.Execute(context.Background(), req)

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)

	fields := make([]string, len(validationErr.Fields))
	for i, f := range validationErr.Fields {
		fields[i] = f.Field
	}
	assert.ElementsMatch(t,
		[]string{"clientUserId", "locationBranchId", "appointmentDateTime", "reason"},
		fields)
}

func TestExecute_UnknownBranch(t *testing.T) {
	uc, _, _ := fixture()

	req := validStaffRequest()
	req.LocationBranchID = 777

	_, err := uc.Execute(context.Background(), req)

	require.ErrorIs(t, err, ErrBranchNotFound)
}

func TestExecute_ClientMustHaveClientRole(t *testing.T) {
	uc, _, _ := fixture()

	req := validStaffRequest()
	req.ClientUserID = 5 // staff

	_, err := uc.Execute(context.Background(), req)

	require.ErrorIs(t, err, ErrNotAClient)
}

func TestExecute_AssigneeMustBeStaff(t *testing.T) {
	uc, _, _ := fixture()

	req := validStaffRequest()
	req.AssigneeIDs = []int64{99}

	_, err := uc.Execute(context.Background(), req)

	require.ErrorIs(t, err, ErrNotStaff)
}

func TestExecute_DuplicateAssigneesCollapsed(t *testing.T) {
	uc, repo, _ := fixture()

	req := validStaffRequest()
	req.AssigneeIDs = []int64{5, 5, 6, 5}

	_, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6}, repo.assignees)
}

func TestExecute_InvalidationTags(t *testing.T) {
	uc, _, invalidator := fixture()

	_, err := uc.Execute(context.Background(), validStaffRequest())
	require.NoError(t, err)

	keys := make([]string, len(invalidator.tags))
	for i, tag := range invalidator.tags {
		keys[i] = tag.Key()
	}
	assert.ElementsMatch(t, []string{
		"all", "appointment:101", "branch:7", "client:42", "assignee:5", "assignee:6",
	}, keys)
}

func TestExecute_InvalidationSurvivesRequestCancel(t *testing.T) {
	uc, repo, invalidator := fixture()

	// Вызывающая сторона бросила запрос сразу после принятия мутации
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.Execute(ctx, validStaffRequest())

	require.NoError(t, err)
	require.NotNil(t, repo.created)
	require.NotNil(t, invalidator.ctx)
	assert.NoError(t, invalidator.ctx.Err(), "invalidation must run on a context that outlives the request")
	assert.NotEmpty(t, invalidator.tags)
}
