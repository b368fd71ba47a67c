package update_appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LGS-AppointmentService/internal/api/middleware"
	"github.com/m04kA/LGS-AppointmentService/internal/domain"
	updateAppointment "github.com/m04kA/LGS-AppointmentService/internal/usecase/update_appointment"
)

type fakeUseCase struct {
	gotID  int64
	gotReq *updateAppointment.Request
	resp   *updateAppointment.Response
	err    error
}

func (f *fakeUseCase) Execute(_ context.Context, id int64, req *updateAppointment.Request) (*updateAppointment.Response, error) {
	f.gotID = id
	f.gotReq = req
	return f.resp, f.err
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func doRequest(t *testing.T, uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	t.Helper()

	h := NewHandler(uc, noopLogger{})

	r := mux.NewRouter()
	r.Use(middleware.Auth(noopLogger{}))
	r.HandleFunc("/appointments/{appointmentId}", h.Handle).Methods(http.MethodPut)

	req := httptest.NewRequest(http.MethodPut, "/appointments/17", strings.NewReader(body))
	req.Header.Set("X-User-ID", "50")
	req.Header.Set("X-User-Role", "staff")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	uc := &fakeUseCase{resp: &updateAppointment.Response{ID: 17, Status: "confirmed"}}

	rec := doRequest(t, uc, `{"status": "confirmed", "newAssigneeIds": []}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(17), uc.gotID)
	require.NotNil(t, uc.gotReq.Status)
	assert.Equal(t, "confirmed", *uc.gotReq.Status)

	// Явный пустой список отличается от отсутствия поля
	assert.True(t, uc.gotReq.AssigneesSet)
	assert.Empty(t, uc.gotReq.NewAssigneeIDs)

	var resp updateAppointment.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(17), resp.ID)
}

func TestHandle_AbsentAssigneesNotSet(t *testing.T) {
	uc := &fakeUseCase{resp: &updateAppointment.Response{ID: 17}}

	rec := doRequest(t, uc, `{"reason": "уточнение предмета спора"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, uc.gotReq.AssigneesSet)
}

func TestHandle_InvalidTransitionIsConflict(t *testing.T) {
	uc := &fakeUseCase{err: &domain.InvalidTransitionError{
		From: domain.StatusCompleted,
		To:   domain.StatusCancelled,
	}}

	rec := doRequest(t, uc, `{"status": "cancelled"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandle_ForbiddenFields(t *testing.T) {
	uc := &fakeUseCase{err: &domain.ForbiddenFieldsError{
		Role:   domain.RoleClient,
		Fields: []string{"status"},
	}}

	rec := doRequest(t, uc, `{"status": "cancelled"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandle_ValidationError(t *testing.T) {
	verr := &domain.ValidationError{}
	verr.Add("reason", "не может быть пустым")
	uc := &fakeUseCase{err: verr}

	rec := doRequest(t, uc, `{"reason": ""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_NotFound(t *testing.T) {
	uc := &fakeUseCase{err: updateAppointment.ErrAppointmentNotFound}

	rec := doRequest(t, uc, `{"reason": "новая причина"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandle_BadDateTime(t *testing.T) {
	uc := &fakeUseCase{}

	rec := doRequest(t, uc, `{"appointmentDateTime": "02.04.2026 11:00"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.gotReq, "use case must not be called")
}

func TestHandle_InvalidID(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, noopLogger{})

	r := mux.NewRouter()
	r.Use(middleware.Auth(noopLogger{}))
	r.HandleFunc("/appointments/{appointmentId}", h.Handle).Methods(http.MethodPut)

	req := httptest.NewRequest(http.MethodPut, "/appointments/abc", strings.NewReader(`{}`))
	req.Header.Set("X-User-ID", "50")
	req.Header.Set("X-User-Role", "staff")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
