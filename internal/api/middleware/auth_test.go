package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LGS-AppointmentService/internal/domain"
)

type noopLogger struct{}

func (noopLogger) Warn(string, ...interface{}) {}

func callAuth(t *testing.T, headers map[string]string) (*httptest.ResponseRecorder, int64, domain.Role, bool) {
	t.Helper()

	var (
		gotUserID int64
		gotRole   domain.Role
		called    bool
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotUserID, _ = GetUserID(r.Context())
		gotRole, _ = GetRole(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()

	Auth(noopLogger{})(next).ServeHTTP(rec, req)
	return rec, gotUserID, gotRole, called
}

func TestAuth_ValidHeaders(t *testing.T) {
	rec, userID, role, called := callAuth(t, map[string]string{
		"X-User-ID":   "42",
		"X-User-Role": "staff",
	})

	require.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, domain.RoleStaff, role)
}

func TestAuth_MissingUserID(t *testing.T) {
	rec, _, _, called := callAuth(t, map[string]string{"X-User-Role": "client"})

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_InvalidUserID(t *testing.T) {
	for _, bad := range []string{"abc", "-5", "0"} {
		rec, _, _, called := callAuth(t, map[string]string{
			"X-User-ID":   bad,
			"X-User-Role": "client",
		})

		assert.False(t, called, "user id %q must be rejected", bad)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}

func TestAuth_UnknownRoleRejected(t *testing.T) {
	// Неизвестная роль отклоняется, а не сводится к роли по умолчанию
	for _, bad := range []string{"", "manager", "Client"} {
		rec, _, _, called := callAuth(t, map[string]string{
			"X-User-ID":   "42",
			"X-User-Role": bad,
		})

		assert.False(t, called, "role %q must be rejected", bad)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	}
}
