package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterValidate(t *testing.T) {
	from := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 20, 18, 0, 0, 0, time.UTC)
	badStatus := AppointmentStatus("archived")
	goodStatus := StatusPending

	tests := []struct {
		name    string
		filter  AppointmentFilter
		wantErr bool
	}{
		{"empty filter", AppointmentFilter{}, false},
		{"valid status", AppointmentFilter{Status: &goodStatus}, false},
		{"unknown status", AppointmentFilter{Status: &badStatus}, true},
		{"valid range", AppointmentFilter{DateTimeFrom: &from, DateTimeTo: &to}, false},
		{"inverted range", AppointmentFilter{DateTimeFrom: &to, DateTimeTo: &from}, true},
		{"equal bounds are inclusive", AppointmentFilter{DateTimeFrom: &from, DateTimeTo: &from}, false},
		{"only lower bound", AppointmentFilter{DateTimeFrom: &from}, false},
		{"only upper bound", AppointmentFilter{DateTimeTo: &to}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidFilter)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"client", "staff", "admin"} {
		role, err := ParseRole(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, string(role))
	}

	for _, invalid := range []string{"", "manager", "Client", "ADMIN"} {
		_, err := ParseRole(invalid)
		assert.ErrorIs(t, err, ErrUnknownRole, "role %q must be rejected", invalid)
	}
}

func TestRoleIsStaffLevel(t *testing.T) {
	assert.False(t, RoleClient.IsStaffLevel())
	assert.True(t, RoleStaff.IsStaffLevel())
	assert.True(t, RoleAdmin.IsStaffLevel())
}
