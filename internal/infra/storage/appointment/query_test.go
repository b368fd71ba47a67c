package appointment

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LGS-AppointmentService/internal/domain"
	"github.com/m04kA/LGS-AppointmentService/pkg/ptr"
)

// wantListSQL собирает ожидаемый SELECT: список колонок и сортировка
// одинаковы для всех комбинаций фильтра
func wantListSQL(join, where string) string {
	cols := strings.Join(prefixColumns("a", appointmentColumns), ", ")
	return "SELECT " + cols + " FROM appointments a" + join + where +
		" ORDER BY a.appointment_datetime ASC, a.id ASC"
}

func TestBuildListQuery_EmptyFilter(t *testing.T) {
	query, args, err := buildListQuery(domain.AppointmentFilter{})

	require.NoError(t, err)
	assert.Equal(t, wantListSQL("", " WHERE a.deleted_at IS NULL"), query)
	assert.Empty(t, args)
}

func TestBuildListQuery_DimensionsCombineWithAnd(t *testing.T) {
	status := domain.StatusPending
	filter := domain.AppointmentFilter{
		Status:   &status,
		BranchID: ptr.Ptr(int64(7)),
		ClientID: ptr.Ptr(int64(42)),
	}

	query, args, err := buildListQuery(filter)

	require.NoError(t, err)
	assert.Equal(t, wantListSQL("",
		" WHERE a.deleted_at IS NULL"+
			" AND a.status = $1"+
			" AND a.location_branch_id = $2"+
			" AND a.client_user_id = $3"), query)
	assert.Equal(t, []interface{}{domain.StatusPending, int64(7), int64(42)}, args)
}

func TestBuildListQuery_AssigneeDimensionJoins(t *testing.T) {
	filter := domain.AppointmentFilter{AssigneeID: ptr.Ptr(int64(5))}

	query, args, err := buildListQuery(filter)

	require.NoError(t, err)
	assert.Equal(t, wantListSQL(
		" JOIN appointment_assignees aa ON aa.appointment_id = a.id",
		" WHERE a.deleted_at IS NULL AND aa.user_id = $1"), query)
	assert.Equal(t, []interface{}{int64(5)}, args)
}

func TestBuildListQuery_TimeBoundsAreInclusive(t *testing.T) {
	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 30, 23, 59, 59, 0, time.UTC)
	filter := domain.AppointmentFilter{
		DateTimeFrom: &from,
		DateTimeTo:   &to,
	}

	query, args, err := buildListQuery(filter)

	require.NoError(t, err)
	assert.Equal(t, wantListSQL("",
		" WHERE a.deleted_at IS NULL"+
			" AND a.appointment_datetime >= $1"+
			" AND a.appointment_datetime <= $2"), query)
	assert.Equal(t, []interface{}{from, to}, args)
}

func TestBuildListQuery_IncludeDeletedDropsExclusion(t *testing.T) {
	// Audit-выборка: единственный случай, когда deleted_at не фильтруется
	query, args, err := buildListQuery(domain.AppointmentFilter{IncludeDeleted: true})

	require.NoError(t, err)
	assert.Equal(t, wantListSQL("", ""), query)
	assert.Empty(t, args)
}
