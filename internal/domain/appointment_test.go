package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testTime() time.Time {
	return time.Date(2026, 3, 12, 14, 30, 0, 0, time.UTC)
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to completed skips confirmation", StatusPending, StatusCompleted, false},
		{"confirmed to completed", StatusConfirmed, StatusCompleted, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"confirmed back to pending", StatusConfirmed, StatusPending, false},
		{"completed is terminal", StatusCompleted, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"cancelled cannot be confirmed", StatusCancelled, StatusConfirmed, false},
		{"same status is an idempotent no-op", StatusConfirmed, StatusConfirmed, true},
		{"same terminal status is still a no-op", StatusCompleted, StatusCompleted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, s.IsValid(), "status %q must be valid", s)
	}

	assert.False(t, AppointmentStatus("archived").IsValid())
	assert.False(t, AppointmentStatus("").IsValid())
	assert.False(t, AppointmentStatus("PENDING").IsValid())
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}

func TestAppointmentLifecycleFlags(t *testing.T) {
	active := &Appointment{Status: StatusConfirmed}
	assert.True(t, active.IsActive())
	assert.True(t, active.CanBeUpdated())
	assert.False(t, active.IsDeleted())

	done := &Appointment{Status: StatusCompleted}
	assert.False(t, done.IsActive())
	// Заметки дополняемы и после завершения
	assert.True(t, done.CanBeUpdated())

	now := testTime()
	deleted := &Appointment{Status: StatusPending, DeletedAt: &now}
	assert.True(t, deleted.IsDeleted())
	assert.False(t, deleted.IsActive())
	assert.False(t, deleted.CanBeUpdated())
}
