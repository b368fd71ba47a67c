package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/LGS-AppointmentService/internal/service/appointments/models"
)

// ParseListQuery разбирает query-параметры выборки записей.
// Поддерживаются: status, branchId, clientId, assigneeId,
// dateTimeFrom, dateTimeTo (RFC3339), search.
// Семантическую валидацию комбинаций выполняет доменный фильтр.
func ParseListQuery(r *http.Request) (*models.ListAppointmentsRequest, error) {
	q := r.URL.Query()
	req := &models.ListAppointmentsRequest{}

	if status := q.Get("status"); status != "" {
		req.Status = &status
	}

	var err error
	if req.BranchID, err = parseOptionalInt64(q.Get("branchId"), "branchId"); err != nil {
		return nil, err
	}
	if req.ClientID, err = parseOptionalInt64(q.Get("clientId"), "clientId"); err != nil {
		return nil, err
	}
	if req.AssigneeID, err = parseOptionalInt64(q.Get("assigneeId"), "assigneeId"); err != nil {
		return nil, err
	}

	if req.DateTimeFrom, err = parseOptionalTime(q.Get("dateTimeFrom"), "dateTimeFrom"); err != nil {
		return nil, err
	}
	if req.DateTimeTo, err = parseOptionalTime(q.Get("dateTimeTo"), "dateTimeTo"); err != nil {
		return nil, err
	}

	req.Search = q.Get("search")

	return req, nil
}

func parseOptionalInt64(value, name string) (*int64, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("некорректный параметр %s", name)
	}
	return &parsed, nil
}

func parseOptionalTime(value, name string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("некорректный параметр %s, ожидается RFC3339", name)
	}
	return &parsed, nil
}
