package cache

import (
	"fmt"
	"strings"

	"github.com/m04kA/LGS-AppointmentService/internal/domain"
)

// ListKey строит детерминированный ключ кэша для спецификации фильтра.
// Одинаковые фильтры всегда дают одинаковый ключ, порядок полей фиксирован.
func ListKey(filter domain.AppointmentFilter, search string) string {
	parts := make([]string, 0, 7)

	if filter.Status != nil {
		parts = append(parts, "status="+string(*filter.Status))
	}
	if filter.BranchID != nil {
		parts = append(parts, fmt.Sprintf("branch=%d", *filter.BranchID))
	}
	if filter.ClientID != nil {
		parts = append(parts, fmt.Sprintf("client=%d", *filter.ClientID))
	}
	if filter.AssigneeID != nil {
		parts = append(parts, fmt.Sprintf("assignee=%d", *filter.AssigneeID))
	}
	if filter.DateTimeFrom != nil {
		parts = append(parts, "from="+filter.DateTimeFrom.UTC().Format(domain.DateTimeFormat))
	}
	if filter.DateTimeTo != nil {
		parts = append(parts, "to="+filter.DateTimeTo.UTC().Format(domain.DateTimeFormat))
	}
	if search != "" {
		parts = append(parts, "search="+strings.ToLower(search))
	}

	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, "|")
}
