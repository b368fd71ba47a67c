package update_appointment

import (
	"fmt"

	"github.com/m04kA/LGS-AppointmentService/internal/domain"
)

// checkFieldPermissions проверяет полевые права роли.
// Клиент может менять только appointment_datetime (запрос переноса)
// и notes_by_client; любое другое присланное поле отклоняется с
// перечислением нарушений, а не отбрасывается молча.
// Staff и admin не ограничены.
func checkFieldPermissions(req *Request) error {
	switch req.Role {
	case domain.RoleClient:
		forbidden := make([]string, 0, 6)
		if req.LocationBranchID != nil {
			forbidden = append(forbidden, "locationBranchId")
		}
		if req.Party != nil {
			forbidden = append(forbidden, "party")
		}
		if req.Reason != nil {
			forbidden = append(forbidden, "reason")
		}
		if req.Status != nil {
			forbidden = append(forbidden, "status")
		}
		if req.NotesByStaff != nil {
			forbidden = append(forbidden, "notesByStaff")
		}
		if req.AssigneesSet {
			forbidden = append(forbidden, "newAssigneeIds")
		}
		if len(forbidden) > 0 {
			return &domain.ForbiddenFieldsError{Role: req.Role, Fields: forbidden}
		}
		return nil
	case domain.RoleStaff, domain.RoleAdmin:
		return nil
	default:
		return domain.ErrUnknownRole
	}
}

// validateRequest валидирует значения присланных полей,
// собирая все нарушения сразу
func validateRequest(req *Request) error {
	verr := &domain.ValidationError{}

	if req.IsEmpty() {
		verr.Add("body", "обновление не содержит изменений")
	}

	if req.LocationBranchID != nil && *req.LocationBranchID <= 0 {
		verr.Add("locationBranchId", "должно быть положительным")
	}
	if req.AppointmentDateTime != nil && req.AppointmentDateTime.IsZero() {
		verr.Add("appointmentDateTime", "некорректная дата и время")
	}
	if req.Reason != nil {
		if *req.Reason == "" {
			verr.Add("reason", "не может быть пустым")
		} else if len(*req.Reason) > domain.MaxReasonLength {
			verr.Add("reason", "превышена максимальная длина")
		}
	}
	if req.Party != nil && len(*req.Party) > domain.MaxPartyLength {
		verr.Add("party", "превышена максимальная длина")
	}
	if req.NotesByClient != nil && len(*req.NotesByClient) > domain.MaxNotesLength {
		verr.Add("notesByClient", "превышена максимальная длина")
	}
	if req.NotesByStaff != nil && len(*req.NotesByStaff) > domain.MaxNotesLength {
		verr.Add("notesByStaff", "превышена максимальная длина")
	}

	if req.Status != nil && !domain.AppointmentStatus(*req.Status).IsValid() {
		verr.Add("status", fmt.Sprintf("неизвестный статус %q", *req.Status))
	}

	for _, id := range req.NewAssigneeIDs {
		if id <= 0 {
			verr.Add("newAssigneeIds", "идентификаторы сотрудников должны быть положительными")
			break
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// diffAssignees вычисляет изменение множества назначений:
// toAdd = requested - current, toRemove = current - requested
func diffAssignees(current, requested []int64) (toAdd, toRemove []int64) {
	currentSet := make(map[int64]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}
	requestedSet := make(map[int64]struct{}, len(requested))
	for _, id := range requested {
		requestedSet[id] = struct{}{}
	}

	for _, id := range requested {
		if _, ok := currentSet[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range current {
		if _, ok := requestedSet[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}

	return toAdd, toRemove
}
