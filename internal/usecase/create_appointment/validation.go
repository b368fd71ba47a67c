package create_appointment

import (
	"github.com/m04kA/LGS-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса.
// Собирает ВСЕ некорректные поля сразу - вызывающая сторона получает
// полный список проблем, а не первую попавшуюся.
func validateRequest(req *Request) error {
	verr := &domain.ValidationError{}

	if req.ClientUserID <= 0 {
		verr.Add("clientUserId", "обязательное поле, должно быть положительным")
	}
	if req.LocationBranchID <= 0 {
		verr.Add("locationBranchId", "обязательное поле, должно быть положительным")
	}
	if req.AppointmentDateTime.IsZero() {
		verr.Add("appointmentDateTime", "обязательное поле")
	}
	if req.Reason == "" {
		verr.Add("reason", "обязательное поле")
	} else if len(req.Reason) > domain.MaxReasonLength {
		verr.Add("reason", "превышена максимальная длина")
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

	for _, id := range req.AssigneeIDs {
		if id <= 0 {
			verr.Add("assigneeIds", "идентификаторы сотрудников должны быть положительными")
			break
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// checkFieldPermissions проверяет полевые права роли при создании.
// Клиент создаёт запись только для себя и не управляет назначениями,
// party и заметками сотрудников; staff и admin не ограничены.
func checkFieldPermissions(req *Request) error {
	switch req.Role {
	case domain.RoleClient:
		forbidden := make([]string, 0, 4)
		if req.ClientUserID != req.CallerID {
			forbidden = append(forbidden, "clientUserId")
		}
		if req.Party != nil {
			forbidden = append(forbidden, "party")
		}
		if req.NotesByStaff != nil {
			forbidden = append(forbidden, "notesByStaff")
		}
		if len(req.AssigneeIDs) > 0 {
			forbidden = append(forbidden, "assigneeIds")
		}
		if len(forbidden) > 0 {
			return &domain.ForbiddenFieldsError{Role: req.Role, Fields: forbidden}
		}
		return nil
	case domain.RoleStaff, domain.RoleAdmin:
		return nil
	default:
		// Закрытый набор ролей: сюда попадает только значение,
		// не прошедшее ParseRole
		return domain.ErrUnknownRole
	}
}

// uniqueAssignees приводит список назначений к множеству,
// сохраняя порядок первого вхождения
func uniqueAssignees(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
