package update_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrBranchNotFound возвращается, когда новый филиал не найден в реестре
	ErrBranchNotFound = errors.New("branch not found")

	// ErrAssigneeNotFound возвращается, когда назначаемый сотрудник не найден
	ErrAssigneeNotFound = errors.New("assignee user not found")

	// ErrNotStaff возвращается при попытке назначить пользователя без роли staff
	ErrNotStaff = errors.New("assignee is not a staff user")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках use case
	ErrInternal = errors.New("update_appointment: internal error")
)
