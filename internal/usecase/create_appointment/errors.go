package create_appointment

import "errors"

var (
	// ErrBranchNotFound возвращается, когда филиал не найден в реестре
	ErrBranchNotFound = errors.New("branch not found")

	// ErrClientNotFound возвращается, когда клиент не найден в справочнике
	ErrClientNotFound = errors.New("client user not found")

	// ErrAssigneeNotFound возвращается, когда назначаемый сотрудник не найден
	ErrAssigneeNotFound = errors.New("assignee user not found")

	// ErrNotAClient возвращается, когда указанный client_user_id
	// принадлежит пользователю без роли client
	ErrNotAClient = errors.New("user is not a client")

	// ErrNotStaff возвращается при попытке назначить пользователя без роли staff
	ErrNotStaff = errors.New("assignee is not a staff user")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках use case
	ErrInternal = errors.New("create_appointment: internal error")
)
