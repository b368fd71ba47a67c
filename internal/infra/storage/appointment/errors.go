package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	// или уже помечена удалённой
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")

	// ErrEmptyUpdate возвращается при попытке применить пустое обновление
	ErrEmptyUpdate = errors.New("appointment.repository: empty update")
)
