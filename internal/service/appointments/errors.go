package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidFilter возвращается при синтаксически некорректном фильтре.
	// Некорректный фильтр отклоняется до обращения к хранилищу и никогда
	// не превращается молча в пустую или неотфильтрованную выборку.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
