package userservice

// User модель пользователя из справочника пользователей
type User struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"` // client | staff | admin
}

// ErrorResponse модель ошибки от справочника пользователей
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
