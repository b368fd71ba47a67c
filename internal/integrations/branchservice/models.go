package branchservice

// Branch модель филиала из реестра филиалов
type Branch struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	ContactPhone string `json:"contact_phone"`
}

// ErrorResponse модель ошибки от реестра филиалов
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
