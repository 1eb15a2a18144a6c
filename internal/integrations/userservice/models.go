package userservice

// Contact контактные данные пользователя из UserService
type Contact struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// HasPhone true, если по контакту можно отправить SMS
func (c *Contact) HasPhone() bool {
	return c != nil && c.Phone != ""
}

// ErrorResponse тело ответа с ошибкой от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
