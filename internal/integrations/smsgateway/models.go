package smsgateway

// SendRequest тело запроса отправки SMS
type SendRequest struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`
	Text string `json:"text"`
}

// SendResponse ответ шлюза на отправку
type SendResponse struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
}

// ErrorResponse ответ шлюза с ошибкой
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
