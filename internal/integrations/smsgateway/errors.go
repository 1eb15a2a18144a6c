package smsgateway

import "errors"

var (
	// ErrRejected возвращается, когда шлюз отклонил сообщение (неверный номер, тело)
	ErrRejected = errors.New("smsgateway: message rejected")

	// ErrUnauthorized возвращается при неверном токене шлюза
	ErrUnauthorized = errors.New("smsgateway: unauthorized")

	// ErrInternal возвращается при сетевых ошибках и ошибках шлюза
	ErrInternal = errors.New("smsgateway: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе шлюза
	ErrInvalidResponse = errors.New("smsgateway: invalid response")
)
