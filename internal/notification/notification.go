// Package notification описывает получателя уведомлений, тексты сообщений
// и транспорт, который пишет сообщения в лог.
package notification

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoDestination возвращается транспортом, если у получателя нет нужного адреса
var ErrNoDestination = errors.New("notification: recipient has no destination for transport")

// Recipient адресат уведомления. SMS использует Phone, Telegram использует UserID как chat id.
type Recipient struct {
	UserID int64
	Phone  string
}

func (r Recipient) String() string {
	return fmt.Sprintf("user=%d phone=%q", r.UserID, r.Phone)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// LogNotifier пишет сообщения в лог вместо отправки
type LogNotifier struct {
	log Logger
}

// NewLogNotifier создает транспорт уведомлений в лог
func NewLogNotifier(log Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Send пишет сообщение в лог
func (n *LogNotifier) Send(_ context.Context, to Recipient, body string) error {
	n.log.Info("Notification to %s: %s", to, body)
	return nil
}
