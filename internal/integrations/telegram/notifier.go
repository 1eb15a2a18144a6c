// Package telegram отправляет уведомления через Telegram бота.
// Chat id получателя совпадает с его Telegram user id.
package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbot "github.com/go-telegram/bot"

	"github.com/m04kA/SMC-AppointmentService/internal/notification"
)

// ErrSendFailed возвращается при ошибке Bot API
var ErrSendFailed = errors.New("telegram: failed to send message")

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Notifier транспорт уведомлений поверх Telegram Bot API
type Notifier struct {
	bot *tgbot.Bot
	log Logger
}

// NewNotifier создает бота. Без опций бот проверяет токен запросом getMe.
func NewNotifier(token string, log Logger, opts ...tgbot.Option) (*Notifier, error) {
	b, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("telegram: failed to create bot: %w", err)
	}

	return &Notifier{bot: b, log: log}, nil
}

// Send отправляет сообщение в личный чат пользователя
func (n *Notifier) Send(ctx context.Context, to notification.Recipient, body string) error {
	if to.UserID <= 0 {
		return fmt.Errorf("%w: %s has no telegram user", notification.ErrNoDestination, to)
	}

	msg, err := n.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: to.UserID,
		Text:   body,
	})
	if err != nil {
		return fmt.Errorf("%w: chat=%d: %v", ErrSendFailed, to.UserID, err)
	}

	n.log.Info("Telegram message %d sent to chat=%d", msg.ID, to.UserID)
	return nil
}
