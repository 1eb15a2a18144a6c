package userservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxErrorBody ограничивает чтение тела ответа с ошибкой
const maxErrorBody = 4 << 10

// Client клиент для получения контактов клиентов из UserService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента UserService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// GetContact получает имя и телефон пользователя. Телефон приводится к виду +XXXXXXXX.
func (c *Client) GetContact(ctx context.Context, userID int64) (*Contact, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id must be positive", ErrInternal)
	}

	var contact Contact
	if err := c.getJSON(ctx, fmt.Sprintf("/internal/users/%d/contact", userID), &contact); err != nil {
		return nil, err
	}
	if contact.ID != 0 && contact.ID != userID {
		return nil, fmt.Errorf("%w: requested user %d, got %d", ErrInvalidResponse, userID, contact.ID)
	}

	contact.ID = userID
	contact.Name = strings.TrimSpace(contact.Name)
	contact.Phone = NormalizePhone(contact.Phone)

	return &contact, nil
}

// GetContactWithGracefulDegradation получает контакт пользователя.
// Отсутствие пользователя возвращается как есть, любая другая ошибка превращается
// в ErrServiceDegraded: запись создается без контактов.
func (c *Client) GetContactWithGracefulDegradation(ctx context.Context, userID int64) (*Contact, error) {
	contact, err := c.GetContact(ctx, userID)
	if err == nil {
		return contact, nil
	}

	if errors.Is(err, ErrUserNotFound) {
		c.log.Info("No contact found for user_id=%d", userID)
		return nil, err
	}

	c.log.Error("UserService unavailable, applying graceful degradation for user_id=%d: %v", userID, err)
	return nil, fmt.Errorf("%w: user_id=%d, error=%v", ErrServiceDegraded, userID, err)
}

// getJSON выполняет GET запрос и декодирует успешный ответ в dst
func (c *Client) getJSON(ctx context.Context, path string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrUserNotFound
	default:
		return fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, readErrorMessage(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}

// readErrorMessage достает message из ErrorResponse, иначе возвращает тело как есть
func readErrorMessage(body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))

	var errResp ErrorResponse
	if err := json.Unmarshal(raw, &errResp); err == nil && errResp.Message != "" {
		return errResp.Message
	}
	return strings.TrimSpace(string(raw))
}

// NormalizePhone оставляет только цифры и ведущий плюс. Пустая строка, если цифр нет.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}

	digits := strings.TrimPrefix(b.String(), "+")
	if digits == "" {
		return ""
	}
	return "+" + digits
}
