package smsgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-AppointmentService/internal/notification"
)

// Client клиент HTTP SMS-шлюза. Реализует транспорт уведомлений.
type Client struct {
	baseURL    string
	token      string
	sender     string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        Logger
}

// NewClient создает новый экземпляр клиента шлюза.
// ratePerSecond и burst ограничивают частоту отправки со всего процесса.
func NewClient(baseURL, token, sender string, timeout time.Duration, ratePerSecond float64, burst int, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		sender:  sender,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
		log:     log,
	}
}

// Send отправляет SMS на телефон получателя
func (c *Client) Send(ctx context.Context, to notification.Recipient, body string) error {
	if to.Phone == "" {
		return fmt.Errorf("%w: %s has no phone", notification.ErrNoDestination, to)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", ErrInternal, err)
	}

	payload, err := json.Marshal(SendRequest{From: c.sender, To: to.Phone, Text: body})
	if err != nil {
		return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		// Продолжаем обработку
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		var errResp ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return fmt.Errorf("%w: %s", ErrRejected, errResp.Message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInternal, resp.StatusCode, string(respBody))
	}

	var sent SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sent); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	c.log.Info("SMS to %s accepted by gateway: id=%s status=%s", to.Phone, sent.MessageID, sent.Status)
	return nil
}
