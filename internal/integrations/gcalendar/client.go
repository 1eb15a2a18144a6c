// Package gcalendar создает события Google Calendar для новых записей.
package gcalendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ErrInsertFailed возвращается при ошибке Calendar API
var ErrInsertFailed = errors.New("gcalendar: failed to insert event")

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Client синхронизация записей в календарь, только запись
type Client struct {
	events     *calendar.EventsService
	calendarID string
	location   *time.Location
	log        Logger
}

// NewClient создает клиента Calendar API. В production передается option.WithCredentialsFile.
func NewClient(ctx context.Context, calendarID string, location *time.Location, log Logger, opts ...option.ClientOption) (*Client, error) {
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcalendar: failed to create service: %w", err)
	}

	if location == nil {
		location = time.UTC
	}

	return &Client{
		events:     svc.Events,
		calendarID: calendarID,
		location:   location,
		log:        log,
	}, nil
}

// Insert создает событие записи. ID события выводится из ID записи, повторная вставка не создает дубль.
func (c *Client) Insert(ctx context.Context, event domain.CalendarEvent) error {
	ev := &calendar.Event{
		Id:          eventID(event.AppointmentID),
		Summary:     event.Summary,
		Description: event.Description,
		Start: &calendar.EventDateTime{
			DateTime: event.Interval.Start.In(c.location).Format(time.RFC3339),
			TimeZone: c.location.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: event.Interval.End.In(c.location).Format(time.RFC3339),
			TimeZone: c.location.String(),
		},
	}

	created, err := c.events.Insert(c.calendarID, ev).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict {
			c.log.Info("Calendar event %s for appointment id=%d already exists", ev.Id, event.AppointmentID)
			return nil
		}
		return fmt.Errorf("%w: appointment id=%d: %v", ErrInsertFailed, event.AppointmentID, err)
	}

	c.log.Info("Calendar event %s created for appointment id=%d", created.Id, event.AppointmentID)
	return nil
}

// eventID алфавит Calendar API: base32hex в нижнем регистре
func eventID(appointmentID int64) string {
	return fmt.Sprintf("appt%d", appointmentID)
}
