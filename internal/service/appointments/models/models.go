package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID             int64   `json:"userId"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// GetClientAppointmentsRequest запрос на получение записей клиента
type GetClientAppointmentsRequest struct {
	UserID           int64   `json:"userId"`
	ClientID         int64   `json:"clientId"`
	Status           *string `json:"status,omitempty"`
	IncludeCancelled bool    `json:"includeCancelled,omitempty"`
}

// GetBusinessAppointmentsRequest запрос на получение записей бизнеса
type GetBusinessAppointmentsRequest struct {
	UserID           int64      `json:"userId"`
	BusinessID       int64      `json:"businessId"`
	StartDate        *time.Time `json:"startDate,omitempty"` // Начало периода, включительно
	EndDate          *time.Time `json:"endDate,omitempty"`   // Последний день периода, включительно
	Status           *string    `json:"status,omitempty"`
	IncludeCancelled bool       `json:"includeCancelled,omitempty"`
}

// Response модели

// ReminderStateResponse время отправки напоминаний
type ReminderStateResponse struct {
	DayBeforeSentAt  *time.Time `json:"dayBeforeSentAt,omitempty"`
	HourBeforeSentAt *time.Time `json:"hourBeforeSentAt,omitempty"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID         int64     `json:"id"`
	BusinessID int64     `json:"businessId"`
	ClientID   int64     `json:"clientId"`
	ServiceID  int64     `json:"serviceId"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Status     string    `json:"status"`

	// Денормализованные данные
	ServiceName string `json:"serviceName"`
	ClientName  string `json:"clientName,omitempty"`
	ClientPhone string `json:"clientPhone,omitempty"`

	Reminders ReminderStateResponse `json:"reminders"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO.
// Статус completed вычисляется относительно now.
func FromDomainAppointment(a *domain.Appointment, now time.Time, loc *time.Location) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		BusinessID:         a.BusinessID,
		ClientID:           a.ClientID,
		ServiceID:          a.ServiceID,
		StartTime:          a.Interval.Start.In(loc),
		EndTime:            a.Interval.End.In(loc),
		Status:             string(a.EffectiveStatus(now)),
		ServiceName:        a.ServiceName,
		ClientName:         a.ClientName,
		ClientPhone:        a.ClientPhone,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt.In(loc),
		UpdatedAt:          a.UpdatedAt.In(loc),
		Reminders: ReminderStateResponse{
			DayBeforeSentAt:  a.Reminders.DayBefore.SentAt,
			HourBeforeSentAt: a.Reminders.HourBefore.SentAt,
		},
	}

	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.In(loc).Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment, now time.Time, loc *time.Location) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if r := FromDomainAppointment(a, now, loc); r != nil {
			resp.Appointments = append(resp.Appointments, *r)
		}
	}

	return resp
}

// ToDomainAppointmentStatus конвертирует строку в статус с валидацией (включая вычисляемый completed)
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	switch s := domain.AppointmentStatus(status); s {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCancelled, domain.StatusCompleted:
		return s, nil
	default:
		return "", ErrInvalidStatus
	}
}
