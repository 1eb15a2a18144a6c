package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// CreateBlockedRangeRequest запрос на создание блокировки
type CreateBlockedRangeRequest struct {
	UserID     int64     `json:"-"`
	BusinessID int64     `json:"-"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Reason     *string   `json:"reason,omitempty"`
}

// ListBlockedRangesRequest запрос на получение блокировок за период
type ListBlockedRangesRequest struct {
	UserID     int64
	BusinessID int64
	From       *time.Time // По умолчанию текущий момент
	To         *time.Time // По умолчанию From + максимальный период выборки
}

// BlockedRangeResponse ответ с данными блокировки
type BlockedRangeResponse struct {
	ID         int64     `json:"id"`
	BusinessID int64     `json:"businessId"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Reason     *string   `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BlockedRangeListResponse ответ со списком блокировок
type BlockedRangeListResponse struct {
	BlockedRanges []BlockedRangeResponse `json:"blockedRanges"`
}

// FromDomainBlockedRange конвертирует domain модель в DTO
func FromDomainBlockedRange(br *domain.BlockedRange, loc *time.Location) *BlockedRangeResponse {
	if br == nil {
		return nil
	}

	return &BlockedRangeResponse{
		ID:         br.ID,
		BusinessID: br.BusinessID,
		Start:      br.Interval.Start.In(loc),
		End:        br.Interval.End.In(loc),
		Reason:     br.Reason,
		CreatedAt:  br.CreatedAt.In(loc),
	}
}

// FromDomainBlockedRangeList конвертирует список domain моделей в DTO
func FromDomainBlockedRangeList(ranges []*domain.BlockedRange, loc *time.Location) *BlockedRangeListResponse {
	resp := &BlockedRangeListResponse{
		BlockedRanges: make([]BlockedRangeResponse, 0, len(ranges)),
	}

	for _, br := range ranges {
		if r := FromDomainBlockedRange(br, loc); r != nil {
			resp.BlockedRanges = append(resp.BlockedRanges, *r)
		}
	}

	return resp
}
