package model

import (
	"fmt"
	"time"
)

type SwapStatus string

const (
	SwapStatusPending  SwapStatus = "PENDING"  // ожидает ответа
	SwapStatusAccepted SwapStatus = "ACCEPTED" // обмен выполнен
	SwapStatusRejected SwapStatus = "REJECTED" // отклонено
)

// SwapRequest одна попытка обмена двумя слотами. Записи не удаляются.
type SwapRequest struct {
	ID              int64      `json:"id"`
	OfferedSlotID   int64      `json:"mySlotId"`
	RequestedSlotID int64      `json:"theirSlotId"`
	ProposerID      int64      `json:"requesterId"`
	ResponderID     int64      `json:"responderId"`
	Status          SwapStatus `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	ResolvedAt      *time.Time `json:"resolvedAt,omitempty"`

	// Снимки слотов для отображения (не часть записи журнала)
	OfferedSlot   *Slot `json:"mySlot,omitempty"`
	RequestedSlot *Slot `json:"theirSlot,omitempty"`
}

// IsPending checks if the request still awaits a response
func (r *SwapRequest) IsPending() bool {
	return r.Status == SwapStatusPending
}

// Clone returns a copy without shared pointers
func (r *SwapRequest) Clone() *SwapRequest {
	if r == nil {
		return nil
	}
	c := *r
	if r.ResolvedAt != nil {
		t := *r.ResolvedAt
		c.ResolvedAt = &t
	}
	c.OfferedSlot = r.OfferedSlot.Clone()
	c.RequestedSlot = r.RequestedSlot.Clone()
	return &c
}

// Resolve returns the terminal status for a response to a pending request
func Resolve(from SwapStatus, accept bool) (SwapStatus, error) {
	if from != SwapStatusPending {
		return "", fmt.Errorf("%w: status is %s", ErrAlreadyResolved, from)
	}
	if accept {
		return SwapStatusAccepted, nil
	}
	return SwapStatusRejected, nil
}

// SwapRequests groups a user's ledger entries by direction
type SwapRequests struct {
	Incoming []*SwapRequest `json:"incoming"`
	Outgoing []*SwapRequest `json:"outgoing"`
}
