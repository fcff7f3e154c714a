package httpdto

import (
	"time"

	"github.com/shopspring/decimal"

	"gigmarket/internal/domain"
)

// CreateOrderRequest is used for POST /gigs/:id/order. Amount defaults
// to the gig price when omitted.
type CreateOrderRequest struct {
	Signature    string          `json:"signature" binding:"required"`
	BuyerAddress string          `json:"buyer_address"`
	Amount       decimal.Decimal `json:"amount"`
}

// UpdateStatusRequest is used for PATCH /orders/:id/status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListOrdersRequest holds query parameters for GET /orders
type ListOrdersRequest struct {
	Role string `form:"role" binding:"required,oneof=buyer seller"`
}

// OrderDTO augments the stored order with its state machine position.
type OrderDTO struct {
	ID           string          `json:"id"`
	GigID        string          `json:"gig_id"`
	BuyerID      string          `json:"buyer_id"`
	SellerID     string          `json:"seller_id"`
	Status       string          `json:"status"`
	StatusLabel  string          `json:"status_label"`
	NextStatuses []string        `json:"next_statuses"`
	Amount       decimal.Decimal `json:"amount"`
	Signature    string          `json:"signature"`
	BuyerAddress string          `json:"buyer_address,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func NewOrderDTO(o domain.Order) OrderDTO {
	next := o.Status.NextStatuses()
	nextStr := make([]string, len(next))
	for i, s := range next {
		nextStr[i] = string(s)
	}
	return OrderDTO{
		ID:           o.ID.String(),
		GigID:        o.GigID.String(),
		BuyerID:      o.BuyerID.String(),
		SellerID:     o.SellerID.String(),
		Status:       string(o.Status),
		StatusLabel:  o.Status.Label(),
		NextStatuses: nextStr,
		Amount:       o.Amount,
		Signature:    o.Signature,
		BuyerAddress: o.BuyerAddress,
		CreatedAt:    o.CreatedAt,
	}
}
