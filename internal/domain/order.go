package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the fulfillment state of an order. Transitions are driven
// exclusively by the seller and must follow the edges in statusTable.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusPaid       Status = "PAID"
	StatusStarted    Status = "STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReview     Status = "REVIEW"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// StatusInfo carries everything the application knows about a status:
// the legal next states and the display metadata. Keeping both in one
// table means validation and presentation can never diverge.
type StatusInfo struct {
	Label       string
	Icon        string
	Title       string
	Description string
	Next        []Status
}

var statusTable = map[Status]StatusInfo{
	StatusPending: {
		Label: "Pending",
		Icon:  "clock",
		Title: "Pending",
	},
	StatusPaid: {
		Label:       "Paid",
		Icon:        "check-circle",
		Title:       "Payment Received",
		Description: "Payment has been confirmed on the blockchain",
		Next:        []Status{StatusStarted},
	},
	StatusStarted: {
		Label:       "Started",
		Icon:        "play-circle",
		Title:       "Work Started",
		Description: "Seller has started working on the order",
		Next:        []Status{StatusInProgress},
	},
	StatusInProgress: {
		Label:       "In Progress",
		Icon:        "hourglass",
		Title:       "In Progress",
		Description: "Work is actively being done",
		Next:        []Status{StatusReview},
	},
	StatusReview: {
		Label:       "In Review",
		Icon:        "file-check",
		Title:       "In Review",
		Description: "Work is ready for review",
		Next:        []Status{StatusCompleted, StatusInProgress},
	},
	StatusCompleted: {
		Label:       "Completed",
		Icon:        "star",
		Title:       "Completed",
		Description: "Order has been completed successfully",
	},
	StatusCancelled: {
		Label:       "Cancelled",
		Icon:        "x-circle",
		Title:       "Cancelled",
		Description: "Order has been cancelled",
	},
}

func (s Status) Valid() bool {
	_, ok := statusTable[s]
	return ok
}

func (s Status) Info() StatusInfo {
	return statusTable[s]
}

func (s Status) Label() string {
	return statusTable[s].Label
}

// NextStatuses returns the statuses reachable from s in one transition.
func (s Status) NextStatuses() []Status {
	next := statusTable[s].Next
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether s -> to is an edge of the status graph.
func (s Status) CanTransition(to Status) bool {
	for _, n := range statusTable[s].Next {
		if n == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the status has no outgoing transitions.
func (s Status) Terminal() bool {
	return s.Valid() && len(statusTable[s].Next) == 0
}

// AllStatuses returns every known status, happy path first.
func AllStatuses() []Status {
	return []Status{
		StatusPending, StatusPaid, StatusStarted,
		StatusInProgress, StatusReview, StatusCompleted, StatusCancelled,
	}
}

// Order is a single purchase of a gig between a buyer and a seller.
// Everything except status is immutable after creation.
type Order struct {
	ID           uuid.UUID       `json:"id"`
	GigID        uuid.UUID       `json:"gig_id"`
	BuyerID      uuid.UUID       `json:"buyer_id"`
	SellerID     uuid.UUID       `json:"seller_id"`
	Status       Status          `json:"status"`
	Amount       decimal.Decimal `json:"amount"`
	Signature    string          `json:"signature"`
	BuyerAddress string          `json:"buyer_address"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Counterparty returns the party that is not userID, and whether
// userID is a party at all.
func (o Order) Counterparty(userID uuid.UUID) (uuid.UUID, bool) {
	switch userID {
	case o.BuyerID:
		return o.SellerID, true
	case o.SellerID:
		return o.BuyerID, true
	default:
		return uuid.Nil, false
	}
}

// IsParty reports whether userID is the buyer or the seller.
func (o Order) IsParty(userID uuid.UUID) bool {
	return userID == o.BuyerID || userID == o.SellerID
}
