package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gig is a service listing offered by a seller.
type Gig struct {
	ID          uuid.UUID       `json:"id"`
	SellerID    uuid.UUID       `json:"seller_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Images      []string        `json:"images"`
	CreatedAt   time.Time       `json:"created_at"`
}
