package httpdto

import "github.com/shopspring/decimal"

// CreateGigRequest is used for POST /gigs
type CreateGigRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Category    string          `json:"category"`
	Images      []string        `json:"images"`
}

// ListGigsRequest holds query parameters for GET /gigs
type ListGigsRequest struct {
	Category string `form:"category"`
}
