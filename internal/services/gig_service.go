package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gigmarket/internal/domain"
	"gigmarket/internal/repository"
	gigmarket_errors "gigmarket/pkg/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const gigListLimit = 50

type CreateGigInput struct {
	Title       string
	Description string
	Price       decimal.Decimal
	Category    string
	Images      []string
}

// GigService manages the seller's catalog listings.
type GigService struct {
	gigs repository.GigRepository
}

func NewGigService(gigs repository.GigRepository) *GigService {
	return &GigService{gigs: gigs}
}

func (s *GigService) Create(ctx context.Context, sellerID uuid.UUID, in CreateGigInput) (domain.Gig, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return domain.Gig{}, fmt.Errorf("%w: title is required", gigmarket_errors.ErrInvalidInput)
	}
	if in.Price.IsNegative() || in.Price.IsZero() {
		return domain.Gig{}, fmt.Errorf("%w: price must be positive", gigmarket_errors.ErrInvalidInput)
	}

	gig := domain.Gig{
		ID:          uuid.New(),
		SellerID:    sellerID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Images:      in.Images,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.gigs.Create(ctx, &gig); err != nil {
		return domain.Gig{}, fmt.Errorf("%w: %v", gigmarket_errors.ErrPersistenceFailure, err)
	}
	return gig, nil
}

func (s *GigService) Get(ctx context.Context, id uuid.UUID) (domain.Gig, error) {
	return s.gigs.GetByID(ctx, id)
}

func (s *GigService) List(ctx context.Context, category string) ([]domain.Gig, error) {
	return s.gigs.List(ctx, category, gigListLimit)
}
