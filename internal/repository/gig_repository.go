package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gigmarket/internal/domain"
	gigmarket_errors "gigmarket/pkg/errors"
)

type PostgresGigRepository struct {
	pool *pgxpool.Pool
}

func NewGigRepository(pool *pgxpool.Pool) GigRepository {
	return &PostgresGigRepository{pool: pool}
}

func (r *PostgresGigRepository) Create(ctx context.Context, g *domain.Gig) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO gigs (id, seller_id, title, description, price, category, images, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		g.ID, g.SellerID, g.Title, g.Description, g.Price, g.Category, g.Images, g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert gig: %w", err)
	}
	return nil
}

func (r *PostgresGigRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Gig, error) {
	var g domain.Gig
	err := r.pool.QueryRow(ctx, `
		SELECT id, seller_id, title, description, price, category, images, created_at
		FROM gigs WHERE id = $1`, id).Scan(
		&g.ID, &g.SellerID, &g.Title, &g.Description, &g.Price, &g.Category, &g.Images, &g.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Gig{}, gigmarket_errors.ErrNotFound
		}
		return domain.Gig{}, fmt.Errorf("select gig: %w", err)
	}
	return g, nil
}

func (r *PostgresGigRepository) List(ctx context.Context, category string, limit int) ([]domain.Gig, error) {
	query := `
		SELECT id, seller_id, title, description, price, category, images, created_at
		FROM gigs`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select gigs: %w", err)
	}
	defer rows.Close()

	var out []domain.Gig
	for rows.Next() {
		var g domain.Gig
		if err := rows.Scan(&g.ID, &g.SellerID, &g.Title, &g.Description, &g.Price, &g.Category, &g.Images, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan gig: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
