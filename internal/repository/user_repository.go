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

type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &PostgresUserRepository{pool: pool}
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, name, avatar_url, wallet_address, created_at
		FROM users WHERE id = $1`, id).Scan(
		&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.WalletAddress, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, gigmarket_errors.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

// Upsert creates the profile row on first sight of a user and refreshes
// the mutable display fields afterwards.
func (r *PostgresUserRepository) Upsert(ctx context.Context, u *domain.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, name, avatar_url, wallet_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email,
		    name = EXCLUDED.name,
		    avatar_url = EXCLUDED.avatar_url,
		    wallet_address = EXCLUDED.wallet_address`,
		u.ID, u.Email, u.Name, u.AvatarURL, u.WalletAddress, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}
