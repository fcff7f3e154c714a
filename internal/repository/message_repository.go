package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"gigmarket/internal/domain"
)

type PostgresMessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &PostgresMessageRepository{pool: pool}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m *domain.Message) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO order_messages (id, order_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.OrderID, m.UserID, m.Content, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *PostgresMessageRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, user_id, content, created_at
		FROM order_messages
		WHERE order_id = $1
		ORDER BY created_at ASC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("select messages: %w", err)
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.OrderID, &m.UserID, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
