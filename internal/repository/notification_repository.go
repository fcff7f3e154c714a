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

type PostgresNotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &PostgresNotificationRepository{pool: pool}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, content, order_id, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.UserID, n.Type, n.Content, n.OrderID, n.Read, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, type, content, order_id, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("select notifications: %w", err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Content, &n.OrderID, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID, read bool) (domain.Notification, error) {
	var n domain.Notification
	err := r.pool.QueryRow(ctx, `
		UPDATE notifications SET read = $1
		WHERE id = $2 AND user_id = $3
		RETURNING id, user_id, type, content, order_id, read, created_at`,
		read, id, userID,
	).Scan(&n.ID, &n.UserID, &n.Type, &n.Content, &n.OrderID, &n.Read, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Notification{}, gigmarket_errors.ErrNotFound
		}
		return domain.Notification{}, fmt.Errorf("update notification: %w", err)
	}
	return n, nil
}
