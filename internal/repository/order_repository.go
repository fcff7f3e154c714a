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

type PostgresOrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &PostgresOrderRepository{pool: pool}
}

const orderColumns = `id, gig_id, buyer_id, seller_id, status, amount, signature, buyer_address, created_at`

func (r *PostgresOrderRepository) Create(ctx context.Context, o *domain.Order, initial *domain.Message) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, gig_id, buyer_id, seller_id, status, amount, signature, buyer_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		o.ID, o.GigID, o.BuyerID, o.SellerID, o.Status, o.Amount, o.Signature, o.BuyerAddress, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if initial != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_messages (id, order_id, user_id, content, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			initial.ID, initial.OrderID, initial.UserID, initial.Content, initial.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert initial message: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id).Scan(
		&o.ID, &o.GigID, &o.BuyerID, &o.SellerID, &o.Status, &o.Amount, &o.Signature, &o.BuyerAddress, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, gigmarket_errors.ErrNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	return o, nil
}

func (r *PostgresOrderRepository) ListByParty(ctx context.Context, userID uuid.UUID, party Party) ([]domain.Order, error) {
	column := "buyer_id"
	if party == PartySeller {
		column = "seller_id"
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE `+column+` = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.GigID, &o.BuyerID, &o.SellerID, &o.Status, &o.Amount, &o.Signature, &o.BuyerAddress, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, expected, next domain.Status, msg *domain.Message) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2 AND status = $3`,
		next, orderID, expected,
	)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the order is gone or a concurrent transition moved it
		// off the expected status. Distinguish for the caller.
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists); err != nil {
			return fmt.Errorf("check order: %w", err)
		}
		if !exists {
			return gigmarket_errors.ErrNotFound
		}
		return gigmarket_errors.ErrInvalidTransition
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO order_messages (id, order_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.OrderID, msg.UserID, msg.Content, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append timeline message: %w", err)
	}

	return tx.Commit(ctx)
}
