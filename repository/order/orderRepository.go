// repository/order/repo.go
package orderrepo

import (
	"context"
	"database/sql"
	"time"

	"bookstore/model"
)

// PricingRow is the live book snapshot read inside the checkout
// transaction.
type PricingRow struct {
	Title              string
	Price              float64
	IsOnSale           bool
	DiscountPercentage float64
	DiscountStart      *time.Time
	DiscountEnd        *time.Time
}

type Repo interface {
	GetUserContact(ctx context.Context, userID int64) (email, name string, err error)

	// checkout (all tx-scoped)
	GetBookForOrder(ctx context.Context, tx *sql.Tx, bookID int64) (*PricingRow, error)
	DecrementStock(ctx context.Context, tx *sql.Tx, bookID, qty int64) (bool, error)
	InsertOrder(ctx context.Context, tx *sql.Tx, o *model.Order) (int64, error)
	InsertItem(ctx context.Context, tx *sql.Tx, orderID int64, it model.OrderItem) error
	ClearCart(ctx context.Context, tx *sql.Tx, userID int64) error

	// lifecycle
	GetOrderForUpdate(ctx context.Context, tx *sql.Tx, orderID int64) (ownerID int64, status model.OrderStatus, claimCode string, err error)
	MarkCancelled(ctx context.Context, tx *sql.Tx, orderID int64) error
	MarkConfirmed(ctx context.Context, tx *sql.Tx, orderID int64) error
	MarkCompleted(ctx context.Context, tx *sql.Tx, orderID int64) error
	RestockItems(ctx context.Context, tx *sql.Tx, orderID int64) error

	// reads
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	CountCompletedByUser(ctx context.Context, userID int64) (int64, error)

	// cleaner
	CancelStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) GetUserContact(ctx context.Context, userID int64) (string, string, error) {
	const q = `
		SELECT email, first_name || ' ' || last_name
		FROM users
		WHERE id = $1`
	var email, name string
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&email, &name)
	return email, name, err
}

func (r *repo) GetBookForOrder(ctx context.Context, tx *sql.Tx, bookID int64) (*PricingRow, error) {
	const q = `
		SELECT title, price, is_on_sale, discount_percentage, discount_start, discount_end
		FROM books
		WHERE id = $1`
	p := &PricingRow{}
	err := tx.QueryRowContext(ctx, q, bookID).Scan(
		&p.Title, &p.Price, &p.IsOnSale, &p.DiscountPercentage, &p.DiscountStart, &p.DiscountEnd)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DecrementStock only succeeds when enough stock remains; the guard and
// the write are a single statement so concurrent checkouts cannot
// oversell the last copies.
func (r *repo) DecrementStock(ctx context.Context, tx *sql.Tx, bookID, qty int64) (bool, error) {
	const q = `
		UPDATE books
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1
		AND stock >= $2`
	res, err := tx.ExecContext(ctx, q, bookID, qty)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) InsertOrder(ctx context.Context, tx *sql.Tx, o *model.Order) (int64, error) {
	const q = `
		INSERT INTO orders (user_id, order_number, claim_code, status,
			subtotal, discount_amount, shipping_cost, total,
			shipping_name, shipping_address, shipping_phone)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at`
	err := tx.QueryRowContext(ctx, q,
		o.UserID, o.OrderNumber, o.ClaimCode, o.Status,
		o.Subtotal, o.DiscountAmount, o.ShippingCost, o.Total,
		o.ShippingName, o.ShippingAddress, o.ShippingPhone,
	).Scan(&o.ID, &o.CreatedAt)
	return o.ID, err
}

func (r *repo) InsertItem(ctx context.Context, tx *sql.Tx, orderID int64, it model.OrderItem) error {
	const q = `
		INSERT INTO order_items (order_id, book_id, title, quantity, unit_price)
		VALUES ($1,$2,$3,$4,$5)`
	_, err := tx.ExecContext(ctx, q, orderID, it.BookID, it.Title, it.Quantity, it.UnitPrice)
	return err
}

func (r *repo) ClearCart(ctx context.Context, tx *sql.Tx, userID int64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}

func (r *repo) GetOrderForUpdate(ctx context.Context, tx *sql.Tx, orderID int64) (int64, model.OrderStatus, string, error) {
	const q = `
		SELECT user_id, status, claim_code
		FROM orders
		WHERE id = $1
		FOR UPDATE`
	var uid int64
	var status model.OrderStatus
	var claim string
	err := tx.QueryRowContext(ctx, q, orderID).Scan(&uid, &status, &claim)
	return uid, status, claim, err
}

func (r *repo) MarkCancelled(ctx context.Context, tx *sql.Tx, orderID int64) error {
	const q = `
		UPDATE orders
		SET status = 'CANCELLED',
			cancelled_at = NOW()
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, orderID)
	return err
}

func (r *repo) MarkConfirmed(ctx context.Context, tx *sql.Tx, orderID int64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = 'CONFIRMED' WHERE id = $1`, orderID)
	return err
}

func (r *repo) MarkCompleted(ctx context.Context, tx *sql.Tx, orderID int64) error {
	const q = `
		UPDATE orders
		SET status = 'COMPLETED',
			completed_at = NOW()
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, orderID)
	return err
}

func (r *repo) RestockItems(ctx context.Context, tx *sql.Tx, orderID int64) error {
	const q = `
		UPDATE books b
		SET stock = b.stock + oi.quantity
		FROM order_items oi
		WHERE oi.order_id = $1
		AND oi.book_id = b.id`
	_, err := tx.ExecContext(ctx, q, orderID)
	return err
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	const q = `
		SELECT id, user_id, order_number, status,
		       subtotal, discount_amount, shipping_cost, total,
		       shipping_name, shipping_address, shipping_phone,
		       created_at, cancelled_at, completed_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Order
	idx := map[int64]int{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.OrderNumber, &o.Status,
			&o.Subtotal, &o.DiscountAmount, &o.ShippingCost, &o.Total,
			&o.ShippingName, &o.ShippingAddress, &o.ShippingPhone,
			&o.CreatedAt, &o.CancelledAt, &o.CompletedAt,
		); err != nil {
			return nil, err
		}
		idx[o.ID] = len(out)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	const qi = `
		SELECT oi.id, oi.order_id, oi.book_id, oi.title, oi.quantity, oi.unit_price
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.user_id = $1
		ORDER BY oi.id ASC`
	irows, err := r.db.QueryContext(ctx, qi, userID)
	if err != nil {
		return nil, err
	}
	defer irows.Close()

	for irows.Next() {
		var it model.OrderItem
		if err := irows.Scan(&it.ID, &it.OrderID, &it.BookID, &it.Title, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		it.LineTotal = it.UnitPrice * float64(it.Quantity)
		if i, ok := idx[it.OrderID]; ok {
			out[i].Items = append(out[i].Items, it)
		}
	}
	return out, irows.Err()
}

func (r *repo) CountCompletedByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id = $1 AND status = 'COMPLETED'`,
		userID).Scan(&n)
	return n, err
}

// CancelStalePending cancels PENDING orders created before the cutoff
// and puts their items back in stock.
func (r *repo) CancelStalePending(ctx context.Context, cutoff time.Time) (n int64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const q = `
		UPDATE orders
		SET status = 'CANCELLED',
			cancelled_at = NOW()
		WHERE status = 'PENDING'
		AND created_at < $1
		RETURNING id`
	rows, err := tx.QueryContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return 0, err
	}

	for _, id := range ids {
		if err = r.RestockItems(ctx, tx, id); err != nil {
			return 0, err
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}
