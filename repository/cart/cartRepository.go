package cartrepo

import (
	"context"
	"database/sql"
	"time"

	"bookstore/model"
)

// Row is a cart line joined with the live book fields the pricing
// calculation needs.
type Row struct {
	ItemID             int64
	BookID             int64
	Title              string
	Author             string
	Quantity           int64
	Price              float64
	Stock              int64
	IsOnSale           bool
	DiscountPercentage float64
	DiscountStart      *time.Time
	DiscountEnd        *time.Time
}

type Repo interface {
	GetBookStock(ctx context.Context, bookID int64) (int64, error)
	FindLine(ctx context.Context, userID, bookID int64) (*model.CartItem, error)
	Insert(ctx context.Context, userID, bookID, qty int64) (int64, error)
	GetLine(ctx context.Context, userID, itemID int64) (*model.CartItem, error)
	SetQuantity(ctx context.Context, userID, itemID, qty int64) error
	DeleteLine(ctx context.Context, userID, itemID int64) error
	Clear(ctx context.Context, userID int64) error
	ListWithBooks(ctx context.Context, userID int64) ([]Row, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) GetBookStock(ctx context.Context, bookID int64) (int64, error) {
	var stock int64
	err := r.db.QueryRowContext(ctx,
		`SELECT stock FROM books WHERE id = $1`, bookID).Scan(&stock)
	return stock, err
}

func (r *repo) FindLine(ctx context.Context, userID, bookID int64) (*model.CartItem, error) {
	const q = `
		SELECT id, user_id, book_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE user_id = $1 AND book_id = $2`
	it := &model.CartItem{}
	err := r.db.QueryRowContext(ctx, q, userID, bookID).
		Scan(&it.ID, &it.UserID, &it.BookID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *repo) Insert(ctx context.Context, userID, bookID, qty int64) (int64, error) {
	const q = `
		INSERT INTO cart_items (user_id, book_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, book_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity,
		              updated_at = NOW()
		RETURNING id`
	var id int64
	if err := r.db.QueryRowContext(ctx, q, userID, bookID, qty).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) GetLine(ctx context.Context, userID, itemID int64) (*model.CartItem, error) {
	const q = `
		SELECT id, user_id, book_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE id = $1 AND user_id = $2`
	it := &model.CartItem{}
	err := r.db.QueryRowContext(ctx, q, itemID, userID).
		Scan(&it.ID, &it.UserID, &it.BookID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *repo) SetQuantity(ctx context.Context, userID, itemID, qty int64) error {
	const q = `
		UPDATE cart_items
		SET quantity = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2`
	_, err := r.db.ExecContext(ctx, q, itemID, userID, qty)
	return err
}

func (r *repo) DeleteLine(ctx context.Context, userID, itemID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	return err
}

func (r *repo) Clear(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}

func (r *repo) ListWithBooks(ctx context.Context, userID int64) ([]Row, error) {
	const q = `
		SELECT ci.id, ci.book_id, b.title, b.author, ci.quantity,
		       b.price, b.stock, b.is_on_sale, b.discount_percentage,
		       b.discount_start, b.discount_end
		FROM cart_items ci
		JOIN books b ON b.id = ci.book_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at ASC, ci.id ASC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(
			&row.ItemID, &row.BookID, &row.Title, &row.Author, &row.Quantity,
			&row.Price, &row.Stock, &row.IsOnSale, &row.DiscountPercentage,
			&row.DiscountStart, &row.DiscountEnd,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
