package reviewrepo

import (
	"context"
	"database/sql"

	"bookstore/model"
)

type Repo interface {
	Insert(ctx context.Context, rv *model.Review) error
	ListByBook(ctx context.Context, bookID int64) ([]model.ReviewRow, error)
	// HasPurchased reports whether the user has a COMPLETED order
	// containing the book.
	HasPurchased(ctx context.Context, userID, bookID int64) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Insert(ctx context.Context, rv *model.Review) error {
	const q = `
		INSERT INTO reviews (user_id, book_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q, rv.UserID, rv.BookID, rv.Rating, rv.Comment).
		Scan(&rv.ID, &rv.CreatedAt)
}

func (r *repo) ListByBook(ctx context.Context, bookID int64) ([]model.ReviewRow, error) {
	const q = `
		SELECT rv.id, rv.rating, rv.comment, u.username, rv.created_at
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.book_id = $1
		ORDER BY rv.created_at DESC, rv.id DESC`
	rows, err := r.db.QueryContext(ctx, q, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ReviewRow
	for rows.Next() {
		var rv model.ReviewRow
		if err := rows.Scan(&rv.ID, &rv.Rating, &rv.Comment, &rv.Username, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *repo) HasPurchased(ctx context.Context, userID, bookID int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1
			FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			WHERE o.user_id = $1
			AND oi.book_id = $2
			AND o.status = 'COMPLETED'
		)`
	var ok bool
	err := r.db.QueryRowContext(ctx, q, userID, bookID).Scan(&ok)
	return ok, err
}
