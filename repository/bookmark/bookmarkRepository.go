package bookmarkrepo

import (
	"context"
	"database/sql"

	"bookstore/model"
)

type Repo interface {
	// Add reports created=false when the pair already exists.
	Add(ctx context.Context, userID, bookID int64) (created bool, err error)
	Remove(ctx context.Context, userID, bookID int64) error
	Exists(ctx context.Context, userID, bookID int64) (bool, error)
	List(ctx context.Context, userID int64) ([]model.BookmarkRow, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Add(ctx context.Context, userID, bookID int64) (bool, error) {
	const q = `
		INSERT INTO bookmarks (user_id, book_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, book_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, q, userID, bookID)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) Remove(ctx context.Context, userID, bookID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE user_id = $1 AND book_id = $2`, userID, bookID)
	return err
}

func (r *repo) Exists(ctx context.Context, userID, bookID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookmarks WHERE user_id = $1 AND book_id = $2)`,
		userID, bookID).Scan(&ok)
	return ok, err
}

func (r *repo) List(ctx context.Context, userID int64) ([]model.BookmarkRow, error) {
	const q = `
		SELECT bm.book_id, b.title, b.author, b.price, bm.created_at
		FROM bookmarks bm
		JOIN books b ON b.id = bm.book_id
		WHERE bm.user_id = $1
		ORDER BY bm.created_at DESC, bm.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BookmarkRow
	for rows.Next() {
		var b model.BookmarkRow
		if err := rows.Scan(&b.BookID, &b.Title, &b.Author, &b.Price, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
