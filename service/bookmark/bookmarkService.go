package bookmarksvc

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"bookstore/model"
)

type ErrCode string

const ErrBookNotFound ErrCode = "BOOK_NOT_FOUND"

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Repo interface {
	Add(ctx context.Context, userID, bookID int64) (bool, error)
	Remove(ctx context.Context, userID, bookID int64) error
	List(ctx context.Context, userID int64) ([]model.BookmarkRow, error)
}

type Service interface {
	// Add is idempotent: a second call for the same pair reports
	// created=false instead of erroring.
	Add(ctx context.Context, userID, bookID int64) (created bool, err error)

	// Remove succeeds even when no bookmark exists.
	Remove(ctx context.Context, userID, bookID int64) error

	List(ctx context.Context, userID int64) ([]model.BookmarkRow, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Add(ctx context.Context, userID, bookID int64) (bool, error) {
	created, err := s.r.Add(ctx, userID, bookID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return false, codedError{code: ErrBookNotFound}
		}
		return false, err
	}
	return created, nil
}

func (s *service) Remove(ctx context.Context, userID, bookID int64) error {
	return s.r.Remove(ctx, userID, bookID)
}

func (s *service) List(ctx context.Context, userID int64) ([]model.BookmarkRow, error) {
	return s.r.List(ctx, userID)
}
