package reviewsvc

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"bookstore/model"
)

type ErrCode string

const (
	ErrNotPurchased ErrCode = "NOT_PURCHASED"
	ErrDuplicate    ErrCode = "ALREADY_REVIEWED"
	ErrBadInput     ErrCode = "BAD_INPUT"
	ErrBookNotFound ErrCode = "BOOK_NOT_FOUND"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Repo interface {
	Insert(ctx context.Context, rv *model.Review) error
	ListByBook(ctx context.Context, bookID int64) ([]model.ReviewRow, error)
	HasPurchased(ctx context.Context, userID, bookID int64) (bool, error)
}

type Service interface {
	// Create requires a completed purchase of the book; the check is
	// enforced here, never left to the client.
	Create(ctx context.Context, userID, bookID int64, rating int, comment string) (*model.Review, error)
	ListByBook(ctx context.Context, bookID int64) ([]model.ReviewRow, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, userID, bookID int64, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, makeErr(ErrBadInput)
	}

	purchased, err := s.r.HasPurchased(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if !purchased {
		return nil, makeErr(ErrNotPurchased)
	}

	rv := &model.Review{
		UserID:  userID,
		BookID:  bookID,
		Rating:  rating,
		Comment: strings.TrimSpace(comment),
	}
	if err := s.r.Insert(ctx, rv); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return nil, makeErr(ErrDuplicate)
			case pgerrcode.ForeignKeyViolation:
				return nil, makeErr(ErrBookNotFound)
			}
		}
		return nil, err
	}
	return rv, nil
}

func (s *service) ListByBook(ctx context.Context, bookID int64) ([]model.ReviewRow, error) {
	return s.r.ListByBook(ctx, bookID)
}
