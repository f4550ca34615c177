package reviewsvc_test

import (
	"context"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"bookstore/model"
	reviewsvc "bookstore/service/review"
)

type repoMock struct {
	purchased bool
	insertErr error
	inserted  *model.Review
}

func (m *repoMock) Insert(ctx context.Context, rv *model.Review) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	rv.ID = 3
	m.inserted = rv
	return nil
}

func (m *repoMock) ListByBook(ctx context.Context, bookID int64) ([]model.ReviewRow, error) {
	return nil, nil
}

func (m *repoMock) HasPurchased(ctx context.Context, userID, bookID int64) (bool, error) {
	return m.purchased, nil
}

func TestCreate_RatingBounds(t *testing.T) {
	s := reviewsvc.New(&repoMock{purchased: true})

	for _, rating := range []int{0, -1, 6} {
		_, err := s.Create(context.Background(), 1, 2, rating, "x")
		if reviewsvc.Code(err) != reviewsvc.ErrBadInput {
			t.Fatalf("rating %d: want BAD_INPUT, got %v", rating, err)
		}
	}
}

func TestCreate_RequiresPurchase(t *testing.T) {
	s := reviewsvc.New(&repoMock{purchased: false})

	_, err := s.Create(context.Background(), 1, 2, 5, "great read")
	require.Equal(t, reviewsvc.ErrNotPurchased, reviewsvc.Code(err))
}

func TestCreate_Success(t *testing.T) {
	m := &repoMock{purchased: true}
	s := reviewsvc.New(m)

	rv, err := s.Create(context.Background(), 1, 2, 4, "  solid  ")
	require.NoError(t, err)
	require.Equal(t, int64(3), rv.ID)
	require.Equal(t, 4, rv.Rating)
	require.Equal(t, "solid", rv.Comment)
}

func TestCreate_Duplicate(t *testing.T) {
	m := &repoMock{
		purchased: true,
		insertErr: &pgconn.PgError{Code: pgerrcode.UniqueViolation},
	}
	s := reviewsvc.New(m)

	_, err := s.Create(context.Background(), 1, 2, 4, "again")
	require.Equal(t, reviewsvc.ErrDuplicate, reviewsvc.Code(err))
}
