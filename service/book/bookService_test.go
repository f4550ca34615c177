// service/book/book_service_test.go
package booksvc_test

import (
	"context"
	"testing"
	"time"

	"bookstore/model"
	booksvc "bookstore/service/book"

	"github.com/stretchr/testify/require"
)

type repoMock struct {
	listFn     func(ctx context.Context, f booksvc.Filter, now time.Time) ([]model.Book, int64, error)
	detailFn   func(ctx context.Context, id int64) (*model.Book, error)
	ratingFn   func(ctx context.Context, bookID int64) (float64, int64, error)
	createFn   func(ctx context.Context, b *model.Book) (int64, error)
	updateFn   func(ctx context.Context, id int64, p booksvc.Patch) (bool, error)
	deleteFn   func(ctx context.Context, id int64) (bool, error)
	setStockFn func(ctx context.Context, id int64, stock int64) (bool, error)
}

func (m *repoMock) List(ctx context.Context, f booksvc.Filter, now time.Time) ([]model.Book, int64, error) {
	return m.listFn(ctx, f, now)
}
func (m *repoMock) Detail(ctx context.Context, id int64) (*model.Book, error) {
	return m.detailFn(ctx, id)
}
func (m *repoMock) RatingSummary(ctx context.Context, bookID int64) (float64, int64, error) {
	if m.ratingFn == nil {
		return 0, 0, nil
	}
	return m.ratingFn(ctx, bookID)
}
func (m *repoMock) Create(ctx context.Context, b *model.Book) (int64, error) {
	return m.createFn(ctx, b)
}
func (m *repoMock) Update(ctx context.Context, id int64, p booksvc.Patch) (bool, error) {
	return m.updateFn(ctx, id, p)
}
func (m *repoMock) Delete(ctx context.Context, id int64) (bool, error) { return m.deleteFn(ctx, id) }
func (m *repoMock) SetStock(ctx context.Context, id int64, stock int64) (bool, error) {
	return m.setStockFn(ctx, id, stock)
}

type bmMock struct {
	existsFn func(ctx context.Context, userID, bookID int64) (bool, error)
}

func (m *bmMock) Exists(ctx context.Context, userID, bookID int64) (bool, error) {
	if m.existsFn == nil {
		return false, nil
	}
	return m.existsFn(ctx, userID, bookID)
}

func TestList_DefaultsAndClamping(t *testing.T) {
	var seen booksvc.Filter
	m := &repoMock{
		listFn: func(ctx context.Context, f booksvc.Filter, now time.Time) ([]model.Book, int64, error) {
			seen = f
			return nil, 0, nil
		},
	}
	s := booksvc.New(m, &bmMock{})

	_, err := s.List(context.Background(), booksvc.Filter{Page: -3, PageSize: 0, SortBy: "bogus"})
	require.NoError(t, err)
	require.Equal(t, 1, seen.Page)
	require.Equal(t, 10, seen.PageSize)
	require.Equal(t, "title", seen.SortBy)
	require.False(t, seen.Descending)

	_, err = s.List(context.Background(), booksvc.Filter{PageSize: 5000})
	require.NoError(t, err)
	require.Equal(t, 100, seen.PageSize)
}

func TestList_TotalPages(t *testing.T) {
	m := &repoMock{
		listFn: func(ctx context.Context, f booksvc.Filter, now time.Time) ([]model.Book, int64, error) {
			return make([]model.Book, 10), 25, nil
		},
	}
	s := booksvc.New(m, &bmMock{})

	out, err := s.List(context.Background(), booksvc.Filter{Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, out.Items, 10)
	require.Equal(t, int64(25), out.TotalCount)
	require.Equal(t, int64(3), out.TotalPages)
}

func TestDetail_NotFound(t *testing.T) {
	m := &repoMock{
		detailFn: func(ctx context.Context, id int64) (*model.Book, error) { return nil, nil },
	}
	s := booksvc.New(m, &bmMock{})

	_, err := s.Detail(context.Background(), 99, 0)
	require.Error(t, err)
	require.Equal(t, booksvc.ErrNotFound, booksvc.Code(err))
}

func TestDetail_ComputedFlags(t *testing.T) {
	now := time.Now()
	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)
	pub := now.AddDate(0, -1, 0)

	m := &repoMock{
		detailFn: func(ctx context.Context, id int64) (*model.Book, error) {
			return &model.Book{
				ID: id, Title: "Dune", Author: "Frank Herbert",
				Price: 20, IsOnSale: true, DiscountPercentage: 25,
				DiscountStart: &start, DiscountEnd: &end,
				PublicationDate: &pub,
				CreatedAt:       now.AddDate(0, 0, -5),
			}, nil
		},
		ratingFn: func(ctx context.Context, bookID int64) (float64, int64, error) {
			return 4.5, 12, nil
		},
	}
	bm := &bmMock{
		existsFn: func(ctx context.Context, userID, bookID int64) (bool, error) {
			return userID == 7, nil
		},
	}
	s := booksvc.New(m, bm)

	d, err := s.Detail(context.Background(), 1, 7)
	require.NoError(t, err)
	require.True(t, d.OnSaleNow)
	require.True(t, d.NewRelease) // published last month
	require.True(t, d.NewArrival) // created 5 days ago
	require.False(t, d.ComingSoon)
	require.True(t, d.Bookmarked)
	require.Equal(t, 4.5, d.AverageRating)
	require.Equal(t, int64(12), d.ReviewCount)

	// anonymous viewer never sees a bookmark
	d, err = s.Detail(context.Background(), 1, 0)
	require.NoError(t, err)
	require.False(t, d.Bookmarked)
}

func TestDetail_NoReviews(t *testing.T) {
	m := &repoMock{
		detailFn: func(ctx context.Context, id int64) (*model.Book, error) {
			return &model.Book{ID: id, Title: "X", Author: "Y"}, nil
		},
	}
	s := booksvc.New(m, &bmMock{})

	d, err := s.Detail(context.Background(), 1, 0)
	require.NoError(t, err)
	if d.AverageRating != 0 || d.ReviewCount != 0 {
		t.Fatalf("want zero rating summary, got avg=%v count=%v", d.AverageRating, d.ReviewCount)
	}
}

func TestCreate_Validation(t *testing.T) {
	s := booksvc.New(&repoMock{}, &bmMock{})
	if _, err := s.Create(context.Background(), &model.Book{Author: "a", Price: 1}); err == nil {
		t.Fatal("expected error for empty title")
	}
	if _, err := s.Create(context.Background(), &model.Book{Title: "t", Author: "a", Price: -1}); err == nil {
		t.Fatal("expected error for negative price")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	m := &repoMock{
		updateFn: func(ctx context.Context, id int64, p booksvc.Patch) (bool, error) {
			return false, nil
		},
	}
	s := booksvc.New(m, &bmMock{})

	title := "New Title"
	err := s.Update(context.Background(), 123, booksvc.Patch{Title: &title})
	require.Equal(t, booksvc.ErrNotFound, booksvc.Code(err))
}

func TestSetStock_Negative(t *testing.T) {
	s := booksvc.New(&repoMock{}, &bmMock{})
	err := s.SetStock(context.Background(), 1, -5)
	require.Equal(t, booksvc.ErrBadInput, booksvc.Code(err))
}
