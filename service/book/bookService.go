package booksvc

import (
	"context"
	"errors"
	"strings"
	"time"

	"bookstore/model"
	bookrepo "bookstore/repository/book"
	"bookstore/service/pricing"
)

type ErrCode string

const (
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrBadInput ErrCode = "BAD_INPUT"
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

type Filter = bookrepo.Filter
type Patch = bookrepo.Patch

type Repo interface {
	List(ctx context.Context, f Filter, now time.Time) ([]model.Book, int64, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
	RatingSummary(ctx context.Context, bookID int64) (float64, int64, error)
	Create(ctx context.Context, b *model.Book) (int64, error)
	Update(ctx context.Context, id int64, p Patch) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	SetStock(ctx context.Context, id int64, stock int64) (bool, error)
}

// BookmarkChecker answers the per-viewer "bookmarked" flag on detail.
type BookmarkChecker interface {
	Exists(ctx context.Context, userID, bookID int64) (bool, error)
}

type ListResult struct {
	Items      []model.Book `json:"items"`
	TotalCount int64        `json:"total_count"`
	TotalPages int64        `json:"total_pages"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
}

type Service interface {
	List(ctx context.Context, f Filter) (*ListResult, error)
	// Detail computes per-viewer flags; viewerID 0 means unauthenticated.
	Detail(ctx context.Context, id, viewerID int64) (*model.BookDetail, error)
	Create(ctx context.Context, b *model.Book) (int64, error)
	Update(ctx context.Context, id int64, p Patch) error
	Delete(ctx context.Context, id int64) error
	SetStock(ctx context.Context, id int64, stock int64) error
}

type service struct {
	r   Repo
	bm  BookmarkChecker
	now func() time.Time
}

func New(r Repo, bm BookmarkChecker) Service {
	return &service{r: r, bm: bm, now: time.Now}
}

const maxPageSize = 100

func (s *service) List(ctx context.Context, f Filter) (*ListResult, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 10
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
	if _, ok := sortKeys[f.SortBy]; !ok {
		f.SortBy = "title"
		f.Descending = false
	}

	items, total, err := s.r.List(ctx, f, s.now())
	if err != nil {
		return nil, err
	}

	pages := total / int64(f.PageSize)
	if total%int64(f.PageSize) != 0 {
		pages++
	}
	return &ListResult{
		Items:      items,
		TotalCount: total,
		TotalPages: pages,
		Page:       f.Page,
		PageSize:   f.PageSize,
	}, nil
}

var sortKeys = map[string]struct{}{
	"title":           {},
	"author":          {},
	"price":           {},
	"publicationDate": {},
	"popularity":      {},
}

func (s *service) Detail(ctx context.Context, id, viewerID int64) (*model.BookDetail, error) {
	b, err := s.r.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, makeErr(ErrNotFound)
	}

	avg, count, err := s.r.RatingSummary(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	d := &model.BookDetail{
		Book:          *b,
		AverageRating: avg,
		ReviewCount:   count,
		OnSaleNow: pricing.SaleActive(pricing.Sale{
			Price:              b.Price,
			IsOnSale:           b.IsOnSale,
			DiscountPercentage: b.DiscountPercentage,
			DiscountStart:      b.DiscountStart,
			DiscountEnd:        b.DiscountEnd,
		}, now),
		NewRelease: b.IsNewRelease ||
			(b.PublicationDate != nil && b.PublicationDate.After(now.AddDate(0, -3, 0)) && !b.PublicationDate.After(now)),
		NewArrival: b.CreatedAt.After(now.AddDate(0, -1, 0)),
		ComingSoon: b.PublicationDate != nil && b.PublicationDate.After(now),
	}

	if viewerID > 0 {
		marked, err := s.bm.Exists(ctx, viewerID, id)
		if err != nil {
			return nil, err
		}
		d.Bookmarked = marked
	}
	return d, nil
}

func (s *service) Create(ctx context.Context, b *model.Book) (int64, error) {
	if strings.TrimSpace(b.Title) == "" || strings.TrimSpace(b.Author) == "" || b.Price < 0 {
		return 0, makeErr(ErrBadInput)
	}
	if b.Stock < 0 {
		return 0, makeErr(ErrBadInput)
	}
	return s.r.Create(ctx, b)
}

func (s *service) Update(ctx context.Context, id int64, p Patch) error {
	if p.Price != nil && *p.Price < 0 {
		return makeErr(ErrBadInput)
	}
	if p.Stock != nil && *p.Stock < 0 {
		return makeErr(ErrBadInput)
	}
	ok, err := s.r.Update(ctx, id, p)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	ok, err := s.r.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

func (s *service) SetStock(ctx context.Context, id int64, stock int64) error {
	if stock < 0 {
		return makeErr(ErrBadInput)
	}
	ok, err := s.r.SetStock(ctx, id, stock)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}
