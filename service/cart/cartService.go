package cartsvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bookstore/model"
	cartrepo "bookstore/repository/cart"
	"bookstore/service/pricing"
)

type ErrCode string

const (
	ErrBookNotFound ErrCode = "BOOK_NOT_FOUND"
	ErrItemNotFound ErrCode = "ITEM_NOT_FOUND"
	ErrNoStock      ErrCode = "INSUFFICIENT_STOCK"
	ErrBadInput     ErrCode = "BAD_INPUT"
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

type Row = cartrepo.Row

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

// OrderCounter feeds the loyalty-discount check.
type OrderCounter interface {
	CountCompletedByUser(ctx context.Context, userID int64) (int64, error)
}

type Service interface {
	AddItem(ctx context.Context, userID, bookID, qty int64) (int64, error)
	UpdateItem(ctx context.Context, userID, itemID, qty int64) error
	RemoveItem(ctx context.Context, userID, itemID int64) error
	Clear(ctx context.Context, userID int64) error
	Get(ctx context.Context, userID int64) (*model.CartSummary, error)
}

type service struct {
	r      Repo
	orders OrderCounter
	pricer *pricing.Pricer
	now    func() time.Time
}

func New(r Repo, orders OrderCounter, pricer *pricing.Pricer) Service {
	return &service{r: r, orders: orders, pricer: pricer, now: time.Now}
}

func (s *service) AddItem(ctx context.Context, userID, bookID, qty int64) (int64, error) {
	if qty < 1 {
		return 0, makeErr(ErrBadInput)
	}

	stock, err := s.r.GetBookStock(ctx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, makeErr(ErrBookNotFound)
		}
		return 0, err
	}

	// merge with any existing line before the stock check so the merged
	// quantity is what gets validated
	merged := qty
	if line, err := s.r.FindLine(ctx, userID, bookID); err != nil {
		return 0, err
	} else if line != nil {
		merged += line.Quantity
	}
	if merged > stock {
		return 0, makeErr(ErrNoStock)
	}

	return s.r.Insert(ctx, userID, bookID, qty)
}

func (s *service) UpdateItem(ctx context.Context, userID, itemID, qty int64) error {
	line, err := s.r.GetLine(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if line == nil {
		return makeErr(ErrItemNotFound)
	}

	if qty <= 0 {
		return s.r.DeleteLine(ctx, userID, itemID)
	}

	stock, err := s.r.GetBookStock(ctx, line.BookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrBookNotFound)
		}
		return err
	}
	if qty > stock {
		return makeErr(ErrNoStock)
	}
	return s.r.SetQuantity(ctx, userID, itemID, qty)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID int64) error {
	return s.r.DeleteLine(ctx, userID, itemID)
}

func (s *service) Clear(ctx context.Context, userID int64) error {
	return s.r.Clear(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID int64) (*model.CartSummary, error) {
	rows, err := s.r.ListWithBooks(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sum := &model.CartSummary{Lines: []model.CartLine{}}
	for _, row := range rows {
		unit := s.pricer.EffectiveUnitPrice(pricing.Sale{
			Price:              row.Price,
			IsOnSale:           row.IsOnSale,
			DiscountPercentage: row.DiscountPercentage,
			DiscountStart:      row.DiscountStart,
			DiscountEnd:        row.DiscountEnd,
		}, now)
		line := model.CartLine{
			ItemID:    row.ItemID,
			BookID:    row.BookID,
			Title:     row.Title,
			Author:    row.Author,
			Quantity:  row.Quantity,
			UnitPrice: unit,
			Subtotal:  unit * float64(row.Quantity),
			InStock:   row.Stock >= row.Quantity,
		}
		sum.Lines = append(sum.Lines, line)
		sum.ItemCount += row.Quantity
		sum.Subtotal += line.Subtotal
	}

	completed, err := s.orders.CountCompletedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	loyal := s.pricer.LoyaltyEligible(completed)

	sum.HasVolumeDiscount = s.pricer.VolumeEligible(sum.ItemCount) && sum.Subtotal > 0
	sum.HasLoyaltyDiscount = loyal && sum.Subtotal > 0
	sum.DiscountAmount = s.pricer.OrderDiscount(sum.Subtotal, sum.ItemCount, loyal)
	sum.Total = sum.Subtotal - sum.DiscountAmount
	return sum, nil
}
