package order

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bookstore/model"
	orderrepo "bookstore/repository/order"
	"bookstore/service/pricing"
	"bookstore/util/queue"
)

// errors used by controllers

type ErrCode string

const (
	ErrUnauthorized ErrCode = "UNAUTHORIZED"
	ErrEmptyItems   ErrCode = "EMPTY_ITEMS"
	ErrBookNotFound ErrCode = "BOOK_NOT_FOUND"
	ErrNoStock      ErrCode = "INSUFFICIENT_STOCK"
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrNotOwner     ErrCode = "NOT_OWNER"
	ErrCannotCancel ErrCode = "CANNOT_CANCEL"
	ErrBadTransition ErrCode = "BAD_TRANSITION"
	ErrBadClaimCode ErrCode = "BAD_CLAIM_CODE"
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

// dto

type Item struct {
	BookID   int64
	Quantity int64
}

type Shipping struct {
	Name    string
	Address string
	Phone   string
}

type Repo interface {
	GetUserContact(ctx context.Context, userID int64) (email, name string, err error)

	GetBookForOrder(ctx context.Context, tx *sql.Tx, bookID int64) (*orderrepo.PricingRow, error)
	DecrementStock(ctx context.Context, tx *sql.Tx, bookID, qty int64) (bool, error)
	InsertOrder(ctx context.Context, tx *sql.Tx, o *model.Order) (int64, error)
	InsertItem(ctx context.Context, tx *sql.Tx, orderID int64, it model.OrderItem) error
	ClearCart(ctx context.Context, tx *sql.Tx, userID int64) error

	GetOrderForUpdate(ctx context.Context, tx *sql.Tx, orderID int64) (ownerID int64, status model.OrderStatus, claimCode string, err error)
	MarkCancelled(ctx context.Context, tx *sql.Tx, orderID int64) error
	MarkConfirmed(ctx context.Context, tx *sql.Tx, orderID int64) error
	MarkCompleted(ctx context.Context, tx *sql.Tx, orderID int64) error
	RestockItems(ctx context.Context, tx *sql.Tx, orderID int64) error

	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	CountCompletedByUser(ctx context.Context, userID int64) (int64, error)
}

// Notifier is the best-effort confirmation queue; a failed enqueue is
// logged and never fails the order.
type Notifier interface {
	Enqueue(ctx context.Context, n queue.OrderConfirmation) error
}

type Service interface {
	// Create captures live prices, decrements stock and persists the
	// order as PENDING, all in one transaction.
	Create(ctx context.Context, userID int64, items []Item, ship Shipping) (*model.Order, error)

	// Cancel: owner only, from PENDING or CONFIRMED; restocks.
	Cancel(ctx context.Context, orderID, userID int64) error

	// Confirm: staff moves PENDING to CONFIRMED.
	Confirm(ctx context.Context, orderID int64) error

	// Fulfill: staff completes a CONFIRMED order against its claim code.
	Fulfill(ctx context.Context, orderID int64, claimCode string) error

	// MyOrders lists the caller's orders, newest first, with items.
	MyOrders(ctx context.Context, userID int64) ([]model.Order, error)
}

// ----- Service implementation -----

type service struct {
	db           *sql.DB
	r            Repo
	pricer       *pricing.Pricer
	notifier     Notifier
	shippingCost float64
	log          *slog.Logger
	now          func() time.Time
}

func New(db *sql.DB, r Repo, pricer *pricing.Pricer, notifier Notifier, shippingCost float64, log *slog.Logger) Service {
	return &service{
		db:           db,
		r:            r,
		pricer:       pricer,
		notifier:     notifier,
		shippingCost: shippingCost,
		log:          log,
		now:          time.Now,
	}
}

func (s *service) Create(ctx context.Context, userID int64, items []Item, ship Shipping) (o *model.Order, err error) {
	if len(items) == 0 {
		return nil, makeErr(ErrEmptyItems)
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, makeErr(ErrEmptyItems)
		}
	}

	email, name, err := s.r.GetUserContact(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrUnauthorized)
		}
		return nil, err
	}

	completed, err := s.r.CountCompletedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	loyal := s.pricer.LoyaltyEligible(completed)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := s.now()
	var subtotal float64
	var itemCount int64
	lines := make([]model.OrderItem, 0, len(items))

	for _, it := range items {
		row, rerr := s.r.GetBookForOrder(ctx, tx, it.BookID)
		if rerr != nil {
			if errors.Is(rerr, sql.ErrNoRows) {
				err = makeErr(ErrBookNotFound)
				return nil, err
			}
			err = rerr
			return nil, err
		}

		ok, derr := s.r.DecrementStock(ctx, tx, it.BookID, it.Quantity)
		if derr != nil {
			err = derr
			return nil, err
		}
		if !ok {
			err = makeErr(ErrNoStock)
			return nil, err
		}

		unit := s.pricer.EffectiveUnitPrice(pricing.Sale{
			Price:              row.Price,
			IsOnSale:           row.IsOnSale,
			DiscountPercentage: row.DiscountPercentage,
			DiscountStart:      row.DiscountStart,
			DiscountEnd:        row.DiscountEnd,
		}, now)

		lines = append(lines, model.OrderItem{
			BookID:    it.BookID,
			Title:     row.Title,
			Quantity:  it.Quantity,
			UnitPrice: unit,
			LineTotal: unit * float64(it.Quantity),
		})
		subtotal += unit * float64(it.Quantity)
		itemCount += it.Quantity
	}

	discount := s.pricer.OrderDiscount(subtotal, itemCount, loyal)

	o = &model.Order{
		UserID:          userID,
		OrderNumber:     newOrderNumber(now),
		ClaimCode:       newClaimCode(),
		Status:          model.OrderPending,
		Subtotal:        subtotal,
		DiscountAmount:  discount,
		ShippingCost:    s.shippingCost,
		Total:           subtotal - discount + s.shippingCost,
		ShippingName:    ship.Name,
		ShippingAddress: ship.Address,
		ShippingPhone:   ship.Phone,
	}
	if _, err = s.r.InsertOrder(ctx, tx, o); err != nil {
		return nil, err
	}
	for _, ln := range lines {
		if err = s.r.InsertItem(ctx, tx, o.ID, ln); err != nil {
			return nil, err
		}
	}
	if err = s.r.ClearCart(ctx, tx, userID); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	o.Items = lines

	// best-effort confirmation mail; the order stands either way
	if qerr := s.notifier.Enqueue(ctx, queue.OrderConfirmation{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Email:       email,
		Name:        name,
		Total:       o.Total,
	}); qerr != nil {
		s.log.Error("order confirmation enqueue failed", "order_id", o.ID, "err", qerr)
	}

	return o, nil
}

func (s *service) Cancel(ctx context.Context, orderID, userID int64) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	owner, status, _, err := s.r.GetOrderForUpdate(ctx, tx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	if owner != userID {
		return makeErr(ErrNotOwner)
	}
	if status != model.OrderPending && status != model.OrderConfirmed {
		return makeErr(ErrCannotCancel)
	}

	if err = s.r.MarkCancelled(ctx, tx, orderID); err != nil {
		return err
	}
	if err = s.r.RestockItems(ctx, tx, orderID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) Confirm(ctx context.Context, orderID int64) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, status, _, err := s.r.GetOrderForUpdate(ctx, tx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	if status != model.OrderPending {
		return makeErr(ErrBadTransition)
	}
	if err = s.r.MarkConfirmed(ctx, tx, orderID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) Fulfill(ctx context.Context, orderID int64, claimCode string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, status, stored, err := s.r.GetOrderForUpdate(ctx, tx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	if !strings.EqualFold(strings.TrimSpace(claimCode), stored) {
		return makeErr(ErrBadClaimCode)
	}
	if status != model.OrderConfirmed {
		return makeErr(ErrBadTransition)
	}
	if err = s.r.MarkCompleted(ctx, tx, orderID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) MyOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	return s.r.ListByUser(ctx, userID)
}

func newOrderNumber(now time.Time) string {
	var b [3]byte
	_, _ = rand.Read(b[:])
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102150405"), hex.EncodeToString(b[:]))
}

func newClaimCode() string {
	var b [5]byte
	_, _ = rand.Read(b[:])
	return strings.ToUpper(hex.EncodeToString(b[:]))
}
