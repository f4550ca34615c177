package order

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"bookstore/model"
	orderrepo "bookstore/repository/order"
	"bookstore/service/pricing"
	"bookstore/util/queue"

	"github.com/stretchr/testify/require"
)

// minimal driver so BeginTx works without a database; every statement
// goes through the repo mock, never through the connection

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) { return fakeConn{}, nil }

type fakeConnector struct{}

func (fakeConnector) Connect(context.Context) (driver.Conn, error) { return fakeConn{}, nil }
func (fakeConnector) Driver() driver.Driver                        { return fakeDriver{} }

type fakeConn struct{}

func (fakeConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("unsupported") }
func (fakeConn) Close() error                        { return nil }
func (fakeConn) Begin() (driver.Tx, error)           { return fakeTx{}, nil }

type fakeTx struct{}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

func testDB() *sql.DB { return sql.OpenDB(fakeConnector{}) }

// --- mocks ---

type repoMock struct {
	contactFn   func(ctx context.Context, userID int64) (string, string, error)
	bookFn      func(ctx context.Context, bookID int64) (*orderrepo.PricingRow, error)
	decrementFn func(ctx context.Context, bookID, qty int64) (bool, error)
	getOrderFn  func(ctx context.Context, orderID int64) (int64, model.OrderStatus, string, error)
	countFn     func(ctx context.Context, userID int64) (int64, error)
	listFn      func(ctx context.Context, userID int64) ([]model.Order, error)

	inserted    *model.Order
	items       []model.OrderItem
	cartCleared bool
	cancelled   []int64
	confirmed   []int64
	completed   []int64
	restocked   []int64
}

func (m *repoMock) GetUserContact(ctx context.Context, userID int64) (string, string, error) {
	if m.contactFn == nil {
		return "buyer@example.com", "Buyer", nil
	}
	return m.contactFn(ctx, userID)
}
func (m *repoMock) GetBookForOrder(ctx context.Context, tx *sql.Tx, bookID int64) (*orderrepo.PricingRow, error) {
	return m.bookFn(ctx, bookID)
}
func (m *repoMock) DecrementStock(ctx context.Context, tx *sql.Tx, bookID, qty int64) (bool, error) {
	if m.decrementFn == nil {
		return true, nil
	}
	return m.decrementFn(ctx, bookID, qty)
}
func (m *repoMock) InsertOrder(ctx context.Context, tx *sql.Tx, o *model.Order) (int64, error) {
	o.ID = 77
	o.CreatedAt = time.Now()
	m.inserted = o
	return o.ID, nil
}
func (m *repoMock) InsertItem(ctx context.Context, tx *sql.Tx, orderID int64, it model.OrderItem) error {
	m.items = append(m.items, it)
	return nil
}
func (m *repoMock) ClearCart(ctx context.Context, tx *sql.Tx, userID int64) error {
	m.cartCleared = true
	return nil
}
func (m *repoMock) GetOrderForUpdate(ctx context.Context, tx *sql.Tx, orderID int64) (int64, model.OrderStatus, string, error) {
	return m.getOrderFn(ctx, orderID)
}
func (m *repoMock) MarkCancelled(ctx context.Context, tx *sql.Tx, orderID int64) error {
	m.cancelled = append(m.cancelled, orderID)
	return nil
}
func (m *repoMock) MarkConfirmed(ctx context.Context, tx *sql.Tx, orderID int64) error {
	m.confirmed = append(m.confirmed, orderID)
	return nil
}
func (m *repoMock) MarkCompleted(ctx context.Context, tx *sql.Tx, orderID int64) error {
	m.completed = append(m.completed, orderID)
	return nil
}
func (m *repoMock) RestockItems(ctx context.Context, tx *sql.Tx, orderID int64) error {
	m.restocked = append(m.restocked, orderID)
	return nil
}
func (m *repoMock) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return m.listFn(ctx, userID)
}
func (m *repoMock) CountCompletedByUser(ctx context.Context, userID int64) (int64, error) {
	if m.countFn == nil {
		return 0, nil
	}
	return m.countFn(ctx, userID)
}

type notifierMock struct {
	sent []queue.OrderConfirmation
	err  error
}

func (m *notifierMock) Enqueue(ctx context.Context, n queue.OrderConfirmation) error {
	m.sent = append(m.sent, n)
	return m.err
}

func newSvc(m *repoMock, n Notifier) Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(testDB(), m, pricing.New(pricing.Default()), n, 5, log)
}

func saleBook(price, pct float64) *orderrepo.PricingRow {
	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	return &orderrepo.PricingRow{
		Title: "Dune", Price: price, IsOnSale: pct > 0,
		DiscountPercentage: pct, DiscountStart: &start, DiscountEnd: &end,
	}
}

// --- create ---

func TestCreate_EmptyItems(t *testing.T) {
	svc := newSvc(&repoMock{}, &notifierMock{})
	_, err := svc.Create(context.Background(), 1, nil, Shipping{})
	require.Equal(t, ErrEmptyItems, Code(err))

	_, err = svc.Create(context.Background(), 1, []Item{{BookID: 1, Quantity: 0}}, Shipping{})
	require.Equal(t, ErrEmptyItems, Code(err))
}

func TestCreate_UserMissing(t *testing.T) {
	m := &repoMock{
		contactFn: func(ctx context.Context, userID int64) (string, string, error) {
			return "", "", sql.ErrNoRows
		},
	}
	_, err := newSvc(m, &notifierMock{}).Create(context.Background(), 1, []Item{{BookID: 1, Quantity: 1}}, Shipping{})
	require.Equal(t, ErrUnauthorized, Code(err))
}

func TestCreate_BookGone(t *testing.T) {
	m := &repoMock{
		bookFn: func(ctx context.Context, bookID int64) (*orderrepo.PricingRow, error) {
			return nil, sql.ErrNoRows
		},
	}
	_, err := newSvc(m, &notifierMock{}).Create(context.Background(), 1, []Item{{BookID: 9, Quantity: 1}}, Shipping{})
	require.Equal(t, ErrBookNotFound, Code(err))
}

func TestCreate_InsufficientStock(t *testing.T) {
	m := &repoMock{
		bookFn: func(ctx context.Context, bookID int64) (*orderrepo.PricingRow, error) {
			return saleBook(20, 0), nil
		},
		decrementFn: func(ctx context.Context, bookID, qty int64) (bool, error) {
			return false, nil
		},
	}
	_, err := newSvc(m, &notifierMock{}).Create(context.Background(), 1, []Item{{BookID: 9, Quantity: 3}}, Shipping{})
	require.Equal(t, ErrNoStock, Code(err))
}

func TestCreate_CapturesPricesAndDiscount(t *testing.T) {
	m := &repoMock{
		bookFn: func(ctx context.Context, bookID int64) (*orderrepo.PricingRow, error) {
			return saleBook(20, 25), nil
		},
	}
	n := &notifierMock{}
	o, err := newSvc(m, n).Create(context.Background(), 1,
		[]Item{{BookID: 9, Quantity: 5}}, Shipping{Name: "Buyer", Address: "12 Main St"})
	require.NoError(t, err)

	// 5 x $15 effective, 5% volume discount, $5 shipping
	require.Equal(t, 75.0, o.Subtotal)
	require.Equal(t, 3.75, o.DiscountAmount)
	require.Equal(t, 5.0, o.ShippingCost)
	require.Equal(t, 76.25, o.Total)
	require.Equal(t, model.OrderPending, o.Status)
	require.NotEmpty(t, o.OrderNumber)
	require.NotEmpty(t, o.ClaimCode)
	require.True(t, m.cartCleared)
	require.Len(t, m.items, 1)
	require.Equal(t, 15.0, m.items[0].UnitPrice)

	require.Len(t, n.sent, 1)
	require.Equal(t, o.OrderNumber, n.sent[0].OrderNumber)
}

func TestCreate_NotifyFailureDoesNotFailOrder(t *testing.T) {
	m := &repoMock{
		bookFn: func(ctx context.Context, bookID int64) (*orderrepo.PricingRow, error) {
			return saleBook(10, 0), nil
		},
	}
	n := &notifierMock{err: errors.New("redis down")}
	o, err := newSvc(m, n).Create(context.Background(), 1, []Item{{BookID: 9, Quantity: 1}}, Shipping{})
	require.NoError(t, err)
	require.NotNil(t, o)
}

// --- cancel ---

func cancelRepo(owner int64, status model.OrderStatus) *repoMock {
	return &repoMock{
		getOrderFn: func(ctx context.Context, orderID int64) (int64, model.OrderStatus, string, error) {
			return owner, status, "ABC123", nil
		},
	}
}

func TestCancel_PendingSucceedsAndRestocks(t *testing.T) {
	m := cancelRepo(1, model.OrderPending)
	err := newSvc(m, &notifierMock{}).Cancel(context.Background(), 5, 1)
	require.NoError(t, err)
	require.Equal(t, []int64{5}, m.cancelled)
	require.Equal(t, []int64{5}, m.restocked)
}

func TestCancel_NotOwner(t *testing.T) {
	m := cancelRepo(2, model.OrderPending)
	err := newSvc(m, &notifierMock{}).Cancel(context.Background(), 5, 1)
	require.Equal(t, ErrNotOwner, Code(err))
	require.Empty(t, m.cancelled)
}

func TestCancel_TerminalStates(t *testing.T) {
	for _, st := range []model.OrderStatus{model.OrderCompleted, model.OrderCancelled} {
		m := cancelRepo(1, st)
		err := newSvc(m, &notifierMock{}).Cancel(context.Background(), 5, 1)
		if Code(err) != ErrCannotCancel {
			t.Fatalf("status %s: want CANNOT_CANCEL, got %v", st, err)
		}
	}
}

func TestCancel_NotFound(t *testing.T) {
	m := &repoMock{
		getOrderFn: func(ctx context.Context, orderID int64) (int64, model.OrderStatus, string, error) {
			return 0, "", "", sql.ErrNoRows
		},
	}
	err := newSvc(m, &notifierMock{}).Cancel(context.Background(), 5, 1)
	require.Equal(t, ErrNotFound, Code(err))
}

// --- confirm / fulfill ---

func TestConfirm_OnlyFromPending(t *testing.T) {
	m := cancelRepo(1, model.OrderPending)
	require.NoError(t, newSvc(m, &notifierMock{}).Confirm(context.Background(), 5))
	require.Equal(t, []int64{5}, m.confirmed)

	m = cancelRepo(1, model.OrderCompleted)
	err := newSvc(m, &notifierMock{}).Confirm(context.Background(), 5)
	require.Equal(t, ErrBadTransition, Code(err))
}

func TestFulfill_WrongClaimCode(t *testing.T) {
	m := cancelRepo(1, model.OrderConfirmed)
	err := newSvc(m, &notifierMock{}).Fulfill(context.Background(), 5, "WRONG")
	require.Equal(t, ErrBadClaimCode, Code(err))
	require.Empty(t, m.completed) // status untouched
}

func TestFulfill_Success(t *testing.T) {
	m := cancelRepo(1, model.OrderConfirmed)
	err := newSvc(m, &notifierMock{}).Fulfill(context.Background(), 5, "abc123")
	require.NoError(t, err) // code compare is case-insensitive
	require.Equal(t, []int64{5}, m.completed)
}

func TestFulfill_RequiresConfirmed(t *testing.T) {
	m := cancelRepo(1, model.OrderPending)
	err := newSvc(m, &notifierMock{}).Fulfill(context.Background(), 5, "ABC123")
	require.Equal(t, ErrBadTransition, Code(err))
}
