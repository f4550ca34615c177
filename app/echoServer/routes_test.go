package echoServer_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"bookstore/app/echoServer"
	"bookstore/app/echoServer/controller/announcement"
	"bookstore/app/echoServer/controller/auth"
	"bookstore/app/echoServer/controller/book"
	"bookstore/app/echoServer/controller/bookmark"
	"bookstore/app/echoServer/controller/cart"
	"bookstore/app/echoServer/controller/order"
	"bookstore/app/echoServer/controller/review"
	"bookstore/model"
	jwtutil "bookstore/util/jwt"
)

const testSecret = "routes-test-secret"

type cartSvcStub struct{}

func (cartSvcStub) AddItem(ctx context.Context, userID, bookID, qty int64) (int64, error) {
	return 1, nil
}
func (cartSvcStub) UpdateItem(ctx context.Context, userID, itemID, qty int64) error { return nil }
func (cartSvcStub) RemoveItem(ctx context.Context, userID, itemID int64) error      { return nil }
func (cartSvcStub) Clear(ctx context.Context, userID int64) error                   { return nil }
func (cartSvcStub) Get(ctx context.Context, userID int64) (*model.CartSummary, error) {
	return &model.CartSummary{}, nil
}

func testServer() *echo.Echo {
	e := echo.New()
	echoServer.Register(e, echoServer.C{
		Auth:         &auth.Controller{},
		Book:         &book.Controller{},
		Cart:         &cart.Controller{Svc: cartSvcStub{}},
		Order:        &order.Controller{},
		Bookmark:     &bookmark.Controller{},
		Review:       &review.Controller{},
		Announcement: &announcement.Controller{},
		JWTSecret:    testSecret,
	})
	return e
}

func TestProtectedRoute_NoAuthHeaderIs401(t *testing.T) {
	e := testServer()

	req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoute_GarbageTokenIs401(t *testing.T) {
	e := testServer()

	req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoute_ValidTokenPasses(t *testing.T) {
	e := testServer()

	tok, err := jwtutil.Issue(testSecret, 7, model.RoleMember, 1)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoute_WrongSecretIs401(t *testing.T) {
	e := testServer()

	tok, err := jwtutil.Issue("some-other-secret", 7, model.RoleMember, 1)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
