package echoServer

import (
	"net/http"

	"bookstore/app/echoServer/controller/announcement"
	"bookstore/app/echoServer/controller/auth"
	"bookstore/app/echoServer/controller/book"
	"bookstore/app/echoServer/controller/bookmark"
	"bookstore/app/echoServer/controller/cart"
	"bookstore/app/echoServer/controller/order"
	"bookstore/app/echoServer/controller/review"
	"bookstore/app/echoServer/jwtx"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth         *auth.Controller
	Book         *book.Controller
	Cart         *cart.Controller
	Order        *order.Controller
	Bookmark     *bookmark.Controller
	Review       *review.Controller
	Announcement *announcement.Controller
	JWTSecret    string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// Catalog reads are open; a token, when present, personalizes the
	// detail payload (bookmarked flag).
	cat := e.Group("/v1", OptionalJWT(c.JWTSecret))
	cat.GET("/books", c.Book.List)
	cat.GET("/books/:id", c.Book.Detail)
	cat.GET("/books/:id/reviews", c.Review.ListByBook)
	cat.GET("/announcements", c.Announcement.Active)

	// Auth
	auth := e.Group("/v1")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
		// a missing header is still an unauthenticated request, not a
		// malformed one; without this the extractor failure maps to 400
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		},
	}))
	// user_id + role extraction
	auth.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			uid, err := jwtx.UserIDFromContext(ctx)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("user_id", uid)

			if role, err := jwtx.RoleFromContext(ctx); err == nil {
				ctx.Set("role", role)
			}
			return next(ctx)
		}
	})

	// Cart
	auth.GET("/cart", c.Cart.Get)
	auth.POST("/cart/add", c.Cart.Add)
	auth.PUT("/cart/update/:itemId", c.Cart.Update)
	auth.DELETE("/cart/remove/:itemId", c.Cart.Remove)
	auth.DELETE("/cart/clear", c.Cart.Clear)

	// Orders
	auth.POST("/orders", c.Order.Create)
	auth.GET("/orders", c.Order.MyOrders)
	auth.PUT("/orders/:id/cancel", c.Order.Cancel)
	// Counter operations, staff and admin only (checked in the controller)
	auth.PUT("/orders/:id/confirm", c.Order.Confirm)
	auth.PUT("/orders/:id/fulfill", c.Order.Fulfill)

	// Bookmarks
	auth.GET("/bookmarks", c.Bookmark.List)
	auth.POST("/bookmarks", c.Bookmark.Add)
	auth.DELETE("/bookmarks/:bookId", c.Bookmark.Remove)

	// Reviews
	auth.POST("/books/:id/reviews", c.Review.Create)

	// Admin: catalog management
	auth.POST("/books", c.Book.Create)
	auth.PUT("/books/:id", c.Book.Update)
	auth.DELETE("/books/:id", c.Book.Delete)
	auth.PATCH("/books/:id/inventory", c.Book.SetInventory)

	// Admin: announcements
	auth.GET("/admin/announcements", c.Announcement.ListAll)
	auth.POST("/admin/announcements", c.Announcement.Create)
	auth.PUT("/admin/announcements/:id", c.Announcement.Update)
	auth.DELETE("/admin/announcements/:id", c.Announcement.Delete)
	auth.PUT("/admin/announcements/:id/toggle", c.Announcement.Toggle)
}
