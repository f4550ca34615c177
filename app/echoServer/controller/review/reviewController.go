package review

import (
	"log/slog"
	"net/http"
	"strconv"

	reviewsvc "bookstore/service/review"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type CreateReviewReq struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type Controller struct {
	Svc reviewsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/books/:id/reviews
func (h *Controller) Create(c echo.Context) error {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid book id"})
	}
	var req CreateReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid, _ := c.Get("user_id").(int64)

	rev, err := h.Svc.Create(c.Request().Context(), uid, bookID, req.Rating, req.Comment)
	if err != nil {
		switch reviewsvc.Code(err) {
		case reviewsvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "rating must be between 1 and 5"})
		case reviewsvc.ErrNotPurchased:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "only buyers of this book can review it"})
		case reviewsvc.ErrDuplicate:
			return c.JSON(http.StatusConflict, echo.Map{"message": "you already reviewed this book"})
		case reviewsvc.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		default:
			h.Log.Error("review create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": rev})
}

// GET /v1/books/:id/reviews  (public)
func (h *Controller) ListByBook(c echo.Context) error {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid book id"})
	}
	rows, err := h.Svc.ListByBook(c.Request().Context(), bookID)
	if err != nil {
		h.Log.Error("review list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
