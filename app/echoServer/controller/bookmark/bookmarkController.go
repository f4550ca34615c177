package bookmark

import (
	"log/slog"
	"net/http"
	"strconv"

	bookmarksvc "bookstore/service/bookmark"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AddBookmarkReq struct {
	BookID int64 `json:"book_id" validate:"required,gt=0"`
}

type Controller struct {
	Svc bookmarksvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/bookmarks
func (h *Controller) List(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.List(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("bookmark list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/bookmarks
func (h *Controller) Add(c echo.Context) error {
	var req AddBookmarkReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid, _ := c.Get("user_id").(int64)

	created, err := h.Svc.Add(c.Request().Context(), uid, req.BookID)
	if err != nil {
		if bookmarksvc.Code(err) == bookmarksvc.ErrBookNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		}
		h.Log.Error("bookmark add", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if !created {
		return c.JSON(http.StatusOK, echo.Map{"message": "already bookmarked"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "bookmarked"})
}

// DELETE /v1/bookmarks/:bookId
func (h *Controller) Remove(c echo.Context) error {
	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid book id"})
	}
	uid, _ := c.Get("user_id").(int64)

	if err := h.Svc.Remove(c.Request().Context(), uid, bookID); err != nil {
		h.Log.Error("bookmark remove", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}
