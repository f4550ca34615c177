package cart

import (
	"log/slog"
	"net/http"
	"strconv"

	cartsvc "bookstore/service/cart"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc cartsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/cart
func (h *Controller) Get(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	sum, err := h.Svc.Get(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("cart get error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, sum)
}

// POST /v1/cart/add
func (h *Controller) Add(c echo.Context) error {
	var req AddItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid, _ := c.Get("user_id").(int64)

	id, err := h.Svc.AddItem(c.Request().Context(), uid, req.BookID, req.Quantity)
	if err != nil {
		switch cartsvc.Code(err) {
		case cartsvc.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		case cartsvc.ErrNoStock:
			return c.JSON(http.StatusConflict, echo.Map{"message": "insufficient stock"})
		case cartsvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid quantity"})
		default:
			h.Log.Error("cart add error", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"item_id": id})
}

// PUT /v1/cart/update/:itemId
func (h *Controller) Update(c echo.Context) error {
	itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil || itemID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	uid, _ := c.Get("user_id").(int64)

	if err := h.Svc.UpdateItem(c.Request().Context(), uid, itemID, req.Quantity); err != nil {
		switch cartsvc.Code(err) {
		case cartsvc.ErrItemNotFound, cartsvc.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "item not found"})
		case cartsvc.ErrNoStock:
			return c.JSON(http.StatusConflict, echo.Map{"message": "insufficient stock"})
		default:
			h.Log.Error("cart update error", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// DELETE /v1/cart/remove/:itemId
func (h *Controller) Remove(c echo.Context) error {
	itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil || itemID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	if err := h.Svc.RemoveItem(c.Request().Context(), uid, itemID); err != nil {
		h.Log.Error("cart remove error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DELETE /v1/cart/clear
func (h *Controller) Clear(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	if err := h.Svc.Clear(c.Request().Context(), uid); err != nil {
		h.Log.Error("cart clear error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}
