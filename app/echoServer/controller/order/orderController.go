package order

import (
	"log/slog"
	"net/http"
	"strconv"

	"bookstore/model"
	ordersvc "bookstore/service/order"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc ordersvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// fulfillment is a counter operation, staff do it too
func isStaff(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == model.RoleAdmin || role == model.RoleStaff
}

// POST /v1/orders
func (h *Controller) Create(c echo.Context) error {
	var req CreateOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid, _ := c.Get("user_id").(int64)

	items := make([]ordersvc.Item, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ordersvc.Item{BookID: it.BookID, Quantity: it.Quantity})
	}

	o, err := h.Svc.Create(c.Request().Context(), uid, items, ordersvc.Shipping{
		Name:    req.ShippingName,
		Address: req.ShippingAddress,
		Phone:   req.ShippingPhone,
	})
	if err != nil {
		h.Log.Error("order create", "err", err)
		switch ordersvc.Code(err) {
		case ordersvc.ErrUnauthorized:
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		case ordersvc.ErrEmptyItems:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "order needs at least one item"})
		case ordersvc.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		case ordersvc.ErrNoStock:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "insufficient stock"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"order":      o,
		"claim_code": o.ClaimCode,
	})
}

// GET /v1/orders
func (h *Controller) MyOrders(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.MyOrders(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("order list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// PUT /v1/orders/:id/cancel
func (h *Controller) Cancel(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	if err := h.Svc.Cancel(c.Request().Context(), id, uid); err != nil {
		switch ordersvc.Code(err) {
		case ordersvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "order not found"})
		case ordersvc.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case ordersvc.ErrCannotCancel:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "cannot cancel"})
		default:
			h.Log.Error("order cancel", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "cancelled"})
}

// PUT /v1/orders/:id/confirm  (staff)
func (h *Controller) Confirm(c echo.Context) error {
	if !isStaff(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Confirm(c.Request().Context(), id); err != nil {
		switch ordersvc.Code(err) {
		case ordersvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "order not found"})
		case ordersvc.ErrBadTransition:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "order is not pending"})
		default:
			h.Log.Error("order confirm", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "confirmed"})
}

// PUT /v1/orders/:id/fulfill  (staff, body = claim code)
func (h *Controller) Fulfill(c echo.Context) error {
	if !isStaff(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req FulfillReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": echo.Map{"claim_code": "required"}})
	}

	if err := h.Svc.Fulfill(c.Request().Context(), id, req.ClaimCode); err != nil {
		switch ordersvc.Code(err) {
		case ordersvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "order not found"})
		case ordersvc.ErrBadClaimCode:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "claim code does not match"})
		case ordersvc.ErrBadTransition:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "order is not confirmed"})
		default:
			h.Log.Error("order fulfill", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "completed"})
}
