package announcement

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"bookstore/model"
	announcementsvc "bookstore/service/announcement"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type CreateAnnouncementReq struct {
	Title    string     `json:"title" validate:"required"`
	Content  string     `json:"content" validate:"required"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
	IsActive *bool      `json:"is_active"`
}

type UpdateAnnouncementReq struct {
	Title    *string    `json:"title"`
	Content  *string    `json:"content"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
	IsActive *bool      `json:"is_active"`
}

type Controller struct {
	Svc announcementsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == model.RoleAdmin
}

// GET /v1/announcements  (public banner feed)
func (h *Controller) Active(c echo.Context) error {
	rows, err := h.Svc.ActiveNow(c.Request().Context())
	if err != nil {
		h.Log.Error("announcement active", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/admin/announcements
func (h *Controller) ListAll(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	rows, err := h.Svc.ListAll(c.Request().Context())
	if err != nil {
		h.Log.Error("announcement list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/admin/announcements
func (h *Controller) Create(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	var req CreateAnnouncementReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	a := model.Announcement{Title: req.Title, Content: req.Content, IsActive: true}
	if req.StartsAt != nil {
		a.StartsAt = *req.StartsAt
	}
	a.EndsAt = req.EndsAt
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}

	if err := h.Svc.Create(c.Request().Context(), &a); err != nil {
		if announcementsvc.Code(err) == announcementsvc.ErrBadInput {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid announcement"})
		}
		h.Log.Error("announcement create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": a})
}

// PUT /v1/admin/announcements/:id
func (h *Controller) Update(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateAnnouncementReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}

	p := announcementsvc.Patch{
		Title:    req.Title,
		Content:  req.Content,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		IsActive: req.IsActive,
	}
	if err := h.Svc.Update(c.Request().Context(), id, p); err != nil {
		switch announcementsvc.Code(err) {
		case announcementsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "announcement not found"})
		case announcementsvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid announcement"})
		default:
			h.Log.Error("announcement update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// DELETE /v1/admin/announcements/:id
func (h *Controller) Delete(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		if announcementsvc.Code(err) == announcementsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "announcement not found"})
		}
		h.Log.Error("announcement delete", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// PUT /v1/admin/announcements/:id/toggle
func (h *Controller) Toggle(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	a, err := h.Svc.Toggle(c.Request().Context(), id)
	if err != nil {
		if announcementsvc.Code(err) == announcementsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "announcement not found"})
		}
		h.Log.Error("announcement toggle", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": a})
}
