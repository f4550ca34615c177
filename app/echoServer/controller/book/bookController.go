package book

import (
	"log/slog"
	"net/http"
	"strconv"

	"bookstore/model"
	booksvc "bookstore/service/book"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc booksvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == model.RoleAdmin
}

func parseFilter(c echo.Context) booksvc.Filter {
	q := c.QueryParams()
	f := booksvc.Filter{
		Search:     c.QueryParam("search"),
		Authors:    q["author"],
		Genres:     q["genre"],
		Languages:  q["language"],
		Publishers: q["publisher"],
		InStock:    c.QueryParam("inStock") == "true",
		OnSale:     c.QueryParam("onSale") == "true",
		NewRelease: c.QueryParam("newRelease") == "true",
		NewArrival: c.QueryParam("newArrival") == "true",
		ComingSoon: c.QueryParam("comingSoon") == "true",
		AwardWin:   c.QueryParam("awardWinner") == "true",
		SortBy:     c.QueryParam("sortBy"),
		Descending: c.QueryParam("order") == "desc",
	}
	if v, err := strconv.ParseFloat(c.QueryParam("minPrice"), 64); err == nil {
		f.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.QueryParam("maxPrice"), 64); err == nil {
		f.MaxPrice = &v
	}
	if v, err := strconv.ParseFloat(c.QueryParam("minRating"), 64); err == nil {
		f.MinRating = &v
	}
	f.Page, _ = strconv.Atoi(c.QueryParam("page"))
	f.PageSize, _ = strconv.Atoi(c.QueryParam("pageSize"))
	return f
}

// GET /v1/books
func (h *Controller) List(c echo.Context) error {
	out, err := h.Svc.List(c.Request().Context(), parseFilter(c))
	if err != nil {
		h.Log.Error("book list error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, out)
}

// GET /v1/books/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	viewerID, _ := c.Get("user_id").(int64)

	row, err := h.Svc.Detail(c.Request().Context(), id, viewerID)
	if err != nil {
		if booksvc.Code(err) == booksvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
		}
		h.Log.Error("book detail error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, row)
}

// POST /v1/books  (admin)
func (h *Controller) Create(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	var req CreateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	b := &model.Book{
		Title:              req.Title,
		Author:             req.Author,
		ISBN:               req.ISBN,
		Description:        req.Description,
		Publisher:          req.Publisher,
		Price:              req.Price,
		OriginalPrice:      req.OriginalPrice,
		Stock:              req.Stock,
		Language:           req.Language,
		Format:             req.Format,
		Genre:              req.Genre,
		Pages:              req.Pages,
		Dimensions:         req.Dimensions,
		WeightGrams:        req.WeightGrams,
		PublicationDate:    req.PublicationDate,
		IsBestseller:       req.IsBestseller,
		IsNewRelease:       req.IsNewRelease,
		IsOnSale:           req.IsOnSale,
		IsAwardWinner:      req.IsAwardWinner,
		DiscountPercentage: req.DiscountPercentage,
		DiscountStart:      req.DiscountStart,
		DiscountEnd:        req.DiscountEnd,
	}
	id, err := h.Svc.Create(c.Request().Context(), b)
	if err != nil {
		if booksvc.Code(err) == booksvc.ErrBadInput {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload"})
		}
		h.Log.Error("book create error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// PUT /v1/books/:id  (admin)
func (h *Controller) Update(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	if err := h.Svc.Update(c.Request().Context(), id, req.patch()); err != nil {
		switch booksvc.Code(err) {
		case booksvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
		case booksvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload"})
		default:
			h.Log.Error("book update error", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// DELETE /v1/books/:id  (admin)
func (h *Controller) Delete(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		if booksvc.Code(err) == booksvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
		}
		h.Log.Error("book delete error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// PATCH /v1/books/:id/inventory  (admin)
func (h *Controller) SetInventory(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateInventoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": echo.Map{"stock": "gte 0"}})
	}

	if err := h.Svc.SetStock(c.Request().Context(), id, *req.Stock); err != nil {
		if booksvc.Code(err) == booksvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
		}
		h.Log.Error("inventory update error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "stock updated"})
}
