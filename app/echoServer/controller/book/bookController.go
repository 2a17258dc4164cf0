package book

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/delak101/librarysystem/model"
	booksvc "github.com/delak101/librarysystem/service/book"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc booksvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/books
func (h *Controller) Create(c echo.Context) error {
	var req UpsertBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	b := toBook(req)
	if err := h.Svc.Create(c.Request().Context(), b); err != nil {
		h.Log.Error("book create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, b)
}

// PUT /v1/books/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	var req UpsertBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	b := toBook(req)
	b.ID = id
	ok, err := h.Svc.Update(c.Request().Context(), b)
	if err != nil {
		h.Log.Error("book update", "book_id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "book updated"})
}

// DELETE /v1/books/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	ok, err := h.Svc.Delete(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("book delete", "book_id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "book deleted"})
}

// GET /v1/books/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	b, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		}
		h.Log.Error("book detail", "book_id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, b)
}

// GET /v1/books
func (h *Controller) List(c echo.Context) error {
	books, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("book list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": books})
}

func toBook(req UpsertBookReq) *model.Book {
	return &model.Book{
		Name:         req.Name,
		Description:  req.Description,
		Shelf:        req.Shelf,
		Department:   req.Department,
		AssignedYear: req.AssignedYear,
		Image:        req.Image,
	}
}
