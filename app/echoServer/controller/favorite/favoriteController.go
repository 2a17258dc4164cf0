package favorite

import (
	"log/slog"
	"net/http"
	"strconv"

	fs "github.com/delak101/librarysystem/service/favorite"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc fs.Service
	Log *slog.Logger
}

// POST /v1/favorites/:bookId
func (h *Controller) Add(c echo.Context) error {
	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	ok, err := h.Svc.Add(c.Request().Context(), uid, bookID)
	if err != nil {
		h.Log.Error("favorite add", "user_id", uid, "book_id", bookID, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "book not found or already favorited"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "favorite added"})
}

// DELETE /v1/favorites/:bookId
func (h *Controller) Remove(c echo.Context) error {
	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	ok, err := h.Svc.Remove(c.Request().Context(), uid, bookID)
	if err != nil {
		h.Log.Error("favorite remove", "user_id", uid, "book_id", bookID, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "favorite not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "favorite removed"})
}

// GET /v1/favorites
func (h *Controller) List(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)

	rows, err := h.Svc.List(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("favorite list", "user_id", uid, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
