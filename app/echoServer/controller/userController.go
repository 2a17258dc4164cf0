package controller

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	us "github.com/delak101/librarysystem/service/user"

	"github.com/labstack/echo/v4"
)

type UserController struct {
	Svc us.Service
	Log *slog.Logger
}

// GET /v1/users/me
func (h *UserController) Me(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)

	u, err := h.Svc.Profile(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		}
		h.Log.Error("user profile", "user_id", uid, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, u)
}

// DELETE /v1/users/:id
func (h *UserController) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	ok, err := h.Svc.Purge(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("user purge", "user_id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}
