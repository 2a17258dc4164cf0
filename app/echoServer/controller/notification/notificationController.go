package notification

import (
	"log/slog"
	"net/http"
	"strconv"

	ns "github.com/delak101/librarysystem/service/notification"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type RegisterDeviceReq struct {
	Token      string `json:"token" validate:"required"`
	DeviceType string `json:"device_type" validate:"required,oneof=ios android web"`
}

type Controller struct {
	Svc ns.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/notifications/devices
func (h *Controller) RegisterDevice(c echo.Context) error {
	var req RegisterDeviceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid, _ := c.Get("user_id").(int64)

	t, err := h.Svc.RegisterDevice(c.Request().Context(), uid, req.Token, req.DeviceType)
	if err != nil {
		h.Log.Error("register device", "user_id", uid, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "device registered", "device": t})
}

// DELETE /v1/notifications/devices
func (h *Controller) UnregisterDevice(c echo.Context) error {
	var req struct {
		Token string `json:"token" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	if err := h.Svc.UnregisterDevice(c.Request().Context(), req.Token); err != nil {
		h.Log.Error("unregister device", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "device unregistered"})
}

// GET /v1/notifications
func (h *Controller) List(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)

	rows, err := h.Svc.ListForUser(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("notification list", "user_id", uid, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/notifications/:id/read
func (h *Controller) MarkRead(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	ok, err := h.Svc.MarkRead(c.Request().Context(), uid, id)
	if err != nil {
		h.Log.Error("notification mark read", "user_id", uid, "notif_id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "notification not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "marked as read"})
}
