package analytics

import (
	"log/slog"
	"net/http"

	as "github.com/delak101/librarysystem/service/analytics"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc as.Service
	Log *slog.Logger
}

// GET /v1/analytics/dashboard
func (h *Controller) Dashboard(c echo.Context) error {
	stats, err := h.Svc.Dashboard(c.Request().Context())
	if err != nil {
		h.Log.Error("analytics dashboard", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, stats)
}
