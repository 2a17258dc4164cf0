package borrow

import (
	"log/slog"
	"net/http"
	"strconv"

	bs "github.com/delak101/librarysystem/service/borrow"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc bs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/borrow/request?userId=&bookId=
func (h *Controller) Request(c echo.Context) error {
	var req RequestBorrowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request"})
	}
	// echo's default binder skips query params on POST, and the primary
	// form of this endpoint carries userId/bookId in the query string.
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	view, err := h.Svc.Request(c.Request().Context(), req.UserID, req.BookID)
	if err != nil {
		switch bs.Code(err) {
		case bs.ErrUserNotFound:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "user not found"})
		case bs.ErrBookNotFound:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "book not found"})
		case bs.ErrBookUnavailable:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "book is not available"})
		case bs.ErrDuplicateRequest:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "you already have an open request for this book"})
		default:
			h.Log.Error("borrow request", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "borrow request submitted",
		"borrow":  view,
	})
}

// POST /v1/borrow/approve/:borrowId
func (h *Controller) Approve(c echo.Context) error {
	id, err := parseID(c, "borrowId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	ok, err := h.Svc.Approve(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("borrow approve", "borrow_id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "failed to approve request"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "borrow request approved"})
}

// POST /v1/borrow/deny/:borrowId
func (h *Controller) Deny(c echo.Context) error {
	id, err := parseID(c, "borrowId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	ok, err := h.Svc.Deny(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("borrow deny", "borrow_id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "failed to deny request"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "borrow request denied"})
}

// POST /v1/borrow/return/:borrowId
func (h *Controller) Return(c echo.Context) error {
	id, err := parseID(c, "borrowId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	ok, err := h.Svc.Return(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("borrow return", "borrow_id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "failed to return book"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "book returned successfully"})
}

// GET /v1/borrow/pending
func (h *Controller) Pending(c echo.Context) error {
	rows, err := h.Svc.Pending(c.Request().Context())
	if err != nil {
		h.Log.Error("borrow pending list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/borrow/borrowed
func (h *Controller) Borrowed(c echo.Context) error {
	rows, err := h.Svc.Borrowed(c.Request().Context())
	if err != nil {
		h.Log.Error("borrowed list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/borrow/overdue
func (h *Controller) Overdue(c echo.Context) error {
	rows, err := h.Svc.Overdue(c.Request().Context())
	if err != nil {
		h.Log.Error("overdue list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/borrow/history/:userId
func (h *Controller) UserHistory(c echo.Context) error {
	id, err := parseID(c, "userId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	rows, err := h.Svc.UserHistory(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("borrow history", "user_id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

func parseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.ErrBadRequest
	}
	return id, nil
}
