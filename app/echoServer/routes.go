package echoServer

import (
	"net/http"

	"github.com/delak101/librarysystem/app/echoServer/controller"
	"github.com/delak101/librarysystem/app/echoServer/controller/analytics"
	"github.com/delak101/librarysystem/app/echoServer/controller/auth"
	"github.com/delak101/librarysystem/app/echoServer/controller/book"
	"github.com/delak101/librarysystem/app/echoServer/controller/borrow"
	"github.com/delak101/librarysystem/app/echoServer/controller/favorite"
	"github.com/delak101/librarysystem/app/echoServer/controller/notification"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth         *auth.Controller
	User         *controller.UserController
	Book         *book.Controller
	Borrow       *borrow.Controller
	Notification *notification.Controller
	Favorite     *favorite.Controller
	Analytics    *analytics.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// Auth
	authed := e.Group("/v1")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(c.JWTSecret),
		TokenLookup: "header:Authorization:Bearer ",
	}))
	authed.Use(extractClaims)

	// Users
	authed.GET("/users/me", c.User.Me)
	authed.DELETE("/users/:id", c.User.Delete, adminOnly)

	// Books
	authed.GET("/books", c.Book.List)
	authed.GET("/books/:id", c.Book.Detail)
	// Admin endpoints
	authed.POST("/books", c.Book.Create, adminOnly)
	authed.PUT("/books/:id", c.Book.Update, adminOnly)
	authed.DELETE("/books/:id", c.Book.Delete, adminOnly)

	// Borrow lifecycle
	authed.POST("/borrow/request", c.Borrow.Request)
	authed.POST("/borrow/approve/:borrowId", c.Borrow.Approve, adminOnly)
	authed.POST("/borrow/deny/:borrowId", c.Borrow.Deny, adminOnly)
	authed.POST("/borrow/return/:borrowId", c.Borrow.Return, adminOnly)
	authed.GET("/borrow/pending", c.Borrow.Pending, adminOnly)
	authed.GET("/borrow/borrowed", c.Borrow.Borrowed, adminOnly)
	authed.GET("/borrow/overdue", c.Borrow.Overdue, adminOnly)
	authed.GET("/borrow/history/:userId", c.Borrow.UserHistory)

	// Notifications
	authed.POST("/notifications/devices", c.Notification.RegisterDevice)
	authed.DELETE("/notifications/devices", c.Notification.UnregisterDevice)
	authed.GET("/notifications", c.Notification.List)
	authed.POST("/notifications/:id/read", c.Notification.MarkRead)

	// Favorites
	authed.POST("/favorites/:bookId", c.Favorite.Add)
	authed.DELETE("/favorites/:bookId", c.Favorite.Remove)
	authed.GET("/favorites", c.Favorite.List)

	// Analytics
	authed.GET("/analytics/dashboard", c.Analytics.Dashboard, adminOnly)
}

// extractClaims lifts user_id and role out of the verified token so
// controllers never touch JWT types.
func extractClaims(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tok, ok := c.Get("user").(*jwt.Token)
		if !ok || tok == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		sub, ok := claims["sub"].(float64)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		c.Set("user_id", int64(sub))
		if role, ok := claims["role"].(string); ok {
			c.Set("role", role)
		}
		return next(c)
	}
}

func adminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if role, _ := c.Get("role").(string); role != "admin" {
			return c.JSON(http.StatusForbidden, echo.Map{"message": "admin only"})
		}
		return next(c)
	}
}
