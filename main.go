// Package main library API.
//
// @title           Library System API
// @version         1.0
// @description     library backend (catalog, borrow lifecycle, notifications).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/delak101/librarysystem/app/echoServer"
	"github.com/delak101/librarysystem/app/echoServer/controller"
	analyticsctrl "github.com/delak101/librarysystem/app/echoServer/controller/analytics"
	authctrl "github.com/delak101/librarysystem/app/echoServer/controller/auth"
	bookctrl "github.com/delak101/librarysystem/app/echoServer/controller/book"
	borrowctrl "github.com/delak101/librarysystem/app/echoServer/controller/borrow"
	favctrl "github.com/delak101/librarysystem/app/echoServer/controller/favorite"
	notifctrl "github.com/delak101/librarysystem/app/echoServer/controller/notification"
	"github.com/delak101/librarysystem/app/echoServer/validation"
	"github.com/delak101/librarysystem/config"
	analyticsrepo "github.com/delak101/librarysystem/repository/analytics"
	bookrepo "github.com/delak101/librarysystem/repository/book"
	borrowrepo "github.com/delak101/librarysystem/repository/borrow"
	favrepo "github.com/delak101/librarysystem/repository/favorite"
	notifrepo "github.com/delak101/librarysystem/repository/notification"
	pushrepo "github.com/delak101/librarysystem/repository/push"
	userrepo "github.com/delak101/librarysystem/repository/user"
	"github.com/delak101/librarysystem/scheduler"
	analyticssvc "github.com/delak101/librarysystem/service/analytics"
	authsvc "github.com/delak101/librarysystem/service/auth"
	booksvc "github.com/delak101/librarysystem/service/book"
	borrowsvc "github.com/delak101/librarysystem/service/borrow"
	favsvc "github.com/delak101/librarysystem/service/favorite"
	notifsvc "github.com/delak101/librarysystem/service/notification"
	usersvc "github.com/delak101/librarysystem/service/user"
	"github.com/delak101/librarysystem/util/database"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ur := userrepo.New(db)
	br := bookrepo.New(db)
	rr := borrowrepo.New(db)
	nr := notifrepo.New(db)
	fr := favrepo.New(db)
	anr := analyticsrepo.New(db)
	pr := pushrepo.NewHTTP(cfg.FCMServerKey)

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	bs := booksvc.New(br)
	ns := notifsvc.New(nr, pr, log)
	rs := borrowsvc.New(db, rr, br, ur, ns, log, borrowsvc.Config{
		AllowDuplicateRequests: cfg.AllowDuplicateRequests,
	})
	fs := favsvc.New(fr, br)
	ans := analyticssvc.New(anr)
	us := usersvc.New(ur)

	// reminder scanner
	reminder := borrowsvc.NewReminder(rr, ns, log)
	sched := scheduler.NewReminderScheduler(reminder, cfg.ReminderSchedule, log)
	if err := sched.Start(ctx); err != nil {
		log.Error("scheduler start failed", "err", err)
		os.Exit(1)
	}
	defer sched.Stop()

	// controllers
	val := validation.New()
	v := val.Core()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	userC := &controller.UserController{Svc: us, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	borrowC := &borrowctrl.Controller{Svc: rs, V: v, Log: log}
	notifC := &notifctrl.Controller{Svc: ns, V: v, Log: log}
	favC := &favctrl.Controller{Svc: fs, Log: log}
	analyticsC := &analyticsctrl.Controller{Svc: ans, Log: log}

	// echo
	e := echo.New()
	e.HideBanner = true
	echoServer.RegisterMiddlewares(e)
	e.Validator = val

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:         authC,
		User:         userC,
		Book:         bookC,
		Borrow:       borrowC,
		Notification: notifC,
		Favorite:     favC,
		Analytics:    analyticsC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	go func() {
		slog.Info("starting server", "port", port, "env", cfg.Env)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			log.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}
